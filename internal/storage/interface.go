package storage

import (
	"context"
	"errors"
	"time"

	"github.com/yourname/blackholeescape/internal"
)

var ErrNotFound = errors.New("storage: not found")

type ScheduleRepository interface {
	SaveSchedule(ctx context.Context, doc *internal.ScheduleDocument) error
	GetSchedule(ctx context.Context, login string) (*internal.ScheduleDocument, error)
}

// SuggestionRepository records which suggestions a user accepted. Suggestions
// themselves are regenerated on demand; only acceptance is stored.
type SuggestionRepository interface {
	AcceptSuggestion(ctx context.Context, login, suggestionID string, at time.Time) error
	ListAccepted(ctx context.Context, login string) (map[string]time.Time, error)
}
