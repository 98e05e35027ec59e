package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourname/blackholeescape/internal"
	"github.com/yourname/blackholeescape/internal/storage"
)

var ErrSuggestionNotFound = errors.New("suggestion not found")

func SaveSchedule(ctx context.Context, repo storage.ScheduleRepository, login string, req *ScheduleRequest, now time.Time) (*internal.ScheduleDocument, error) {
	doc := &internal.ScheduleDocument{
		Login:     login,
		Profile:   req.Profile,
		Slots:     req.Slots,
		UpdatedAt: now,
	}
	if err := repo.SaveSchedule(ctx, doc); err != nil {
		return nil, fmt.Errorf("save schedule for %s: %w", login, err)
	}
	return doc, nil
}

// LoadSchedule returns the stored schedule, or the default one when the login
// has none yet.
func LoadSchedule(ctx context.Context, repo storage.ScheduleRepository, login string) (*internal.ScheduleDocument, error) {
	doc, err := repo.GetSchedule(ctx, login)
	if errors.Is(err, storage.ErrNotFound) {
		def := DefaultSchedule(login)
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load schedule for %s: %w", login, err)
	}
	return doc, nil
}

// Insights runs the advice pipeline over the user's schedule and marks the
// suggestions they already accepted.
func Insights(ctx context.Context, schedules storage.ScheduleRepository, suggestions storage.SuggestionRepository, login string) (*internal.Advice, error) {
	doc, err := LoadSchedule(ctx, schedules, login)
	if err != nil {
		return nil, err
	}
	accepted, err := suggestions.ListAccepted(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("list accepted suggestions for %s: %w", login, err)
	}

	advice := Advise(doc.Profile, doc.Slots)
	for i := range advice.Suggestions {
		_, advice.Suggestions[i].Accepted = accepted[advice.Suggestions[i].ID]
	}
	return &advice, nil
}

// AcceptSuggestion records acceptance of one of the suggestions currently
// generated for the user. Unknown IDs are rejected.
func AcceptSuggestion(ctx context.Context, schedules storage.ScheduleRepository, suggestions storage.SuggestionRepository, login, id string, now time.Time) (*internal.Suggestion, error) {
	advice, err := Insights(ctx, schedules, suggestions, login)
	if err != nil {
		return nil, err
	}
	for _, s := range advice.Suggestions {
		if s.ID != id {
			continue
		}
		if err := suggestions.AcceptSuggestion(ctx, login, id, now); err != nil {
			return nil, fmt.Errorf("accept suggestion %s: %w", id, err)
		}
		s.Accepted = true
		return &s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSuggestionNotFound, id)
}
