package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/yourname/blackholeescape/internal"
)

// Repositories bundles the repositories of one backend plus its closer.
type Repositories struct {
	Schedules   ScheduleRepository
	Suggestions SuggestionRepository
	io.Closer
}

func NewFileRepositories(schedulesFile, suggestionsFile string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewFileStorage(schedulesFile, suggestionsFile, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Schedules: storage, Suggestions: storage, Closer: storage}, nil
}

// NewPostgresRepositories connects and migrates before returning.
func NewPostgresRepositories(ctx context.Context, dsn string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewPostgresStorage(ctx, dsn, logger)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(); err != nil {
		storage.Close()
		return nil, err
	}
	return &Repositories{Schedules: storage, Suggestions: storage, Closer: storage}, nil
}

// NewRepositories picks the backend by name: "file" or "postgres".
func NewRepositories(ctx context.Context, backend, dsn, schedulesFile, suggestionsFile string, logger internal.Logger) (*Repositories, error) {
	switch backend {
	case "file":
		return NewFileRepositories(schedulesFile, suggestionsFile, logger)
	case "postgres":
		return NewPostgresRepositories(ctx, dsn, logger)
	}
	return nil, fmt.Errorf("storage: unknown backend %q", backend)
}
