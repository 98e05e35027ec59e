package api

import (
	"time"

	"github.com/yourname/blackholeescape/internal"
	"github.com/yourname/blackholeescape/internal/cache"
	"github.com/yourname/blackholeescape/internal/service"
	"github.com/yourname/blackholeescape/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Schedules() storage.ScheduleRepository
	Suggestions() storage.SuggestionRepository
	// Intra returns nil when no 42 API credentials are configured.
	Intra() service.IntraSource
	StatusCache() cache.StatusCache
	Now() time.Time
}

// Deps is the App used by the server binary.
type Deps struct {
	Log      internal.Logger
	Repos    *storage.Repositories
	IntraAPI service.IntraSource
	Cache    cache.StatusCache
	Clock    func() time.Time
}

func (d *Deps) Logger() internal.Logger                   { return d.Log }
func (d *Deps) Schedules() storage.ScheduleRepository     { return d.Repos.Schedules }
func (d *Deps) Suggestions() storage.SuggestionRepository { return d.Repos.Suggestions }
func (d *Deps) Intra() service.IntraSource                { return d.IntraAPI }

func (d *Deps) StatusCache() cache.StatusCache {
	if d.Cache == nil {
		return cache.Noop{}
	}
	return d.Cache
}

func (d *Deps) Now() time.Time {
	if d.Clock == nil {
		return time.Now().UTC()
	}
	return d.Clock()
}
