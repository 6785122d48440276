package application

import (
	"context"
	"strings"

	"github.com/humdle/humdle-cli/internal/cache"
	"github.com/humdle/humdle-cli/internal/debounce"
	"github.com/humdle/humdle-cli/internal/domain"
)

// SearchAPI is the slice of the game API the search service needs.
type SearchAPI interface {
	SearchTracks(ctx context.Context, query string) ([]domain.Track, error)
}

// SearchService serves track searches for the guess picker. Interactive
// input goes through a debouncer so a burst of keystrokes issues one
// request for the final query; results for superseded queries are
// dropped rather than delivered out of order.
type SearchService struct {
	api       SearchAPI
	cache     *cache.Cache
	scheduler *debounce.Scheduler
}

func NewSearchService(searchAPI SearchAPI, c *cache.Cache, scheduler *debounce.Scheduler) *SearchService {
	return &SearchService{api: searchAPI, cache: c, scheduler: scheduler}
}

// Search runs the query immediately, through the cache. Meant for
// one-shot lookups; interactive input should use Debounced.
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	return cache.Read(ctx, s.cache, cache.SearchKey(query), func(ctx context.Context) ([]domain.Track, error) {
		return s.api.SearchTracks(ctx, query)
	})
}

// Debounced schedules the query and delivers its result once the input
// has settled. A query superseded before its delay elapses never hits
// the network; a result that arrives after a newer query was scheduled
// is discarded without calling deliver. An empty query cancels pending
// work and delivers an empty result at once.
func (s *SearchService) Debounced(ctx context.Context, query string, deliver func(tracks []domain.Track, err error)) {
	query = strings.TrimSpace(query)
	if query == "" {
		s.scheduler.Cancel()
		deliver(nil, nil)
		return
	}

	s.scheduler.Schedule(func(stale func() bool) {
		tracks, err := s.Search(ctx, query)
		if stale() {
			return
		}
		deliver(tracks, err)
	})
}
