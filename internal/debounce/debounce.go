// Package debounce delays rapidly repeated work until the caller has
// gone quiet, so only the latest request in a burst actually runs.
package debounce

import (
	"sync"
	"time"
)

const defaultDelay = 500 * time.Millisecond

// Scheduler runs at most the latest scheduled function, once the delay
// has elapsed without a newer Schedule call. Superseded functions never
// run at all.
type Scheduler struct {
	mu         sync.Mutex
	delay      time.Duration
	timer      *time.Timer
	generation uint64
}

type Option func(*Scheduler)

func WithDelay(delay time.Duration) Option {
	return func(s *Scheduler) {
		if delay > 0 {
			s.delay = delay
		}
	}
}

func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{delay: defaultDelay}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Schedule queues fn to run after the delay, replacing any function
// still pending. fn receives a stale check: work that outlives its
// scheduling slot (an async result arriving after a newer Schedule)
// should consult it and discard its outcome when it reports true.
func (s *Scheduler) Schedule(fn func(stale func() bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	generation := s.generation

	stale := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.generation != generation
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if stale() {
			return
		}
		fn(stale)
	})
}

// Cancel drops any pending function and marks outstanding work stale.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
