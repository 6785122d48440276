package debounce_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humdle/humdle-cli/internal/debounce"
)

func TestScheduleRunsLatestOnly(t *testing.T) {
	t.Parallel()

	s := debounce.NewScheduler(debounce.WithDelay(20 * time.Millisecond))

	var mu sync.Mutex
	var ran []string
	record := func(query string) func(stale func() bool) {
		return func(stale func() bool) {
			mu.Lock()
			defer mu.Unlock()
			ran = append(ran, query)
		}
	}

	// A burst of keystrokes; only the final query may run.
	s.Schedule(record("f"))
	s.Schedule(record("fo"))
	s.Schedule(record("foo"))
	s.Schedule(record("foobar"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ran) > 0
	}, time.Second, time.Millisecond)

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"foobar"}, ran)
}

func TestScheduleStaleCheckFlipsOnSupersession(t *testing.T) {
	t.Parallel()

	s := debounce.NewScheduler(debounce.WithDelay(5 * time.Millisecond))

	staleResults := make(chan bool, 1)
	s.Schedule(func(stale func() bool) {
		// A newer schedule arrives while this one's async work is still
		// running; its result must be dropped.
		s.Schedule(func(stale func() bool) {})
		staleResults <- stale()
	})

	select {
	case gotStale := <-staleResults:
		assert.True(t, gotStale)
	case <-time.After(time.Second):
		t.Fatal("scheduled function never ran")
	}
}

func TestCancelDropsPendingWork(t *testing.T) {
	t.Parallel()

	s := debounce.NewScheduler(debounce.WithDelay(10 * time.Millisecond))

	ran := make(chan struct{}, 1)
	s.Schedule(func(stale func() bool) {
		ran <- struct{}{}
	})
	s.Cancel()

	select {
	case <-ran:
		t.Fatal("canceled function must not run")
	case <-time.After(50 * time.Millisecond):
	}
}
