package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humdle/humdle-cli/internal/cache"
	"github.com/humdle/humdle-cli/internal/domain"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// countingFetch counts invocations and returns a fixed value.
func countingFetch(value any, calls *int32) cache.FetchFunc {
	var mu sync.Mutex
	return func(ctx context.Context) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		*calls++
		return value, nil
	}
}

func TestGetColdReadBlocksUntilFetched(t *testing.T) {
	t.Parallel()

	c := cache.New()

	var calls int32
	result, err := c.Get(context.Background(), cache.GenresKey(), countingFetch("genres", &calls))
	require.NoError(t, err)

	assert.True(t, result.HasValue)
	assert.Equal(t, "genres", result.Value)
	assert.EqualValues(t, 1, calls)
}

func TestGetFreshValueSkipsFetch(t *testing.T) {
	t.Parallel()

	c := cache.New()

	var calls int32
	fetch := countingFetch("genres", &calls)

	_, err := c.Get(context.Background(), cache.GenresKey(), fetch)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), cache.GenresKey(), fetch)
	require.NoError(t, err)

	assert.EqualValues(t, 1, calls, "fresh value must be served without a fetch")
}

func TestGetOverlappingReadsShareOneFetch(t *testing.T) {
	t.Parallel()

	c := cache.New()
	key := cache.AccountKey()

	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return "account", nil
	}

	var wg sync.WaitGroup
	results := make([]cache.Result, 2)
	for n := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := c.Get(context.Background(), key, fetch)
			assert.NoError(t, err)
			results[n] = result
		}()
	}

	// Both readers must be parked on the same in-flight fetch before it
	// resolves.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, time.Second, time.Millisecond)

	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	for _, result := range results {
		assert.Equal(t, "account", result.Value)
	}
}

func TestGetStaleValueRevalidatesInBackground(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	c := cache.New(cache.WithClock(clock), cache.WithStaleAfter(time.Minute))
	key := cache.AccountKey()

	var mu sync.Mutex
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return "first", nil
		}
		return "second", nil
	}

	_, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	// A stale read returns the old value immediately.
	result, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "first", result.Value)

	// The background revalidation lands shortly after.
	require.Eventually(t, func() bool {
		return c.Peek(key).Value == "second"
	}, time.Second, time.Millisecond)
}

func TestGetFailedRevalidationKeepsPreviousValue(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	c := cache.New(cache.WithClock(clock))
	key := cache.AccountKey()

	fetchErr := errors.New("backend down")
	var mu sync.Mutex
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return "good", nil
		}
		return nil, fetchErr
	}

	_, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	result, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "good", result.Value)

	require.Eventually(t, func() bool {
		return c.Peek(key).Err != nil
	}, time.Second, time.Millisecond)

	got := c.Peek(key)
	assert.True(t, got.HasValue, "previous value must survive a failed revalidation")
	assert.Equal(t, "good", got.Value)
	assert.ErrorIs(t, got.Err, fetchErr)
}

func TestGetColdFetchErrorSurfaces(t *testing.T) {
	t.Parallel()

	c := cache.New()
	fetchErr := errors.New("backend down")

	_, err := c.Get(context.Background(), cache.GenresKey(), func(ctx context.Context) (any, error) {
		return nil, fetchErr
	})
	require.ErrorIs(t, err, fetchErr)

	assert.False(t, c.Peek(cache.GenresKey()).HasValue)
}

func TestGetCanceledWaiterDoesNotPoisonEntry(t *testing.T) {
	t.Parallel()

	c := cache.New()
	key := cache.GenresKey()

	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
			<-release
			return "late", nil
		})
		done <- err
	}()

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// The detached fetch still completes and lands in the cache.
	close(release)
	require.Eventually(t, func() bool {
		return c.Peek(key).Value == "late"
	}, time.Second, time.Millisecond)
}

func TestInvalidateForcesNextReadToFetch(t *testing.T) {
	t.Parallel()

	c := cache.New()
	key := cache.GenresKey()

	var calls int32
	fetch := countingFetch("genres", &calls)

	_, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	c.Invalidate(key)

	result := c.Peek(key)
	assert.True(t, result.HasValue, "invalidation must not discard the value")

	_, err = c.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls)
}

func TestMutatePopulateSuppressesRefetch(t *testing.T) {
	t.Parallel()

	c := cache.New()
	key := cache.AccountKey()

	value, err := c.Mutate(context.Background(), key, func(ctx context.Context) (any, error) {
		return "renamed", nil
	}, cache.MutateOptions{PopulateCache: true})
	require.NoError(t, err)
	assert.Equal(t, "renamed", value)

	var calls int32
	result, err := c.Get(context.Background(), key, countingFetch("fetched", &calls))
	require.NoError(t, err)

	assert.Equal(t, "renamed", result.Value)
	assert.EqualValues(t, 0, calls, "populated entry must be served without a fetch")
}

func TestMutateWithoutPopulateTriggersExactlyOneFetch(t *testing.T) {
	t.Parallel()

	c := cache.New()
	key := cache.AccountKey()

	var calls int32
	fetch := countingFetch("fetched", &calls)

	_, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	_, err = c.Mutate(context.Background(), key, func(ctx context.Context) (any, error) {
		return nil, nil
	}, cache.MutateOptions{})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	assert.EqualValues(t, 2, calls, "invalidation must cost exactly one extra fetch")
}

func TestMutateFailureLeavesCacheUntouched(t *testing.T) {
	t.Parallel()

	c := cache.New()
	key := cache.AccountKey()

	var calls int32
	_, err := c.Get(context.Background(), key, countingFetch("original", &calls))
	require.NoError(t, err)

	mutErr := errors.New("server rejected")
	_, err = c.Mutate(context.Background(), key, func(ctx context.Context) (any, error) {
		return nil, mutErr
	}, cache.MutateOptions{PopulateCache: true})
	require.ErrorIs(t, err, mutErr)

	result := c.Peek(key)
	assert.Equal(t, "original", result.Value)
	assert.NoError(t, result.Err)
}

func TestMutatePopulatesAliasesAtomically(t *testing.T) {
	t.Parallel()

	c := cache.New()
	id := domain.GameID(42)
	game := "game-42"

	_, err := c.Mutate(context.Background(), cache.ActiveGameKey(), func(ctx context.Context) (any, error) {
		return game, nil
	}, cache.MutateOptions{
		PopulateCache: true,
		Aliases: func(value any) []cache.Key {
			return []cache.Key{cache.GameKey(id), cache.DailyGameKey()}
		},
		Invalidate: []cache.Key{cache.RecentGamesKey()},
	})
	require.NoError(t, err)

	for _, key := range []cache.Key{cache.ActiveGameKey(), cache.GameKey(id), cache.DailyGameKey()} {
		result := c.Peek(key)
		assert.True(t, result.HasValue, "alias %v must be populated", key)
		assert.Equal(t, game, result.Value)
	}
}

func TestSubscribeSignalsOnWrite(t *testing.T) {
	t.Parallel()

	c := cache.New()
	key := cache.AccountKey()

	ch, cancel := c.Subscribe(key)
	defer cancel()

	_, err := c.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return "account", nil
	})
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a notification after the fetch landed")
	}
}

func TestMutationRejectsConcurrentRuns(t *testing.T) {
	t.Parallel()

	c := cache.New()
	m := cache.NewMutation(c)
	key := cache.AccountKey()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := m.Run(context.Background(), key, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "slow", nil
		}, cache.MutateOptions{PopulateCache: true})
		done <- err
	}()

	<-started
	assert.True(t, m.IsLoading())

	_, err := m.Run(context.Background(), key, func(ctx context.Context) (any, error) {
		return "fast", nil
	}, cache.MutateOptions{PopulateCache: true})
	require.ErrorIs(t, err, cache.ErrMutationInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, m.IsLoading())
	assert.Equal(t, "slow", c.Peek(key).Value)
}

func TestReadReturnsTypedValue(t *testing.T) {
	t.Parallel()

	c := cache.New()

	genres, err := cache.Read(context.Background(), c, cache.GenresKey(), func(ctx context.Context) ([]domain.Genre, error) {
		return []domain.Genre{{ID: 7, Name: "Rock"}}, nil
	})
	require.NoError(t, err)

	require.Len(t, genres, 1)
	assert.Equal(t, "Rock", genres[0].Name)
}
