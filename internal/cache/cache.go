package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/humdle/humdle-cli/internal/ports"
)

// defaultStaleAfter is the staleness window: a cached value younger than
// this is served without revalidation.
const defaultStaleAfter = time.Minute

type FetchFunc func(ctx context.Context) (any, error)

// Result is the observable state of one cache entry. A failed
// revalidation leaves the previous value in place and only sets Err, so
// consumers can keep showing last-known-good data next to an error
// indicator.
type Result struct {
	Value     any
	HasValue  bool
	Err       error
	FetchedAt time.Time
}

// Cache is a stale-while-revalidate cache over server resources. Reads
// serve the last known value immediately and revalidate in the
// background; concurrent reads of one key share a single in-flight
// fetch. Each instance is independent, so tests can construct their own.
type Cache struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	staleAfter time.Duration
	clock      ports.Clock
}

type entry struct {
	value     any
	hasValue  bool
	err       error
	fetchedAt time.Time
	inflight  *inflight
	subs      map[int]chan struct{}
	nextSub   int
}

// inflight is the single outstanding fetch for a key. Late subscribers
// adopt its result instead of issuing their own request.
type inflight struct {
	done  chan struct{}
	value any
	err   error
}

type CacheOption func(*Cache)

func WithStaleAfter(staleAfter time.Duration) CacheOption {
	return func(c *Cache) {
		if staleAfter > 0 {
			c.staleAfter = staleAfter
		}
	}
}

func WithClock(clock ports.Clock) CacheOption {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func New(opts ...CacheOption) *Cache {
	c := &Cache{
		entries:    map[Key]*entry{},
		staleAfter: defaultStaleAfter,
		clock:      ports.SystemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the entry for key, fetching or revalidating as needed.
// With a fresh value: returns it, no fetch. With a stale value: returns
// it immediately and revalidates in the background. With no value:
// blocks until the (shared) fetch resolves. The returned error is
// non-nil only when no value could be produced at all.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc) (Result, error) {
	c.mu.Lock()

	e := c.entryLocked(key)
	now := c.clock.Now()
	if e.hasValue && now.Sub(e.fetchedAt) < c.staleAfter {
		result := e.result()
		c.mu.Unlock()
		return result, nil
	}

	fl := e.inflight
	if fl == nil {
		fl = &inflight{done: make(chan struct{})}
		e.inflight = fl
		// The fetch is detached from the caller's context: cancellation
		// means "ignore late results", not "stop the request", and other
		// readers may be waiting on the same fetch.
		go c.runFetch(context.WithoutCancel(ctx), key, fl, fetch)
	}

	if e.hasValue {
		result := e.result()
		c.mu.Unlock()
		return result, nil
	}
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-fl.done:
	}

	if fl.err != nil {
		return Result{Err: fl.err}, fl.err
	}

	return Result{Value: fl.value, HasValue: true, FetchedAt: c.clock.Now()}, nil
}

// Peek returns the entry's current state without triggering a fetch.
func (c *Cache) Peek(key Key) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Result{}
	}

	return e.result()
}

// Subscribe registers interest in writes to key. The channel receives a
// (coalesced) signal whenever the entry changes; cancel detaches it.
func (c *Cache) Subscribe(key Key) (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	ch := make(chan struct{}, 1)
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(e.subs, id)
	}

	return ch, cancel
}

// Invalidate marks the entry stale, forcing the next read to fetch. The
// previous value stays available in the meantime.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidateLocked(key)
}

func (c *Cache) runFetch(ctx context.Context, key Key, fl *inflight, fetch FetchFunc) {
	value, err := fetch(ctx)
	fl.value, fl.err = value, err

	c.mu.Lock()
	e := c.entryLocked(key)
	// A mutation may have populated the entry and detached this fetch
	// while it was in flight; its result is then dropped.
	if e.inflight == fl {
		e.inflight = nil
		if err != nil {
			e.err = err
		} else {
			e.value = value
			e.hasValue = true
			e.err = nil
			e.fetchedAt = c.clock.Now()
		}
		e.notifyLocked()
	}
	c.mu.Unlock()

	close(fl.done)
}

func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{subs: map[int]chan struct{}{}}
		c.entries[key] = e
	}

	return e
}

func (c *Cache) populateLocked(key Key, value any) {
	e := c.entryLocked(key)
	e.value = value
	e.hasValue = true
	e.err = nil
	e.fetchedAt = c.clock.Now()
	e.inflight = nil
	e.notifyLocked()
}

func (c *Cache) invalidateLocked(key Key) {
	e, ok := c.entries[key]
	if !ok {
		return
	}

	e.fetchedAt = time.Time{}
	e.notifyLocked()
}

func (e *entry) result() Result {
	return Result{
		Value:     e.value,
		HasValue:  e.hasValue,
		Err:       e.err,
		FetchedAt: e.fetchedAt,
	}
}

func (e *entry) notifyLocked() {
	for _, ch := range e.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Read is a typed wrapper around Get.
func Read[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	result, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	value, ok := result.Value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %v holds %T, not %T", key, result.Value, zero)
	}

	return value, nil
}
