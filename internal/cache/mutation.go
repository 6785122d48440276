package cache

import (
	"context"
	"errors"
	"sync"
)

var ErrMutationInFlight = errors.New("mutation already in flight")

type MutationFunc func(ctx context.Context) (any, error)

type MutateOptions struct {
	// PopulateCache writes the mutation's result into the entry for the
	// mutated key and marks it fresh, suppressing an otherwise redundant
	// re-fetch. When false, the key is invalidated instead and the next
	// read fetches.
	PopulateCache bool
	// Aliases returns the other keys that denote the same server entity
	// as the mutated key. Every alias is populated atomically with the
	// primary key, so the cache can never present stale data under one
	// alias while another is fresh.
	Aliases func(value any) []Key
	// Invalidate lists keys whose cached values the mutation makes stale.
	Invalidate []Key
}

// Mutate runs fn and applies its result to the cache. A failed mutation
// leaves the cache untouched and returns the error so the caller can
// show feedback and retry.
func (c *Cache) Mutate(ctx context.Context, key Key, fn MutationFunc, opts MutateOptions) (any, error) {
	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if opts.PopulateCache {
		c.populateLocked(key, value)
		if opts.Aliases != nil {
			for _, alias := range opts.Aliases(value) {
				c.populateLocked(alias, value)
			}
		}
	} else {
		c.invalidateLocked(key)
	}
	for _, stale := range opts.Invalidate {
		c.invalidateLocked(stale)
	}

	return value, nil
}

// Mutation serializes write operations for one UI affordance: at most
// one mutation in flight, with IsLoading exposed so callers can disable
// re-submission.
type Mutation struct {
	cache   *Cache
	mu      sync.Mutex
	loading bool
}

func NewMutation(c *Cache) *Mutation {
	return &Mutation{cache: c}
}

func (m *Mutation) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.loading
}

func (m *Mutation) Run(ctx context.Context, key Key, fn MutationFunc, opts MutateOptions) (any, error) {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return nil, ErrMutationInFlight
	}
	m.loading = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	return m.cache.Mutate(ctx, key, fn, opts)
}
