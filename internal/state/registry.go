package state

import (
	"context"
	"sync"
	"time"
)

// Registry hands out one loaded Controller per user id.
type Registry struct {
	build func(userID string) Options
	// Now stamps each use; Prune compares against it.
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	used time.Time
	once sync.Once
	c    *Controller
	err  error
}

// NewRegistry creates controllers with the options build returns.
func NewRegistry(build func(userID string) Options) *Registry {
	return &Registry{build: build, Now: time.Now, entries: make(map[string]*registryEntry)}
}

// Get returns the user's controller, creating and loading it on first use.
// A failed load is not cached.
func (r *Registry) Get(ctx context.Context, userID string) (*Controller, error) {
	r.mu.Lock()
	e, ok := r.entries[userID]
	if !ok {
		e = &registryEntry{}
		r.entries[userID] = e
	}
	e.used = r.Now()
	r.mu.Unlock()

	e.once.Do(func() {
		opts := r.build(userID)
		opts.UserID = userID
		c, err := New(opts)
		if err == nil {
			err = c.Load(ctx)
		}
		e.c, e.err = c, err
	})
	if e.err != nil {
		r.mu.Lock()
		if r.entries[userID] == e {
			delete(r.entries, userID)
		}
		r.mu.Unlock()
		return nil, e.err
	}
	return e.c, nil
}

// Len reports how many controllers are cached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Prune drops controllers unused for longer than idle and reports how many
// went. Their state is already persisted, so the next Get reloads it.
func (r *Registry) Prune(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.Now().Add(-idle)
	n := 0
	for id, e := range r.entries {
		if e.used.Before(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}
