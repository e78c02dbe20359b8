// Package storage keeps recently built artifacts in memory so a signed link
// can serve them for a short time after generation.
package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dharsanguruparan/DocFlow/internal/emit"
)

var (
	// ErrNotFound covers both unknown and expired ids so a caller cannot probe
	// for ids that used to exist.
	ErrNotFound = errors.New("artifact not found")
	// ErrFull is returned when the cache holds MaxEntries live artifacts.
	ErrFull = errors.New("artifact cache full")
)

type entry struct {
	artifact emit.Artifact
	expires  time.Time
}

// MemoryStore is a TTL cache of artifacts guarded by an RWMutex: downloads
// read concurrently, generation writes.
type MemoryStore struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryStore constructs a MemoryStore. maxEntries <= 0 means unbounded.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	return &MemoryStore{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Put stores a copy of a and returns its id.
func (m *MemoryStore) Put(a emit.Artifact) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		m.sweepLocked(now)
		if len(m.items) >= m.maxEntries {
			return "", ErrFull
		}
	}
	a.Data = append([]byte(nil), a.Data...)
	id := uuid.NewString()
	m.items[id] = entry{artifact: a, expires: now.Add(m.ttl)}
	return id, nil
}

// Get returns the artifact for id while it is live.
func (m *MemoryStore) Get(id string) (emit.Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.items[id]
	if !ok || !m.now().Before(e.expires) {
		return emit.Artifact{}, ErrNotFound
	}
	return e.artifact, nil
}

// Sweep drops expired entries and reports how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(m.now())
}

// Len counts stored entries, expired ones included until the next sweep.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *MemoryStore) sweepLocked(now time.Time) int {
	n := 0
	for id, e := range m.items {
		if !now.Before(e.expires) {
			delete(m.items, id)
			n++
		}
	}
	return n
}
