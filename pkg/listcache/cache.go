// Package listcache caches action-list display names by list id. The
// cache is an explicit dependency handed to the services that need it,
// never ambient state. Invalidation is time-to-live plus an explicit
// bust when a list is renamed.
package listcache

import (
	"context"
	"sync"
	"time"
)

// Cache resolves list ids to display names. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(ctx context.Context, id string) (string, bool)
	Set(ctx context.Context, id, name string)
	Invalidate(ctx context.Context, id string)
}

// DefaultTTL bounds staleness for callers that don't pick their own.
const DefaultTTL = 10 * time.Minute

type entry struct {
	name    string
	expires time.Time
}

// Memory is an in-process TTL cache.
type Memory struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	entries map[string]entry
}

// NewMemory creates an in-memory cache. A non-positive ttl falls back to
// DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (m *Memory) Get(_ context.Context, id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return "", false
	}

	if m.now().After(e.expires) {
		delete(m.entries, id)

		return "", false
	}

	return e.name, true
}

func (m *Memory) Set(_ context.Context, id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = entry{name: name, expires: m.now().Add(m.ttl)}
}

func (m *Memory) Invalidate(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
}
