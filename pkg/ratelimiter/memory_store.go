package ratelimiter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// windowEntry tracks accepted calls since windowStart for one key.
type windowEntry struct {
	count       int
	windowStart time.Time
}

// MemoryStore implements Store with a mutex-guarded in-memory map.
// State is per process; see the package documentation for the scaling
// implications.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time

	// Observability counters
	entriesCreated atomic.Int64
	entriesRemoved atomic.Int64
}

// MemoryStoreStats provides observability metrics for monitoring and tests.
type MemoryStoreStats struct {
	EntriesCreated int64 // Total number of window entries created
	EntriesRemoved int64 // Total number of entries removed by cleanup, reset, or clear
	ActiveEntries  int   // Current number of tracked keys
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryStoreClock overrides the time source. Tests use this to step
// through window boundaries deterministically.
func WithMemoryStoreClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

// Take applies one fixed-window step for key. The empty string is a
// valid, distinct key.
func (ms *MemoryStore) Take(ctx context.Context, key string, cfg Config) (State, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()

	e, ok := ms.entries[key]
	if !ok {
		ms.entries[key] = &windowEntry{count: 1, windowStart: now}
		ms.entriesCreated.Add(1)
		return State{Allowed: true, Count: 1, ResetAt: now.Add(cfg.Window)}, nil
	}

	// Expired window: the overage is discarded, not carried over.
	if now.Sub(e.windowStart) >= cfg.Window {
		e.count = 1
		e.windowStart = now
		return State{Allowed: true, Count: 1, ResetAt: now.Add(cfg.Window)}, nil
	}

	resetAt := e.windowStart.Add(cfg.Window)

	if e.count >= cfg.Limit {
		return State{Allowed: false, Count: e.count, ResetAt: resetAt}, nil
	}

	e.count++
	return State{Allowed: true, Count: e.count, ResetAt: resetAt}, nil
}

func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.entries[key]; ok {
		delete(ms.entries, key)
		ms.entriesRemoved.Add(1)
	}
	return nil
}

func (ms *MemoryStore) Clear(ctx context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.entriesRemoved.Add(int64(len(ms.entries)))
	ms.entries = make(map[string]*windowEntry)
	return nil
}

// Cleanup removes entries whose window fully expired. The whole pass
// holds the store lock; with very large key cardinality prefer shorter
// cleanup intervals over larger ones so individual passes stay small.
func (ms *MemoryStore) Cleanup(ctx context.Context, window time.Duration) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()

	removed := 0
	for key, e := range ms.entries {
		if now.Sub(e.windowStart) >= window {
			delete(ms.entries, key)
			removed++
		}
	}

	if removed > 0 {
		ms.entriesRemoved.Add(int64(removed))
	}
	return removed, nil
}

func (ms *MemoryStore) Size(ctx context.Context) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.entries), nil
}

// Stats returns current store statistics. Thread-safe.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	active := len(ms.entries)
	ms.mu.Unlock()

	return MemoryStoreStats{
		EntriesCreated: ms.entriesCreated.Load(),
		EntriesRemoved: ms.entriesRemoved.Load(),
		ActiveEntries:  active,
	}
}
