package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// minSweepSize is the entry count below which Set never sweeps on size.
	minSweepSize = 1024

	// sweepInterval forces a sweep on Set when the last one is this old.
	sweepInterval = time.Minute
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Cache. Expired entries are dropped when read,
// and swept in bulk on Set once the map has doubled since the last sweep
// or sweepInterval has passed. The map therefore stays within twice the
// live entry count (or minSweepSize).
type Memory struct {
	mu            sync.Mutex
	entries       map[string]entry
	now           func() time.Time
	lastSweep     time.Time
	nextSweepSize int
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *Memory {
	return &Memory{
		entries:       make(map[string]entry),
		now:           now,
		lastSweep:     now(),
		nextSweepSize: minSweepSize,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries[key] = entry{value: stored, expiresAt: now.Add(ttl)}

	if len(m.entries) >= m.nextSweepSize || now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
	}
	return nil
}

// sweep drops every expired entry. Callers hold mu.
func (m *Memory) sweep(now time.Time) {
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
		}
	}
	m.lastSweep = now
	m.nextSweepSize = max(minSweepSize, 2*len(m.entries))
}

// Len returns the number of entries, including expired ones not yet swept.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
