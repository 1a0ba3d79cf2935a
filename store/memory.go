package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store for tests and dry runs.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]StateEntry
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]StateEntry)}
}

// Seed pre-loads entries, mainly for tests.
func (m *Memory) Seed(entries ...StateEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries[e.ProductID] = e
	}
}

func (m *Memory) Get(_ context.Context, productID string) (StateEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[productID]
	if !ok {
		return StateEntry{}, ErrNotFound
	}
	return entry, nil
}

func (m *Memory) Put(_ context.Context, entry StateEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ProductID] = entry
	return nil
}

func (m *Memory) Delete(_ context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, productID)
	return nil
}

// Len reports the number of committed entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }
