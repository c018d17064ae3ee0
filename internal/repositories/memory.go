package repositories

import (
	"context"
	"slices"
	"sync"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
)

// MemoryStore keeps values in a process-local map.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, shared.ErrStorageClosed
	}
	value, ok := m.data[key]
	if !ok {
		return nil, shared.ErrCacheMiss
	}
	return slices.Clone(value), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return shared.ErrStorageClosed
	}
	m.data[key] = slices.Clone(value)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return shared.ErrStorageClosed
	}
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close drops all values; later calls fail with [shared.ErrStorageClosed].
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}
