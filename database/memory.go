package database

import (
	"context"
	"sync"
)

// MemoryStore is a non-durable KV for tests and throwaway runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{data: map[string]map[string][]byte{}}
}

func (m *MemoryStore) Get(_ context.Context, scope, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[scope][key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Put(_ context.Context, scope, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[scope] == nil {
		m.data[scope] = map[string][]byte{}
	}
	m.data[scope][key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[scope], key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
