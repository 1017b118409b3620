package storage

import (
	"fmt"
	"sync"
)

// MemoryAdapter keeps documents in a map. Limit > 0 caps each value's size.
type MemoryAdapter struct {
	mu    sync.RWMutex
	data  map[string][]byte
	Limit int
}

// NewMemoryAdapter returns an empty in-memory store
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{data: make(map[string][]byte)}
}

func (m *MemoryAdapter) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryAdapter) Set(key string, value []byte) error {
	if m.Limit > 0 && len(value) > m.Limit {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrQuotaExceeded, len(value), m.Limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryAdapter) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys lists stored keys
func (m *MemoryAdapter) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
