package storage

import (
	"sync"
)

// MemoryBackend is an in-memory Backend with the same quota semantics
// as the sqlite backend. It backs tests and the --ephemeral CLI mode.
type MemoryBackend struct {
	mu     sync.Mutex
	data   map[string][]byte
	quota  int64 // 0 = unlimited
	closed bool
}

// NewMemoryBackend creates a memory backend with the given byte budget.
// A zero quota disables the limit.
func NewMemoryBackend(quota int64) *MemoryBackend {
	return &MemoryBackend{
		data:  make(map[string][]byte),
		quota: quota,
	}
}

// Get returns the value for key.
func (m *MemoryBackend) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores value under key, enforcing the byte budget across all keys.
func (m *MemoryBackend) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		used := int64(0)
		for k, v := range m.data {
			if k == key {
				continue
			}
			used += int64(len(v))
		}
		if used+int64(len(value)) > m.quota {
			return ErrQuotaExceeded
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Remove deletes key.
func (m *MemoryBackend) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys lists all stored keys.
func (m *MemoryBackend) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// Close marks the backend closed.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// UsedBytes reports the total payload size currently stored.
func (m *MemoryBackend) UsedBytes() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	used := int64(0)
	for _, v := range m.data {
		used += int64(len(v))
	}
	return used
}
