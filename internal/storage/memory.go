package storage

import "sync"

// MemoryBackend implements [Backend] with a map.
//
// Setting FailGet or FailSet makes the corresponding operations return that error,
// which simulates a disabled or full store.
type MemoryBackend struct {
	mu      sync.RWMutex
	data    map[string]string
	FailGet error
	FailSet error
}

// NewMemoryBackend creates an empty [MemoryBackend].
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailGet != nil {
		return "", false, m.FailGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	m.data[key] = value
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
