package storage

import (
	"context"
	"sync"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// MemoryBackend is a map-backed Backend used by tests and dry-run
// tooling. Error injection fields let tests exercise backend-failure
// paths without a real storage engine.
type MemoryBackend struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool

	// GetErr, SetErr and RemoveErr are returned verbatim by the
	// corresponding operations when non-nil.
	GetErr    error
	SetErr    error
	RemoveErr error
}

// Compile-time interface check
var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Get returns the value for key and whether it exists.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, walleterr.ErrStoreClosed
	}
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}

	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores value under key.
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return walleterr.ErrStoreClosed
	}
	if m.SetErr != nil {
		return m.SetErr
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// BatchSet stores every entry in one call.
func (m *MemoryBackend) BatchSet(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return walleterr.ErrStoreClosed
	}
	if m.SetErr != nil {
		return m.SetErr
	}

	for key, value := range values {
		stored := make([]byte, len(value))
		copy(stored, value)
		m.data[key] = stored
	}
	return nil
}

// Remove deletes key.
func (m *MemoryBackend) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return walleterr.ErrStoreClosed
	}
	if m.RemoveErr != nil {
		return m.RemoveErr
	}

	delete(m.data, key)
	return nil
}

// Close marks the backend closed. Subsequent operations fail.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Has reports whether key currently exists in the backend. Used by
// tests to verify eviction without going through the store layer.
func (m *MemoryBackend) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}
