package blob

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"depot/internal/depot"
)

// MemoryStore is an in-memory implementation of the BlobStore interface.
// It stores all content in memory, making it useful for testing.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	name    string
	content map[string][]byte // storage key -> content
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store with the given name.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{
		name:    name,
		content: make(map[string][]byte),
	}
}

// Put stores content under the given storage key and returns the number of bytes stored.
func (m *MemoryStore) Put(key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read content: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.content[key] = data
	return int64(len(data)), nil
}

// Get retrieves content by storage key.
func (m *MemoryStore) Get(key string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.content[key]
	if !ok {
		return fmt.Errorf("blob not found: %s", key)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	return nil
}

// Exists reports whether a blob is stored under the given key.
func (m *MemoryStore) Exists(key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.content[key]
	return ok, nil
}

// Remove deletes the blob stored under the given key.
// Removing a key that does not exist is not an error.
func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.content, key)
	return nil
}

// ValidateSetup always succeeds for in-memory store.
func (m *MemoryStore) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryStore implements depot.BlobStore interface
var _ depot.BlobStore = (*MemoryStore)(nil)
