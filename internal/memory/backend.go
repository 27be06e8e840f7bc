// Package memory implements an in-process key-value backend. Nothing
// survives Detach; it serves tests and throwaway sessions.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on a map.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	data     map[string][]byte
}

// NewBackend creates a detached memory backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes an empty map. DataDir is ignored.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	b.data = make(map[string][]byte)
	b.attached = true
	return nil
}

// Detach drops all data. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = nil
	b.attached = false
	return nil
}

// Get returns a copy of the value under key.
func (b *Backend) Get(key string) ([]byte, error) {
	if strings.TrimSpace(key) == "" {
		return nil, types.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	v, ok := b.data[key]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", key, types.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (b *Backend) Set(key string, value []byte) error {
	return b.SetBatch(map[string][]byte{key: value})
}

// SetBatch stores every entry. Keys are checked before anything is written.
func (b *Backend) SetBatch(entries map[string][]byte) error {
	for key := range entries {
		if strings.TrimSpace(key) == "" {
			return types.ErrInvalidKey
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	for key, value := range entries {
		b.data[key] = append([]byte(nil), value...)
	}
	return nil
}

// Keys lists stored keys in ascending order.
func (b *Backend) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
