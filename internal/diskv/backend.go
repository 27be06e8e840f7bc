// Package diskv implements a key-value backend on github.com/peterbourgon/diskv.
// Each store key is one file under DataDir/state.
package diskv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

var _ types.Store = (*Backend)(nil)

const (
	stateDir  = "state"
	tempDir   = "tmp"
	cacheSize = 1024 * 1024 // 1MB
)

// Backend implements types.Store on a diskv instance.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	d        *diskv.Diskv
	basePath string
}

// NewBackend creates a detached diskv backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach creates DataDir/state and opens the diskv store. Writes are staged
// in DataDir/tmp and renamed into place.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	basePath := filepath.Join(dataDir, stateDir)
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	b.d = diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(dataDir, tempDir),
		AdvancedTransform: flatTransform,
		InverseTransform:  flatInverse,
		CacheSizeMax:      cacheSize,
	})
	b.basePath = basePath
	b.attached = true
	return nil
}

// Detach drops the cache and releases the store. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.d = nil
	b.attached = false
	return nil
}

// Get reads the file for key.
func (b *Backend) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	val, err := b.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("key %s: %w", key, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading key %s: %w", key, err)
	}
	return val, nil
}

// Set writes a single key.
func (b *Backend) Set(key string, value []byte) error {
	return b.SetBatch(map[string][]byte{key: value})
}

// SetBatch writes entries in key order. If a write fails, keys already
// written in this batch are put back to their previous values.
func (b *Backend) SetBatch(entries map[string][]byte) error {
	for key := range entries {
		if err := validateKey(key); err != nil {
			return err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	written := make([]priorValue, 0, len(keys))

	for _, key := range keys {
		prev := priorValue{key: key, exists: b.d.Has(key)}
		if prev.exists {
			v, err := b.d.Read(key)
			if err != nil {
				b.rollback(written)
				return fmt.Errorf("reading key %s: %w", key, err)
			}
			prev.value = v
		}
		if err := b.d.Write(key, entries[key]); err != nil {
			b.rollback(written)
			return fmt.Errorf("writing key %s: %w", key, err)
		}
		written = append(written, prev)
	}
	return nil
}

// priorValue records what a key held before a batch wrote it.
type priorValue struct {
	key    string
	value  []byte
	exists bool
}

func (b *Backend) rollback(written []priorValue) {
	for i := len(written) - 1; i >= 0; i-- {
		p := written[i]
		if p.exists {
			_ = b.d.Write(p.key, p.value)
		} else {
			_ = b.d.Erase(p.key)
		}
	}
}

// Keys lists stored keys in ascending order.
func (b *Backend) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keys := []string{}
	for k := range b.d.Keys(ctx.Done()) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Keys are flat file names; path separators and dot-prefixed names are
// rejected.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return types.ErrInvalidKey
	}
	return nil
}

func flatTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{}, FileName: key}
}

func flatInverse(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
