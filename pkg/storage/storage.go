// Package storage exposes the partsbin store backends to callers outside
// this module.
package storage

import (
	"fmt"

	"github.com/mesh-intelligence/partsbin/internal/diskv"
	"github.com/mesh-intelligence/partsbin/internal/memory"
	"github.com/mesh-intelligence/partsbin/internal/sqlite"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// NewBackend returns a detached Store for the named backend.
// Returns ErrBackendUnknown for names Config.Validate would reject.
func NewBackend(name string) (types.Store, error) {
	switch name {
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendDiskv:
		return diskv.NewBackend(), nil
	case types.BackendMemory:
		return memory.NewBackend(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrBackendUnknown, name)
	}
}

// Open creates the backend named in config and attaches it.
func Open(config types.Config) (types.Store, error) {
	s, err := NewBackend(config.Backend)
	if err != nil {
		return nil, err
	}
	if err := s.Attach(config); err != nil {
		return nil, fmt.Errorf("attaching %s backend: %w", config.Backend, err)
	}
	return s, nil
}
