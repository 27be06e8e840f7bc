package partsbin

import (
	"fmt"

	"github.com/mesh-intelligence/partsbin/internal/workshop"
	"github.com/mesh-intelligence/partsbin/pkg/storage"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Workshop is the application context returned by Open.
type Workshop = workshop.Workshop

// Option configures the workshop built by Open.
type Option = workshop.Option

// Re-exported workshop options.
var (
	WithLogger   = workshop.WithLogger
	WithClock    = workshop.WithClock
	WithRecorder = workshop.WithRecorder
	WithoutSeed  = workshop.WithoutSeed
)

// Open attaches the backend named in config and loads a workshop over it.
// The returned close function detaches the store.
func Open(config types.Config, opts ...Option) (*Workshop, func() error, error) {
	store, err := storage.Open(config)
	if err != nil {
		return nil, nil, err
	}
	w, err := workshop.New(store, opts...)
	if err != nil {
		store.Detach()
		return nil, nil, fmt.Errorf("loading workshop: %w", err)
	}
	return w, store.Detach, nil
}
