// Package storetest holds the behavior every types.Store backend must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Factory returns a fresh detached store and the config to attach it with.
type Factory func(t *testing.T) (types.Store, types.Config)

// Run exercises the Store contract against the backend built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("attach twice", func(t *testing.T) {
		s, cfg := newStore(t)
		require.NoError(t, s.Attach(cfg))
		t.Cleanup(func() { s.Detach() })
		assert.ErrorIs(t, s.Attach(cfg), types.ErrAlreadyAttached)
	})

	t.Run("detach is idempotent", func(t *testing.T) {
		s, cfg := newStore(t)
		require.NoError(t, s.Attach(cfg))
		require.NoError(t, s.Detach())
		require.NoError(t, s.Detach())

		_, err := s.Get(types.KeyParts)
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		assert.ErrorIs(t, s.Set(types.KeyParts, []byte("[]")), types.ErrStoreDetached)
		_, err = s.Keys()
		assert.ErrorIs(t, err, types.ErrStoreDetached)
	})

	t.Run("get missing key", func(t *testing.T) {
		s := attached(t, newStore)
		_, err := s.Get(types.KeyTodos)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		s := attached(t, newStore)
		require.NoError(t, s.Set(types.KeyParts, []byte(`[{"id":"a"}]`)))
		got, err := s.Get(types.KeyParts)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"a"}]`, string(got))

		require.NoError(t, s.Set(types.KeyParts, []byte(`[]`)))
		got, err = s.Get(types.KeyParts)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(got))
	})

	t.Run("set batch and keys", func(t *testing.T) {
		s := attached(t, newStore)
		keys, err := s.Keys()
		require.NoError(t, err)
		assert.Empty(t, keys)

		require.NoError(t, s.SetBatch(map[string][]byte{
			types.KeyTodos:    []byte(`[]`),
			types.KeyParts:    []byte(`[]`),
			types.KeySettings: []byte(`{}`),
		}))
		keys, err = s.Keys()
		require.NoError(t, err)
		assert.Equal(t, []string{types.KeyParts, types.KeySettings, types.KeyTodos}, keys)
	})

	t.Run("invalid key", func(t *testing.T) {
		s := attached(t, newStore)
		err := s.Set("  ", []byte(`[]`))
		assert.True(t, errors.Is(err, types.ErrInvalidKey), "got %v", err)
		_, err = s.Get("")
		assert.ErrorIs(t, err, types.ErrInvalidKey)
	})

	t.Run("batch with invalid key writes nothing", func(t *testing.T) {
		s := attached(t, newStore)
		err := s.SetBatch(map[string][]byte{
			types.KeyParts: []byte(`[]`),
			"":             []byte(`[]`),
		})
		require.ErrorIs(t, err, types.ErrInvalidKey)
		keys, err := s.Keys()
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("invalid config", func(t *testing.T) {
		s, cfg := newStore(t)
		cfg.Backend = ""
		assert.ErrorIs(t, s.Attach(cfg), types.ErrBackendEmpty)
	})
}

func attached(t *testing.T, newStore Factory) types.Store {
	t.Helper()
	s, cfg := newStore(t)
	require.NoError(t, s.Attach(cfg))
	t.Cleanup(func() { s.Detach() })
	return s
}
