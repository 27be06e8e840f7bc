// Tests for the SQLite key-value backend.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/partsbin/internal/storetest"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

func TestBackend_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (types.Store, types.Config) {
		return NewBackend(), types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	})
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: filepath.Join(tmpDir, "nested"),
	}

	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	// Verify database file created
	dbPath := filepath.Join(tmpDir, "nested", "partsbin.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("partsbin.db not created")
	}
}

func TestBackend_PersistsAcrossAttach(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	require.NoError(t, b.SetBatch(map[string][]byte{
		types.KeyParts:      []byte(`[{"id":"p1"}]`),
		types.KeyCategories: []byte(`[]`),
	}))
	require.NoError(t, b.Detach())

	reopened := NewBackend()
	require.NoError(t, reopened.Attach(config))
	defer reopened.Detach()

	got, err := reopened.Get(types.KeyParts)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(got))

	keys, err := reopened.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{types.KeyCategories, types.KeyParts}, keys)
}
