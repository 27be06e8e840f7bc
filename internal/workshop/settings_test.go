package workshop

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

func TestSettings_UpdateAndPersist(t *testing.T) {
	w, store := setupWorkshop(t)
	assert.Equal(t, types.DefaultSettings(), w.Settings())

	got, err := w.UpdateSettings(types.SettingsPatch{
		CurrencyFormat:   types.Ptr("EUR"),
		EnableAutoBackup: types.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.CurrencyFormat)
	assert.Equal(t, types.ThemeDark, got.Theme, "absent fields are untouched")

	raw, err := store.Get(types.KeySettings)
	require.NoError(t, err)
	var persisted types.Settings
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, got, persisted)

	again, err := New(store.Backend, WithoutSeed())
	require.NoError(t, err)
	assert.Equal(t, got, again.Settings())
}

func TestSettings_Validation(t *testing.T) {
	tests := []struct {
		name    string
		patch   types.SettingsPatch
		wantErr error
	}{
		{"unknown theme", types.SettingsPatch{Theme: types.Ptr("neon")}, types.ErrInvalidTheme},
		{"negative threshold", types.SettingsPatch{LowStockThreshold: types.Ptr(-1)}, types.ErrInvalidSettings},
		{"unknown currency", types.SettingsPatch{CurrencyFormat: types.Ptr("JPY")}, types.ErrInvalidSettings},
		{"unknown frequency", types.SettingsPatch{AutoBackupFrequency: types.Ptr("3")}, types.ErrInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := setupWorkshop(t)
			got, err := w.UpdateSettings(tt.patch)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, types.DefaultSettings(), got)
			assert.Equal(t, types.DefaultSettings(), w.Settings())
		})
	}
}

func TestSettings_Theme(t *testing.T) {
	w, store := setupWorkshop(t)
	require.NoError(t, w.SetTheme(types.ThemeLight))
	assert.Equal(t, "#ffffff", w.ThemeColor())

	assert.ErrorIs(t, w.SetTheme("sepia"), types.ErrInvalidTheme)
	assert.Equal(t, types.ThemeLight, w.Settings().Theme)

	store.failWrites = true
	err := w.SetTheme(types.ThemeMatrix)
	assert.ErrorIs(t, err, types.ErrSinkFailure)
	assert.Equal(t, types.ThemeLight, w.Settings().Theme)
}
