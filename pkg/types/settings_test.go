package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		patch   SettingsPatch
		wantErr error
	}{
		{name: "defaults are valid"},
		{name: "system theme", patch: SettingsPatch{Theme: Ptr(ThemeSystem)}},
		{name: "unknown theme", patch: SettingsPatch{Theme: Ptr("neon")}, wantErr: ErrInvalidTheme},
		{name: "negative threshold", patch: SettingsPatch{LowStockThreshold: Ptr(-1)}, wantErr: ErrInvalidSettings},
		{name: "unknown currency", patch: SettingsPatch{CurrencyFormat: Ptr("JPY")}, wantErr: ErrInvalidSettings},
		{name: "unknown frequency", patch: SettingsPatch{AutoBackupFrequency: Ptr("3")}, wantErr: ErrInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.patch.Apply(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestThemeColor(t *testing.T) {
	assert.Equal(t, "#ffffff", ThemeColor(ThemeLight))
	assert.Equal(t, "#0f172a", ThemeColor(ThemeMidnight))
	assert.Equal(t, "#131419", ThemeColor(ThemeSystem))
	assert.Equal(t, "#131419", ThemeColor("unknown"))
}
