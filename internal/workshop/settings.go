package workshop

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Settings returns the current settings.
func (w *Workshop) Settings() types.Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// UpdateSettings merges patch into the settings, validates and persists the
// result. A threshold change recomputes the parts view.
func (w *Workshop) UpdateSettings(patch types.SettingsPatch) (types.Settings, error) {
	var out types.Settings
	err := w.do(types.KeySettings, "update", func() error {
		next := w.settings
		patch.Apply(&next)
		if err := next.Validate(); err != nil {
			return err
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		if err := w.store.Set(types.KeySettings, raw); err != nil {
			w.log.Warn("settings write failed", "error", err)
			return fmt.Errorf("%w: writing %s: %v", types.ErrSinkFailure, types.KeySettings, err)
		}
		thresholdChanged := next.LowStockThreshold != w.settings.LowStockThreshold
		w.settings = next
		if thresholdChanged {
			w.parts.Refresh()
		}
		out = next
		return nil
	})
	if err != nil {
		return w.Settings(), err
	}
	return out, nil
}

// SetTheme switches the theme.
func (w *Workshop) SetTheme(theme string) error {
	_, err := w.UpdateSettings(types.SettingsPatch{Theme: &theme})
	return err
}

// ThemeColor returns the meta color of the current theme.
func (w *Workshop) ThemeColor() string {
	return types.ThemeColor(w.Settings().Theme)
}
