package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// settingsView adds the derived theme color.
type settingsView struct {
	types.Settings
	ThemeColor string `json:"themeColor"`
}

func (a *app) printSettings(ws *partsbin.Workshop) error {
	s := ws.Settings()
	v := settingsView{Settings: s, ThemeColor: ws.ThemeColor()}
	return a.emit(v, func(w io.Writer) {
		fmt.Fprintf(w, "theme:                 %s (%s)\n", s.Theme, v.ThemeColor)
		fmt.Fprintf(w, "low-stock-threshold:   %d\n", s.LowStockThreshold)
		fmt.Fprintf(w, "default-category:      %s\n", s.DefaultCategory)
		fmt.Fprintf(w, "currency:              %s\n", s.CurrencyFormat)
		fmt.Fprintf(w, "auto-backup:           %t\n", s.EnableAutoBackup)
		fmt.Fprintf(w, "auto-backup-frequency: %s days\n", s.AutoBackupFrequency)
	})
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change application settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(a.printSettings)
		},
	}

	var (
		theme, defaultCategory, currency, frequency string
		threshold                                   int
		autoBackup                                  bool
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings; unset flags are left alone",
		Example: `  partsbin settings set --theme midnight
  partsbin settings set --low-stock-threshold 5 --currency EUR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := types.SettingsPatch{
				Theme:               changed(cmd, "theme", theme),
				LowStockThreshold:   changed(cmd, "low-stock-threshold", threshold),
				DefaultCategory:     changed(cmd, "default-category", defaultCategory),
				CurrencyFormat:      changed(cmd, "currency", currency),
				EnableAutoBackup:    changed(cmd, "auto-backup", autoBackup),
				AutoBackupFrequency: changed(cmd, "auto-backup-frequency", frequency),
			}
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if _, err := ws.UpdateSettings(patch); err != nil {
					return fmt.Errorf("update settings: %w", err)
				}
				return a.printSettings(ws)
			})
		},
	}
	fl := set.Flags()
	fl.StringVar(&theme, "theme", "", "dark, light, system, midnight, cyberpunk, matrix or blackOrange")
	fl.IntVar(&threshold, "low-stock-threshold", 0, "parts at or below this quantity are low stock")
	fl.StringVar(&defaultCategory, "default-category", "", "category used when a part is added without one")
	fl.StringVar(&currency, "currency", "", "USD, EUR, GBP, CAD or AUD")
	fl.BoolVar(&autoBackup, "auto-backup", false, "enable automatic backups")
	fl.StringVar(&frequency, "auto-backup-frequency", "", "days between automatic backups: 1, 7, 14 or 30")

	cmd.AddCommand(show, set)
	return cmd
}
