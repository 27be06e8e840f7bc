package types

// Application themes.
const (
	ThemeDark        = "dark"
	ThemeLight       = "light"
	ThemeSystem      = "system"
	ThemeMidnight    = "midnight"
	ThemeCyberpunk   = "cyberpunk"
	ThemeMatrix      = "matrix"
	ThemeBlackOrange = "blackOrange"
)

// themeColors maps each theme to its browser meta theme-color.
// ThemeSystem has no fixed color and falls back to the dark color.
var themeColors = map[string]string{
	ThemeLight:       "#ffffff",
	ThemeDark:        "#131419",
	ThemeMidnight:    "#0f172a",
	ThemeCyberpunk:   "#18181b",
	ThemeMatrix:      "#0c0c0c",
	ThemeBlackOrange: "#000000",
}

const defaultThemeColor = "#131419"

// IsValidTheme reports whether theme is a recognized theme name.
func IsValidTheme(theme string) bool {
	if theme == ThemeSystem {
		return true
	}
	_, ok := themeColors[theme]
	return ok
}

// ThemeColor returns the meta theme-color for theme.
func ThemeColor(theme string) string {
	if c, ok := themeColors[theme]; ok {
		return c
	}
	return defaultThemeColor
}

var validCurrencies = map[string]bool{"USD": true, "EUR": true, "GBP": true, "CAD": true, "AUD": true}

var validBackupFrequencies = map[string]bool{"1": true, "7": true, "14": true, "30": true}

// Settings is the process-wide configuration included in every backup.
type Settings struct {
	Theme               string `json:"theme"`
	LowStockThreshold   int    `json:"lowStockThreshold"`
	DefaultCategory     string `json:"defaultCategory"`
	CurrencyFormat      string `json:"currencyFormat"`
	EnableAutoBackup    bool   `json:"enableAutoBackup"`
	AutoBackupFrequency string `json:"autoBackupFrequency"` // Days between automatic backups.
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{
		Theme:               ThemeDark,
		LowStockThreshold:   3,
		DefaultCategory:     "Uncategorized",
		CurrencyFormat:      "USD",
		EnableAutoBackup:    true,
		AutoBackupFrequency: "7",
	}
}

// Validate checks every settings field against its allowed values.
func (s *Settings) Validate() error {
	if !IsValidTheme(s.Theme) {
		return ErrInvalidTheme
	}
	if s.LowStockThreshold < 0 {
		return ErrInvalidSettings
	}
	if !validCurrencies[s.CurrencyFormat] {
		return ErrInvalidSettings
	}
	if !validBackupFrequencies[s.AutoBackupFrequency] {
		return ErrInvalidSettings
	}
	return nil
}

// SettingsPatch carries a partial Settings update.
type SettingsPatch struct {
	Theme               *string
	LowStockThreshold   *int
	DefaultCategory     *string
	CurrencyFormat      *string
	EnableAutoBackup    *bool
	AutoBackupFrequency *string
}

// Apply merges the patch into s.
func (sp SettingsPatch) Apply(s *Settings) {
	setIf(&s.Theme, sp.Theme)
	setIf(&s.LowStockThreshold, sp.LowStockThreshold)
	setIf(&s.DefaultCategory, sp.DefaultCategory)
	setIf(&s.CurrencyFormat, sp.CurrencyFormat)
	setIf(&s.EnableAutoBackup, sp.EnableAutoBackup)
	setIf(&s.AutoBackupFrequency, sp.AutoBackupFrequency)
}
