// Package paths resolves the configuration and data directories. Every
// override may start with "~", which expands to the user's home directory.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	homedir "github.com/mitchellh/go-homedir"
)

// AppDirName is the directory name used under platform config and data roots.
const AppDirName = "partsbin"

// CWD-relative data directory used when nothing else is configured.
const DefaultDataDirName = ".partsbin-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PARTSBIN_CONFIG_DIR"
	EnvDataDir   = "PARTSBIN_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       homedir.Dir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/partsbin (fallback ~/.config/partsbin)
// macOS:   ~/Library/Application Support/partsbin
// Windows: %APPDATA%/partsbin
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDirName), nil
}

// ResolveConfigDir applies flag > PARTSBIN_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return absolute(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return absolute(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config.yaml data_dir > PARTSBIN_DATA_DIR >
// $(CWD)/.partsbin-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return absolute(v)
		}
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveBackupDir returns configValue expanded and made absolute, or
// dataDir/backups when configValue is empty.
func ResolveBackupDir(configValue, dataDir string) (string, error) {
	if configValue != "" {
		return absolute(configValue)
	}
	return filepath.Join(dataDir, "backups"), nil
}

func absolute(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
