package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/partsbin/internal/backup"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
)

// Backup targets.
const (
	targetFile = "file"
	targetS3   = "s3"
)

// Config is the content of config.yaml.
type Config struct {
	Backend     string       `mapstructure:"backend" yaml:"backend"`
	DataDir     string       `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	LogLevel    string       `mapstructure:"log_level" yaml:"log_level"`
	MetricsFile string       `mapstructure:"metrics_file" yaml:"metrics_file,omitempty"`
	Seed        bool         `mapstructure:"seed" yaml:"seed"`
	Backup      BackupConfig `mapstructure:"backup" yaml:"backup"`
}

// BackupConfig selects where backup export writes and import reads.
// Target is "file" or "s3". Dir defaults to <data_dir>/backups.
type BackupConfig struct {
	Target string          `mapstructure:"target" yaml:"target"`
	Dir    string          `mapstructure:"dir" yaml:"dir,omitempty"`
	S3     backup.S3Config `mapstructure:"s3" yaml:"s3,omitempty"`
}

// defaultConfig is written to config.yaml on first run.
func defaultConfig() Config {
	return Config{
		Backend:  types.BackendSQLite,
		LogLevel: "warn",
		Seed:     true,
		Backup:   BackupConfig{Target: targetFile},
	}
}

// loadConfig reads config.yaml from configDir, creating the directory and
// a default file on first run. PARTSBIN_BACKEND and PARTSBIN_LOG_LEVEL
// override the file.
func loadConfig(configDir string) (Config, error) {
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	def := defaultConfig()
	v := viper.New()
	v.SetDefault("backend", def.Backend)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("backup.target", def.Backup.Target)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	_ = v.BindEnv("backend", "PARTSBIN_BACKEND")
	_ = v.BindEnv("log_level", "PARTSBIN_LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Backup.Target != targetFile && cfg.Backup.Target != targetS3 {
		return Config{}, fmt.Errorf("config: backup.target must be %q or %q, got %q", targetFile, targetS3, cfg.Backup.Target)
	}
	return cfg, nil
}

// ensureDefaultConfigFile writes the default config.yaml if configDir has
// none. An existing file is left alone.
func ensureDefaultConfigFile(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	def := defaultConfig()
	data, err := yaml.Marshal(&def)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# partsbin configuration\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
