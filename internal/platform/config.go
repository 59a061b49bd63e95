package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration of a store.
type Config struct {
	BaseDir       string `yaml:"base_dir"`
	Table         string `yaml:"table"`
	LogLevel      string `yaml:"log_level"`
	SkipMalformed bool   `yaml:"skip_malformed"`
	ProcessLock   bool   `yaml:"process_lock"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseDir:  "./db",
		Table:    DefaultTable,
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML configuration file. Keys missing from the file keep
// their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A relative base_dir is relative to the file that declares it.
	if config.BaseDir != "" && !filepath.IsAbs(config.BaseDir) {
		config.BaseDir = filepath.Join(filepath.Dir(configPath), config.BaseDir)
	}

	return config, nil
}

// SaveConfig writes the configuration as YAML, creating parent directories.
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options converts the file settings into functional options.
func (c *Config) Options() []Option {
	return []Option{
		WithTable(c.Table),
		WithSkipMalformed(c.SkipMalformed),
		WithProcessLock(c.ProcessLock),
	}
}
