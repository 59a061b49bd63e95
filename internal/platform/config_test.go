package platform

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./db", config.BaseDir)
	assert.Equal(t, "quotes", config.Table)
	assert.Equal(t, "info", config.LogLevel)
	assert.False(t, config.SkipMalformed)
	assert.False(t, config.ProcessLock)
}

func TestLoadConfig(t *testing.T) {
	t.Run("load saved config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "conf", ConfigFileName)
		expected := &Config{
			BaseDir:       "/srv/tablet",
			Table:         "sayings",
			LogLevel:      "debug",
			SkipMalformed: true,
			ProcessLock:   true,
		}

		require.NoError(t, SaveConfig(expected, configPath))

		loaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expected, loaded)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, ConfigFileName)
		require.NoError(t, os.WriteFile(configPath, []byte("process_lock: true\n"), 0644))

		loaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.True(t, loaded.ProcessLock)
		assert.Equal(t, "quotes", loaded.Table)
		assert.Equal(t, filepath.Join(dir, "db"), loaded.BaseDir)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ConfigFileName)
		require.NoError(t, os.WriteFile(configPath, []byte("table: [unclosed\n"), 0644))

		_, err := LoadConfig(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, (&Config{LogLevel: tt.level}).Level())
		})
	}
}
