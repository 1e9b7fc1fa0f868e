package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes keys for the duration of the test; t.Setenv restores them
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LLMLOG_HOME", home)
	unsetEnv(t, "LLMLOG_DB", "LLMLOG_LOG_LEVEL", "LLMLOG_PERCENTILE")

	cfg, err := Load(filepath.Join(home, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "llmlog.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(home, "app.log"), cfg.LogPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DefaultPercentile, cfg.Percentile)
	assert.True(t, cfg.Settings.KeepRawLine)
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LLMLOG_HOME", home)
	t.Setenv("LLMLOG_PERCENTILE", "p95")
	unsetEnv(t, "LLMLOG_DB", "LLMLOG_LOG_LEVEL")

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LLMLOG_DB=/tmp/custom.db\nLLMLOG_LOG_LEVEL=debug\nLLMLOG_PERCENTILE=0.5\n"), 0644))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	// Set in the environment before the file was read
	assert.InDelta(t, 0.95, cfg.Percentile, 1e-9)
}

func TestLoad_BadSettingsFallBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LLMLOG_HOME", home)
	unsetEnv(t, "LLMLOG_DB", "LLMLOG_PERCENTILE")
	t.Setenv("LLMLOG_LOG_LEVEL", "loud")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.json"), []byte("{not json"), 0644))

	cfg, err := Load(filepath.Join(home, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), cfg.Settings)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Len(t, cfg.Warnings, 2)
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := Settings{KeepRawLine: false, Percentile: 0.75, LastImportDir: "/data/logs"}

	require.NoError(t, SaveSettings(path, want))
	got, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSettings_PercentileBounds(t *testing.T) {
	dir := t.TempDir()
	for raw, want := range map[string]float64{"0": 0, "1": 1, "1.5": 1, "-0.2": 0, "0.5": 0.5} {
		path := filepath.Join(dir, "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"percentile":`+raw+`}`), 0644))

		settings, err := LoadSettings(path)
		require.NoError(t, err, raw)
		assert.InDelta(t, want, settings.Percentile, 1e-9, raw)
	}
}

func TestParsePercentile(t *testing.T) {
	for input, want := range map[string]float64{
		"0.9": 0.9, "90": 0.9, "p99": 0.99, "50%": 0.5, "1": 1, "0": 0, "p1": 0.01, "1%": 0.01, "P100": 1,
	} {
		got, err := ParsePercentile(input)
		require.NoError(t, err, input)
		assert.InDelta(t, want, got, 1e-9, input)
	}

	for _, input := range []string{"", "fast", "-5", "250", "p150", "NaN"} {
		_, err := ParsePercentile(input)
		assert.Error(t, err, input)
	}
}
