// Package config resolves file locations and user settings from the
// environment, optional .env files and the persisted config.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	appDirName       = ".llmlog"
	dbFileName       = "llmlog.db"
	logFileName      = "app.log"
	settingsFileName = "config.json"

	DefaultPercentile = 0.90
)

// Settings are the user preferences persisted to config.json
type Settings struct {
	KeepRawLine   bool    `json:"keep_raw_line"`
	Percentile    float64 `json:"percentile"`
	LastImportDir string  `json:"last_import_dir,omitempty"`
}

// Config is the resolved runtime configuration
type Config struct {
	HomeDir      string
	DBPath       string
	LogPath      string
	SettingsPath string
	LogLevel     slog.Level
	Percentile   float64
	Settings     Settings

	// Warnings collects problems that fell back to defaults. They are
	// reported once logging is up.
	Warnings []string
}

// DefaultSettings are used when config.json is missing or unreadable
func DefaultSettings() Settings {
	return Settings{KeepRawLine: true, Percentile: DefaultPercentile}
}

// Load reads the given .env files (".env" in the working directory when none
// are named), then the environment, then config.json in the app directory.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	cfg := &Config{}
	for _, file := range envFiles {
		if err := loadEnvFile(file); err != nil {
			cfg.warnf("could not load env file %s: %v", file, err)
		}
	}

	home, err := defaultHome()
	if err != nil {
		return nil, err
	}
	cfg.HomeDir = getEnv("LLMLOG_HOME", home)

	// An app-level .env sits next to the database
	if err := loadEnvFile(filepath.Join(cfg.HomeDir, ".env")); err != nil {
		cfg.warnf("could not load env file: %v", err)
	}

	cfg.DBPath = getEnv("LLMLOG_DB", filepath.Join(cfg.HomeDir, dbFileName))
	cfg.LogPath = filepath.Join(cfg.HomeDir, logFileName)
	cfg.SettingsPath = filepath.Join(cfg.HomeDir, settingsFileName)

	cfg.LogLevel = slog.LevelInfo
	if raw := getEnv("LLMLOG_LOG_LEVEL", ""); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			cfg.warnf("invalid LLMLOG_LOG_LEVEL %q, using info", raw)
			cfg.LogLevel = slog.LevelInfo
		}
	}

	settings, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		cfg.warnf("failed to load settings, using defaults: %v", err)
		settings = DefaultSettings()
	}
	cfg.Settings = settings

	cfg.Percentile = settings.Percentile
	if raw := getEnv("LLMLOG_PERCENTILE", ""); raw != "" {
		p, err := ParsePercentile(raw)
		if err != nil {
			cfg.warnf("invalid LLMLOG_PERCENTILE: %v", err)
		} else {
			cfg.Percentile = p
		}
	}

	return cfg, nil
}

// Save writes the current settings to config.json
func (c *Config) Save() error {
	return SaveSettings(c.SettingsPath, c.Settings)
}

// LoadSettings reads config.json; a missing file yields the defaults
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	settings.Percentile = math.Max(0, math.Min(1, settings.Percentile))
	return settings, nil
}

// SaveSettings writes settings as indented JSON, creating the directory
func SaveSettings(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// ParsePercentile accepts a fraction ("0.9") or a percentage ("90", "p90",
// "90%"). A "p" prefix or "%" suffix always means a percentage, so "p1" is P1.
func ParsePercentile(raw string) (float64, error) {
	text := strings.TrimSpace(strings.ToLower(raw))
	percent := strings.HasPrefix(text, "p") || strings.HasSuffix(text, "%")
	text = strings.TrimSuffix(strings.TrimPrefix(text, "p"), "%")

	p, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile %q is not a number", raw)
	}
	if percent || p > 1 {
		p /= 100
	}
	if p < 0 || p > 1 {
		return 0, fmt.Errorf("percentile %q is out of range", raw)
	}
	return p, nil
}

func (c *Config) warnf(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// loadEnvFile loads a dotenv file when it exists
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

func defaultHome() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, appDirName), nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}
