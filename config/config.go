// Package config loads dishlyst settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds every tunable setting.
type Config struct {
	DBPath           string        `env:"DISHLYST_DB"`
	APIURL           string        `env:"DISHLYST_API_URL,default=https://www.themealdb.com/api/json/v1/1"`
	RandomCount      int           `env:"DISHLYST_RANDOM_COUNT,default=8"`
	MaxFilterResults int           `env:"DISHLYST_MAX_FILTER_RESULTS,default=20"`
	ToastDuration    time.Duration `env:"DISHLYST_TOAST_DURATION,default=3s"`
	ToastMax         int           `env:"DISHLYST_TOAST_MAX,default=5"`
	Debounce         time.Duration `env:"DISHLYST_DEBOUNCE,default=500ms"`
	HTTPTimeout      time.Duration `env:"DISHLYST_HTTP_TIMEOUT,default=0s"`
	LogLevel         string        `env:"LOG_LEVEL,default=info"`
}

// Load reads a .env file from the working directory if one exists, then
// decodes the environment. Variables already set win over the .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv decodes the environment without touching .env files.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if c.RandomCount < 1 {
		return fmt.Errorf("DISHLYST_RANDOM_COUNT must be at least 1, got %d", c.RandomCount)
	}
	if c.MaxFilterResults < 1 {
		return fmt.Errorf("DISHLYST_MAX_FILTER_RESULTS must be at least 1, got %d", c.MaxFilterResults)
	}
	if c.ToastMax < 1 {
		return fmt.Errorf("DISHLYST_TOAST_MAX must be at least 1, got %d", c.ToastMax)
	}
	if c.ToastDuration < 0 || c.Debounce < 0 || c.HTTPTimeout < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
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

// DefaultDBPath is ~/.config/dishlyst/dishlyst.db, or a file in the working
// directory when there is no home directory.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dishlyst.db"
	}
	return filepath.Join(home, ".config", "dishlyst", "dishlyst.db")
}
