// Package config loads ledger settings from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/unikonkon/ceasflow/internal/common"
)

// Config holds the ledger's runtime settings.
type Config struct {
	DatabasePath   string
	TimeZone       string
	Currency       string
	CurrencySymbol string
	ExportDir      string
	LogLevel       string
	LogFormat      string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DatabasePath:   "$HOME/.local/share/ceasflow/ceasflow.db",
		TimeZone:       "Asia/Bangkok",
		Currency:       "THB",
		CurrencySymbol: "฿",
		ExportDir:      ".",
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// Load reads the configuration from viper, falling back to defaults for
// anything unset. Paths are expanded.
func Load() (Config, error) {
	cfg := DefaultConfig()

	if v := viper.GetString("database.path"); v != "" {
		cfg.DatabasePath = v
	}
	if v := viper.GetString("locale.timezone"); v != "" {
		cfg.TimeZone = v
	}
	if v := viper.GetString("locale.currency"); v != "" {
		cfg.Currency = v
	}
	if v := viper.GetString("locale.currency_symbol"); v != "" {
		cfg.CurrencySymbol = v
	}
	if v := viper.GetString("export.dir"); v != "" {
		cfg.ExportDir = v
	}
	if v := viper.GetString("logging.level"); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString("logging.format"); v != "" {
		cfg.LogFormat = v
	}

	cfg.DatabasePath = ExpandPath(cfg.DatabasePath)
	cfg.ExportDir = ExpandPath(cfg.ExportDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if c.Currency == "" {
		return fmt.Errorf("%w: locale.currency", common.ErrMissingConfig)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("%w: locale.timezone %q: %w", common.ErrInvalidConfig, c.TimeZone, err)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Location returns the configured time zone. Validate guarantees it loads.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
