// Package config loads atelier settings from an optional TOML file and
// ATELIER_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/overdue"
)

// Config is the top-level configuration stored in ~/.atelier/config.toml.
type Config struct {
	DBPath   string        `toml:"db_path"`
	LogFile  string        `toml:"log_file"`
	LogLevel string        `toml:"log_level"`
	Returns  ReturnsConfig `toml:"returns"`
}

// ReturnsConfig controls the overdue-returns sweep.
type ReturnsConfig struct {
	// HighAfterDays is the number of days overdue at which a promoted task
	// becomes high priority.
	HighAfterDays int `toml:"high_after_days"`
	// UrgentAfterDays escalates further to urgent. Must be >= HighAfterDays.
	UrgentAfterDays int `toml:"urgent_after_days"`
	// TaskCategory is the category given to promoted tasks.
	TaskCategory string `toml:"task_category"`
	// SweepInterval is the default period for `return sweep --every`.
	SweepInterval Duration `toml:"sweep_interval"`
}

// Duration lets TOML carry values like "30m" or "1h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Thresholds returns the sweep escalation thresholds.
func (r ReturnsConfig) Thresholds() overdue.Thresholds {
	return overdue.Thresholds{HighAfterDays: r.HighAfterDays, UrgentAfterDays: r.UrgentAfterDays}
}

// Default returns a Config with sensible defaults. The DB lives under
// ~/.atelier unless home cannot be determined.
func Default() Config {
	th := overdue.DefaultThresholds()
	return Config{
		DBPath:   filepath.Join(homeDir(), ".atelier", "atelier.db"),
		LogLevel: "info",
		Returns: ReturnsConfig{
			HighAfterDays:   th.HighAfterDays,
			UrgentAfterDays: th.UrgentAfterDays,
			TaskCategory:    string(domain.CategoryOrdering),
			SweepInterval:   Duration{time.Hour},
		},
	}
}

// DefaultPath returns the config file location: ATELIER_CONFIG if set,
// otherwise ~/.atelier/config.toml.
func DefaultPath() string {
	if v := os.Getenv("ATELIER_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(homeDir(), ".atelier", "config.toml")
}

// Load reads the TOML file at path (a missing file is fine), applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("ATELIER_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ATELIER_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("ATELIER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if err := envInt("ATELIER_RETURNS_HIGH_AFTER_DAYS", &cfg.Returns.HighAfterDays); err != nil {
		return err
	}
	if err := envInt("ATELIER_RETURNS_URGENT_AFTER_DAYS", &cfg.Returns.UrgentAfterDays); err != nil {
		return err
	}
	if v := os.Getenv("ATELIER_RETURNS_TASK_CATEGORY"); v != "" {
		cfg.Returns.TaskCategory = v
	}
	if v := os.Getenv("ATELIER_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ATELIER_SWEEP_INTERVAL: %w", err)
		}
		cfg.Returns.SweepInterval = Duration{d}
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level %q must be one of debug, info, warn, warning, error", c.LogLevel)
	}
	r := c.Returns
	if r.HighAfterDays <= 0 || r.UrgentAfterDays <= 0 {
		return fmt.Errorf("returns thresholds must be positive (high=%d, urgent=%d)", r.HighAfterDays, r.UrgentAfterDays)
	}
	if r.UrgentAfterDays < r.HighAfterDays {
		return fmt.Errorf("returns.urgent_after_days (%d) must be >= returns.high_after_days (%d)", r.UrgentAfterDays, r.HighAfterDays)
	}
	if _, err := domain.ParseTaskCategory(r.TaskCategory); err != nil {
		return fmt.Errorf("returns.task_category: %w", err)
	}
	if r.SweepInterval.Duration <= 0 {
		return fmt.Errorf("returns.sweep_interval must be positive")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
