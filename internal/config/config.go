// Package config provides configuration management for PantryMind.
// Configurations are loaded from TOML files with XDG-compliant paths.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Kitchen  KitchenConfig  `toml:"kitchen"`
	Engine   EngineConfig   `toml:"engine"`
	Locking  LockingConfig  `toml:"locking"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Display  DisplayConfig  `toml:"display"`
	Logging  LoggingConfig  `toml:"logging"`
	Database DatabaseConfig `toml:"database"`
}

// KitchenConfig identifies the default kitchen and user for CLI commands.
type KitchenConfig struct {
	DefaultKitchenID string `toml:"default_kitchen_id"`
	DefaultUserID    string `toml:"default_user_id"`
	Timezone         string `toml:"timezone"`
}

// EngineConfig controls the consumption engine.
type EngineConfig struct {
	MaxCommitRetries int    `toml:"max_commit_retries"`
	LockTimeout      string `toml:"lock_timeout"`
	FlagUnknownUnits bool   `toml:"flag_unknown_units"`
}

// LockingConfig selects the per-item lock backend.
type LockingConfig struct {
	Backend       LockBackend `toml:"backend"`
	RedisAddr     string      `toml:"redis_addr"`
	RedisPassword string      `toml:"redis_password"`
	RedisDB       int         `toml:"redis_db"`
	KeyPrefix     string      `toml:"key_prefix"`
	TTL           string      `toml:"ttl"`
	RetryInterval string      `toml:"retry_interval"`
}

// LockBackend names an item lock implementation.
type LockBackend string

const (
	LockBackendLocal LockBackend = "local"
	LockBackendRedis LockBackend = "redis"
)

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
	Namespace  string `toml:"namespace"`
}

// DisplayConfig controls TUI appearance.
type DisplayConfig struct {
	ColorScheme    ColorScheme `toml:"color_scheme"`
	DateFormat     string      `toml:"date_format"`
	TimeFormat     string      `toml:"time_format"`
	ExpiryWarnDays int         `toml:"expiry_warn_days"`
}

// ColorScheme defines the terminal color palette.
type ColorScheme string

const (
	ColorSchemeHerb   ColorScheme = "herb"
	ColorSchemeTomato ColorScheme = "tomato"
	ColorSchemePlain  ColorScheme = "plain"
)

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level LogLevel `toml:"level"`
	File  string   `toml:"file"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// DatabaseConfig controls SQLite database settings.
type DatabaseConfig struct {
	Path                string `toml:"path"`
	BackupIntervalHours int    `toml:"backup_interval_hours"`
	BackupRetentionDays int    `toml:"backup_retention_days"`
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Kitchen.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("kitchen: %w", err))
	}

	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}

	if err := c.Locking.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("locking: %w", err))
	}

	if err := c.Metrics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}

	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the kitchen configuration is valid.
func (k *KitchenConfig) Validate() error {
	if k.Timezone == "" {
		return nil
	}
	if _, err := time.LoadLocation(k.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", k.Timezone, err)
	}
	return nil
}

// Validate checks that the engine configuration is valid.
func (e *EngineConfig) Validate() error {
	var errs []error

	if e.MaxCommitRetries < 0 {
		errs = append(errs, errors.New("max_commit_retries must be non-negative"))
	}

	if err := validateDuration("lock_timeout", e.LockTimeout); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the locking configuration is valid.
func (l *LockingConfig) Validate() error {
	var errs []error

	switch l.Backend {
	case LockBackendLocal, "":
	case LockBackendRedis:
		if l.RedisAddr == "" {
			errs = append(errs, errors.New("redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid backend: %s", l.Backend))
	}

	if l.RedisDB < 0 {
		errs = append(errs, errors.New("redis_db must be non-negative"))
	}

	if err := validateDuration("ttl", l.TTL); err != nil {
		errs = append(errs, err)
	}

	if err := validateDuration("retry_interval", l.RetryInterval); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the metrics configuration is valid.
func (m *MetricsConfig) Validate() error {
	if m.Enabled && m.ListenAddr == "" {
		return errors.New("listen_addr is required when metrics are enabled")
	}
	return nil
}

// Validate checks that the display configuration is valid.
func (d *DisplayConfig) Validate() error {
	var errs []error

	validSchemes := map[ColorScheme]bool{
		ColorSchemeHerb:   true,
		ColorSchemeTomato: true,
		ColorSchemePlain:  true,
	}

	if !validSchemes[d.ColorScheme] && d.ColorScheme != "" {
		errs = append(errs, fmt.Errorf("invalid color_scheme: %s", d.ColorScheme))
	}

	if d.ExpiryWarnDays < 0 {
		errs = append(errs, errors.New("expiry_warn_days must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}

	if !validLevels[l.Level] && l.Level != "" {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	return nil
}

// Validate checks that the database configuration is valid.
func (d *DatabaseConfig) Validate() error {
	var errs []error

	if d.Path == "" {
		errs = append(errs, errors.New("path is required"))
	}

	if d.BackupIntervalHours < 0 {
		errs = append(errs, errors.New("backup_interval_hours must be non-negative"))
	}

	if d.BackupRetentionDays < 0 {
		errs = append(errs, errors.New("backup_retention_days must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func validateDuration(field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	if d < 0 {
		return fmt.Errorf("%s must be non-negative", field)
	}
	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Kitchen: KitchenConfig{
			DefaultKitchenID: "",
			DefaultUserID:    "cli",
			Timezone:         "",
		},
		Engine: EngineConfig{
			MaxCommitRetries: 3,
			LockTimeout:      "5s",
			FlagUnknownUnits: true,
		},
		Locking: LockingConfig{
			Backend:       LockBackendLocal,
			RedisAddr:     "localhost:6379",
			KeyPrefix:     "pantry:lock:item:",
			TTL:           "10s",
			RetryInterval: "50ms",
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: ":9464",
			Namespace:  "pantry",
		},
		Display: DisplayConfig{
			ColorScheme:    ColorSchemeHerb,
			DateFormat:     "2006-01-02",
			TimeFormat:     "15:04",
			ExpiryWarnDays: 3,
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			File:  "",
		},
		Database: DatabaseConfig{
			Path:                "pantry.db",
			BackupIntervalHours: 24,
			BackupRetentionDays: 14,
		},
	}
}

// LockTimeoutDuration returns the parsed lock timeout, zero when unset.
func (e *EngineConfig) LockTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(e.LockTimeout)
	return d
}

// TTLDuration returns the parsed redis lock TTL.
func (l *LockingConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(l.TTL)
	return d
}

// RetryIntervalDuration returns the parsed redis lock polling interval.
func (l *LockingConfig) RetryIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(l.RetryInterval)
	return d
}

// Location returns the configured kitchen time zone, falling back to local time.
func (k *KitchenConfig) Location() *time.Location {
	if k.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(k.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
