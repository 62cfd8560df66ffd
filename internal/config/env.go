package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file configuration.
const (
	EnvDBPath        = "PANTRY_DB_PATH"
	EnvLogLevel      = "PANTRY_LOG_LEVEL"
	EnvLockBackend   = "PANTRY_LOCK_BACKEND"
	EnvRedisAddr     = "PANTRY_REDIS_ADDR"
	EnvRedisPassword = "PANTRY_REDIS_PASSWORD"
	EnvRedisDB       = "PANTRY_REDIS_DB"
	EnvMetricsAddr   = "PANTRY_METRICS_ADDR"
	EnvKitchenID     = "PANTRY_KITCHEN_ID"
	EnvUserID        = "PANTRY_USER_ID"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays PANTRY_* environment variables onto cfg and revalidates it.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v := os.Getenv(EnvLockBackend); v != "" {
		cfg.Locking.Backend = LockBackend(v)
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Locking.RedisAddr = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		cfg.Locking.RedisPassword = v
	}
	if v := os.Getenv(EnvRedisDB); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvRedisDB, err)
		}
		cfg.Locking.RedisDB = n
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv(EnvKitchenID); v != "" {
		cfg.Kitchen.DefaultKitchenID = v
	}
	if v := os.Getenv(EnvUserID); v != "" {
		cfg.Kitchen.DefaultUserID = v
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating environment overrides: %w", err)
	}
	return nil
}
