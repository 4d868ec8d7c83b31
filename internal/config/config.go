package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/vocabflash/internal/logger"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	GroupSize            int
	Direction            string
	CatalogPath          string
	CatalogSheet         string
	WorkerCount          int
	QueueSize            int
	MaintenanceInterval  time.Duration
	SessionRetentionDays int
	SnapshotTTL          time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or malformed.
func Load() Config {
	// .env is optional.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:vocabflash.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		GroupSize:            envIntOr("GROUP_SIZE", 5),
		Direction:            envOr("LEARNING_DIRECTION", "primary"),
		CatalogPath:          envOr("CATALOG_PATH", ""),
		CatalogSheet:         envOr("CATALOG_SHEET", ""),
		WorkerCount:          envIntOr("WORKER_COUNT", 2),
		QueueSize:            envIntOr("QUEUE_SIZE", 16),
		MaintenanceInterval:  envDurationOr("MAINTENANCE_INTERVAL", time.Hour),
		SessionRetentionDays: envIntOr("SESSION_RETENTION_DAYS", 30),
		SnapshotTTL:          envDurationOr("SESSION_SNAPSHOT_TTL", 240*time.Hour),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.GroupSize < 1 || c.GroupSize > 50 {
		errs = append(errs, fmt.Errorf("GROUP_SIZE must be between 1 and 50 (got %d)", c.GroupSize))
	}
	if c.Direction != "primary" && c.Direction != "secondary" {
		errs = append(errs, fmt.Errorf("LEARNING_DIRECTION must be primary or secondary (got %q)", c.Direction))
	}
	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); err != nil {
			errs = append(errs, fmt.Errorf("CATALOG_PATH %q is not readable: %w", c.CatalogPath, err))
		}
	}
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be at least 1 (got %d)", c.WorkerCount))
	}
	if c.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("QUEUE_SIZE must be at least 1 (got %d)", c.QueueSize))
	}
	if c.MaintenanceInterval < time.Minute {
		errs = append(errs, fmt.Errorf("MAINTENANCE_INTERVAL must be at least 1m (got %s)", c.MaintenanceInterval))
	}
	if c.SessionRetentionDays < 1 {
		errs = append(errs, fmt.Errorf("SESSION_RETENTION_DAYS must be at least 1 (got %d)", c.SessionRetentionDays))
	}
	if c.SnapshotTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_SNAPSHOT_TTL must be positive (got %s)", c.SnapshotTTL))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
