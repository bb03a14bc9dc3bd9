package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port        string
	Environment string

	StorageBackend string
	DatabaseURL    string
	SQLitePath     string

	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnLifetime time.Duration

	LogLevel string
	LogJSON  bool
}

// LoadFromEnv reads the configuration. Unset variables take defaults that
// make local runs work without any setup (in-memory storage).
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		Environment:       getenv("APP_ENV", "development"),
		StorageBackend:    getenv("STORAGE_BACKEND", BackendMemory),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SQLitePath:        getenv("SQLITE_PATH", "file:persons.db"),
		DBMaxConns:        10,
		DBMinConns:        0,
		DBMaxConnLifetime: time.Hour,
		LogLevel:          getenv("LOG_LEVEL", "info"),
	}

	switch f := getenv("LOG_FORMAT", ""); f {
	case "json":
		cfg.LogJSON = true
	case "console":
		cfg.LogJSON = false
	case "":
		cfg.LogJSON = cfg.Environment == "production"
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or console, got %q", f)
	}

	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("DB_MAX_CONNS must be an integer: %w", err)
		}
		cfg.DBMaxConns = int32(n)
	}
	if v := os.Getenv("DB_MIN_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("DB_MIN_CONNS must be an integer: %w", err)
		}
		cfg.DBMinConns = int32(n)
	}
	if v := os.Getenv("DB_MAX_CONN_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("DB_MAX_CONN_LIFETIME must be a duration (e.g. 1h): %w", err)
		}
		cfg.DBMaxConnLifetime = d
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	if cfg.DBMaxConns < cfg.DBMinConns {
		return Config{}, fmt.Errorf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", cfg.DBMaxConns, cfg.DBMinConns)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
