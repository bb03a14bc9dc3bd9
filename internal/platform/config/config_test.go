package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "APP_ENV", "STORAGE_BACKEND", "DATABASE_URL", "SQLITE_PATH",
		"DB_MAX_CONNS", "DB_MIN_CONNS", "DB_MAX_CONN_LIFETIME", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() err=%v", err)
	}
	if cfg.Port != "8080" || cfg.StorageBackend != BackendMemory || cfg.LogLevel != "info" || cfg.LogJSON {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMaxConnLifetime != time.Hour {
		t.Fatalf("unexpected pool defaults: %+v", cfg)
	}
}

func TestLoadFromEnv_Postgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "postgres")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/persons")
	t.Setenv("DB_MAX_CONNS", "20")
	t.Setenv("DB_MIN_CONNS", "2")
	t.Setenv("DB_MAX_CONN_LIFETIME", "30m")
	t.Setenv("APP_ENV", "production")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() err=%v", err)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 2 || cfg.DBMaxConnLifetime != 30*time.Minute {
		t.Fatalf("unexpected pool config: %+v", cfg)
	}
	if !cfg.LogJSON {
		t.Fatalf("production should default to JSON logs")
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"STORAGE_BACKEND":      "mongo",
		"DB_MAX_CONNS":         "lots",
		"DB_MAX_CONN_LIFETIME": "forever",
		"LOG_FORMAT":           "xml",
	}
	for k, v := range cases {
		clearEnv(t)
		t.Setenv(k, v)
		if _, err := LoadFromEnv(); err == nil {
			t.Fatalf("%s=%q: expected error", k, v)
		}
	}

	clearEnv(t)
	t.Setenv("DB_MAX_CONNS", "1")
	t.Setenv("DB_MIN_CONNS", "5")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatalf("expected error when min > max")
	}
}
