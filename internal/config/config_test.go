package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// clearEnv blanks the overrides so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "REDIS_URL", "CACHE_TTL", "BATCH_WORKERS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.CacheTTL != 30*time.Second || cfg.BatchWorkers != 8 ||
		cfg.RequestTimeout != 30*time.Second || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
port: "9090"
database_url: postgres://settle@localhost/settle
cache_ttl: 1m
batch_workers: 4
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.CacheTTL != time.Minute || cfg.BatchWorkers != 4 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.DatabaseURL != "postgres://settle@localhost/settle" {
		t.Errorf("unexpected database url %q", cfg.DatabaseURL)
	}
	// Unset keys keep their defaults.
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected default request timeout, got %s", cfg.RequestTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "port: \"9090\"\nbatch_workers: 4\n")
	t.Setenv("PORT", "7070")
	t.Setenv("BATCH_WORKERS", "16")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7070" || cfg.BatchWorkers != 16 || cfg.CacheTTL != 5*time.Second {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected redis url %q", cfg.RedisURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{"bad workers env", "", map[string]string{"BATCH_WORKERS": "many"}},
		{"bad ttl env", "", map[string]string{"CACHE_TTL": "soon"}},
		{"zero workers", "batch_workers: 0\n", nil},
		{"malformed yaml", "port: [\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("%s: expected %v, got %v", in, want, got)
		}
	}
}
