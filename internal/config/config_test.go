package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	path := writeConfig(t, "port: \"8080\"\ndatabaseURL: \"file:test.db\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DatabaseURL != "file:test.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.LoginRateLimit != 10 || cfg.LoginRateWindowSeconds != 60 {
		t.Fatalf("rate limit defaults = %d/%d", cfg.LoginRateLimit, cfg.LoginRateWindowSeconds)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "port: \"8080\"\ndatabaseURL: \"file:test.db\"\nredisAddr: \"localhost:6379\"\n")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "host=db user=app dbname=records")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("LOGIN_RATE_LIMIT", "5")
	t.Setenv("LOGIN_RATE_WINDOW_SECONDS", "30")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.DatabaseURL != "host=db user=app dbname=records" {
		t.Fatalf("databaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.RedisAddr != "redis:6380" {
		t.Fatalf("redisAddr = %q", cfg.RedisAddr)
	}
	if cfg.LoginRateLimit != 5 || cfg.LoginRateWindowSeconds != 30 {
		t.Fatalf("rate limit = %d/%d", cfg.LoginRateLimit, cfg.LoginRateWindowSeconds)
	}
}

func TestLoadMissingRequiredFields(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	path := writeConfig(t, "port: \"8080\"\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "databaseURL") {
		t.Fatalf("expected databaseURL error, got %v", err)
	}

	path = writeConfig(t, "databaseURL: \"file:test.db\"\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "port") {
		t.Fatalf("expected port error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
