package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("ADDR", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("HISTORY_DRIVER", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.Session.Backend != "memory" || cfg.Session.TTL.Std() != 30*time.Minute {
		t.Fatalf("session defaults = %+v", cfg.Session)
	}
	if cfg.History.Driver != "sqlite" {
		t.Fatalf("history driver = %q", cfg.History.Driver)
	}
	if cfg.Provider.Model != "gemini-2.5-flash" {
		t.Fatalf("provider model = %q", cfg.Provider.Model)
	}
}

func TestLoadMissingAPIKeyFails(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error without GOOGLE_API_KEY")
	}
}

func TestLoadYAMLFileAndEnvOverride(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("ADDR", ":9999")

	path := writeConfigFile(t, `
addr: ":8081"
log_mode: prod
provider:
  model: test-model
  timeout: 10s
session:
  backend: redis
  redis_addr: 127.0.0.1:6379
  ttl: 5m
history:
  driver: postgres
  dsn: postgres://localhost/quiz
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Environment beats the file.
	if cfg.Addr != ":9999" {
		t.Fatalf("addr = %q, want env override :9999", cfg.Addr)
	}
	if cfg.LogMode != "prod" {
		t.Fatalf("log mode = %q", cfg.LogMode)
	}
	if cfg.Provider.Model != "test-model" || cfg.Provider.Timeout.Std() != 10*time.Second {
		t.Fatalf("provider = %+v", cfg.Provider)
	}
	if cfg.Session.Backend != "redis" || cfg.Session.TTL.Std() != 5*time.Minute {
		t.Fatalf("session = %+v", cfg.Session)
	}
	if cfg.History.Driver != "postgres" {
		t.Fatalf("history = %+v", cfg.History)
	}
}

func TestLoadRejectsRedisBackendWithoutAddr(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for redis backend without address")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("HISTORY_DRIVER", "mongodb")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for unknown history driver")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "k")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
}
