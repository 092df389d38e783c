package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Discovery.BatchSize != 20 {
		t.Fatalf("unexpected default discovery batch size: %d", cfg.Discovery.BatchSize)
	}
	if cfg.Presence.OnlineWindow != 5*time.Minute {
		t.Fatalf("unexpected default online window: %s", cfg.Presence.OnlineWindow)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("env: dev\nhttp:\n  addr: \":9999\"\ndiscovery:\n  batch_size: 33\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HTTP_ADDR", ":7777")
	t.Setenv("DISCOVERY_BATCH_SIZE", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.Addr != ":7777" {
		t.Fatalf("env override should win: got %s", cfg.HTTP.Addr)
	}
	if cfg.Discovery.BatchSize != 33 {
		t.Fatalf("yaml value should apply: got %d", cfg.Discovery.BatchSize)
	}
}

func TestLoadRejectsDefaultSecretOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "prod")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for default jwt secret in prod")
	}
}

func TestLoadBadDurationEnv(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "not-a-duration")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed duration override")
	}
}
