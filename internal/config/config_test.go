package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Host != "localhost" {
		t.Fatalf("default host: %q", cfg.Host)
	}
	if cfg.Port != 8008 {
		t.Fatalf("default port: %d", cfg.Port)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("default timeout: %v", cfg.Timeout)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("default poll interval: %v", cfg.PollInterval)
	}
	if cfg.Store.Type != "file" || cfg.Store.Path == "" {
		t.Fatalf("default store config: %+v", cfg.Store)
	}
	if cfg.LogFile == "" {
		t.Fatalf("default log file must be set")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != Default().Port {
		t.Fatalf("expected defaults, got port %d", cfg.Port)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
host = "127.0.0.1"
port = 8010
project_id = "demo"
timeout = "5s"
command = "node /opt/emulator/main.js"
verbose = true

[store]
type = "sqlite"
path = "/tmp/status.db"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != 8010 || cfg.ProjectID != "demo" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout override: %v", cfg.Timeout)
	}
	if !cfg.Verbose {
		t.Fatalf("verbose override not applied")
	}
	if cfg.Store.Type != "sqlite" || cfg.Store.Path != "/tmp/status.db" {
		t.Fatalf("store override: %+v", cfg.Store)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log override: %+v", cfg.Log)
	}
	// Unset keys keep their defaults.
	if cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("poll interval default lost: %v", cfg.PollInterval)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
