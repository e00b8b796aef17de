package controller

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/nagyistge/cloud-functions-emulator/internal/config"
	"github.com/nagyistge/cloud-functions-emulator/internal/store"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a Unix-like OS")
	}
}

// waitUntil polls cond until it returns true or timeout elapses.
func waitUntil(timeout, interval time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(interval)
	}
	return cond()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0 // tests always pick an explicit port
	cfg.Timeout = 2 * time.Second
	cfg.PollInterval = 50 * time.Millisecond
	cfg.Command = "sleep 60"
	cfg.LogFile = filepath.Join(dir, "emulator.log")
	cfg.Store = store.Config{Type: "file", Path: filepath.Join(dir, "status.json")}
	return &cfg
}

func newTestController(t *testing.T) (*Controller, store.Store, *config.Config) {
	t.Helper()
	cfg := testConfig(t)
	st, err := store.New(cfg.Store)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return New(cfg, st, nil), st, cfg
}
