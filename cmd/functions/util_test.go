package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	emulator "github.com/nagyistge/cloud-functions-emulator"
	"github.com/nagyistge/cloud-functions-emulator/internal/emulatortest"
	"github.com/nagyistge/cloud-functions-emulator/internal/store"
)

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	runErr := fn()
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	_ = r.Close()
	return buf.String(), runErr
}

// writeTestConfig writes a TOML config pointing at port with state in a
// temp dir and returns its path together with the store path.
func writeTestConfig(t *testing.T, port int) (cfgPath, storePath string) {
	t.Helper()
	dir := t.TempDir()
	storePath = filepath.Join(dir, "status.json")
	content := fmt.Sprintf(`
host = "127.0.0.1"
port = %d
timeout = "2s"
poll_interval = "50ms"
command = "sleep 60"
log_file = %q

[store]
type = "file"
path = %q
`, port, filepath.Join(dir, "emulator.log"), storePath)
	cfgPath = filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath, storePath
}

// startFakeServer boots the emulator fake and seeds the status record the
// CLI will read, returning the config path to pass via --config.
func startFakeServer(t *testing.T) (*emulatortest.Server, string) {
	t.Helper()
	srv := emulatortest.New("127.0.0.1:0", map[string]any{"projectId": "cli-test"})
	if err := srv.Start(); err != nil {
		t.Fatalf("start fake server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })

	cfgPath, storePath := writeTestConfig(t, srv.Port())
	st, err := store.New(store.Config{Type: "file", Path: storePath})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	// PID 0 so lifecycle commands never signal a real process from tests.
	rec := store.Record{PID: 0, Host: "127.0.0.1", Port: srv.Port(), ProjectID: "cli-test"}
	if err := st.Set(&rec); err != nil {
		t.Fatalf("store.Set: %v", err)
	}
	return srv, cfgPath
}

func TestPrintJSON(t *testing.T) {
	out, _ := captureStdout(t, func() error {
		printJSON(map[string]int{"x": 1})
		return nil
	})
	if !strings.Contains(out, "\"x\": 1") {
		t.Fatalf("unexpected JSON output: %q", out)
	}
}

func TestPrintFunctionsTable(t *testing.T) {
	fns := map[string]emulator.FunctionInfo{
		"b": {Name: "b", Type: "HTTP", Path: "/tmp/b"},
		"a": {Name: "a", Type: "BACKGROUND", Path: "/tmp/a"},
	}
	out, _ := captureStdout(t, func() error {
		printFunctionsTable(fns)
		return nil
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Fatalf("missing header: %q", lines[0])
	}
	// Rows come out in name order.
	if !strings.HasPrefix(lines[1], "a") || !strings.HasPrefix(lines[2], "b") {
		t.Fatalf("rows not sorted:\n%s", out)
	}
}

func TestPrintFunctionsTableEmpty(t *testing.T) {
	out, _ := captureStdout(t, func() error {
		printFunctionsTable(nil)
		return nil
	})
	if !strings.Contains(out, "No functions deployed") {
		t.Fatalf("output: %q", out)
	}
}
