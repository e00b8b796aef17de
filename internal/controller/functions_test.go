package controller

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nagyistge/cloud-functions-emulator/internal/emulatortest"
	"github.com/nagyistge/cloud-functions-emulator/internal/store"
)

// startFake boots the in-process emulator fake and records it in the
// controller's store so function operations can reach it.
func startFake(t *testing.T, c *Controller, st store.Store) *emulatortest.Server {
	t.Helper()
	srv := emulatortest.New("127.0.0.1:0", map[string]any{"projectId": "test-project"})
	if err := srv.Start(); err != nil {
		t.Fatalf("start fake server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	rec := store.Record{
		PID:       os.Getpid(),
		Host:      "127.0.0.1",
		Port:      srv.Port(),
		ProjectID: "test-project",
		StartedAt: time.Now(),
	}
	if err := st.Set(&rec); err != nil {
		t.Fatalf("store.Set: %v", err)
	}
	return srv
}

func writeModule(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.js")
	if err := os.WriteFile(path, []byte("exports.hello = () => {};\n"), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}
	return path
}

func TestDeployListDescribeUndeploy(t *testing.T) {
	c, st, _ := newTestController(t)
	startFake(t, c, st)
	ctx := context.Background()
	mod := writeModule(t)

	fn, err := c.Deploy(ctx, "hello", mod, "B")
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if fn.Name != "hello" || fn.Type != TypeBackground {
		t.Fatalf("unexpected function: %+v", fn)
	}
	if !filepath.IsAbs(fn.Path) {
		t.Fatalf("path not absolute: %s", fn.Path)
	}

	fns, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(fns) != 1 {
		t.Fatalf("expected 1 function, got %d", len(fns))
	}
	if got := fns["hello"]; got.Type != TypeBackground {
		t.Fatalf("listed function: %+v", got)
	}

	desc, err := c.Describe(ctx, "hello")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if desc.Name != "hello" {
		t.Fatalf("described function: %+v", desc)
	}

	if err := c.Undeploy(ctx, "hello"); err != nil {
		t.Fatalf("Undeploy: %v", err)
	}
	fns, err = c.List(ctx)
	if err != nil {
		t.Fatalf("List after undeploy: %v", err)
	}
	if len(fns) != 0 {
		t.Fatalf("expected empty list, got %v", fns)
	}
}

func TestDeployRejectsMissingModule(t *testing.T) {
	c, st, _ := newTestController(t)
	startFake(t, c, st)
	missing := filepath.Join(t.TempDir(), "nope.js")
	if _, err := c.Deploy(context.Background(), "hello", missing, "H"); err == nil {
		t.Fatalf("expected error for missing module path")
	}
}

func TestDeployRejectsUnknownTrigger(t *testing.T) {
	c, st, _ := newTestController(t)
	startFake(t, c, st)
	if _, err := c.Deploy(context.Background(), "hello", writeModule(t), "cron"); err == nil {
		t.Fatalf("expected error for unknown trigger")
	}
}

func TestCallEchoesNormalizedBody(t *testing.T) {
	c, st, _ := newTestController(t)
	srv := startFake(t, c, st)
	ctx := context.Background()
	if _, err := c.Deploy(ctx, "echo", writeModule(t), "HTTP"); err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	resp, err := c.Call(ctx, "echo", StringBody(` {"a": 1} `))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	// Body was re-serialized before sending, not passed through verbatim.
	if got := string(srv.LastCall()); got != `{"a":1}` {
		t.Fatalf("server saw %q", got)
	}
	if string(resp.Body) != `{"a":1}` {
		t.Fatalf("echoed body: %q", resp.Body)
	}
}

func TestCallUnknownFunctionIsRawError(t *testing.T) {
	c, st, _ := newTestController(t)
	startFake(t, c, st)
	resp, err := c.Call(context.Background(), "ghost", EmptyBody())
	if err != nil {
		t.Fatalf("Call should not fail on non-2xx: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestClearRemovesAllFunctions(t *testing.T) {
	c, st, _ := newTestController(t)
	startFake(t, c, st)
	ctx := context.Background()
	mod := writeModule(t)
	for _, name := range []string{"a", "b"} {
		if _, err := c.Deploy(ctx, name, mod, "H"); err != nil {
			t.Fatalf("Deploy %s: %v", name, err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	fns, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(fns) != 0 {
		t.Fatalf("functions survived clear: %v", fns)
	}
}

func TestPruneRemovesOnlyStaleModules(t *testing.T) {
	c, st, _ := newTestController(t)
	startFake(t, c, st)
	ctx := context.Background()

	keep := writeModule(t)
	stale := writeModule(t)
	if _, err := c.Deploy(ctx, "keep", keep, "H"); err != nil {
		t.Fatalf("Deploy keep: %v", err)
	}
	if _, err := c.Deploy(ctx, "stale", stale, "H"); err != nil {
		t.Fatalf("Deploy stale: %v", err)
	}
	if err := os.Remove(stale); err != nil {
		t.Fatalf("remove module: %v", err)
	}

	n, err := c.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	fns, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, ok := fns["keep"]; !ok || len(fns) != 1 {
		t.Fatalf("unexpected survivors: %v", fns)
	}
}

func TestOperationsWithoutRecord(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx := context.Background()
	if _, err := c.List(ctx); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("List: %v", err)
	}
	if _, err := c.Deploy(ctx, "x", writeModule(t), "H"); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Deploy: %v", err)
	}
	if _, err := c.Call(ctx, "x", EmptyBody()); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Call: %v", err)
	}
}
