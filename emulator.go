// Package emulator is the public facade over the lifecycle controller for
// the local Google Cloud Functions emulator. It wires together the status
// store, logger, and controller so embedders get the same behavior as the
// functions CLI.
package emulator

import (
	"context"

	"github.com/nagyistge/cloud-functions-emulator/internal/config"
	"github.com/nagyistge/cloud-functions-emulator/internal/controller"
	"github.com/nagyistge/cloud-functions-emulator/internal/logs"
	"github.com/nagyistge/cloud-functions-emulator/internal/store"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Config = config.Config

type Record = store.Record

type Status = controller.Status

type StartOptions = controller.StartOptions

type FunctionInfo = controller.FunctionInfo

type Body = controller.Body

type Response = controller.Response

var (
	ErrNotRunning   = controller.ErrNotRunning
	ErrStartTimeout = controller.ErrStartTimeout
	ErrStopTimeout  = controller.ErrStopTimeout
	ErrNoRecord     = store.ErrNoRecord
)

func EmptyBody() Body          { return controller.EmptyBody() }
func JSONBody(v any) Body      { return controller.JSONBody(v) }
func StringBody(s string) Body { return controller.StringBody(s) }

// Emulator is a thin facade over internal/controller.Controller.
// It provides a stable public API for embedding.

type Emulator struct {
	inner *controller.Controller
	store store.Store
	cfg   *config.Config
}

func New(cfg *Config) (*Emulator, error) {
	st, err := store.New(cfg.Store)
	if err != nil {
		return nil, err
	}
	return &Emulator{
		inner: controller.New(cfg, st, cfg.Log.Build()),
		store: st,
		cfg:   cfg,
	}, nil
}

func DefaultConfig() Config { return config.Default() }

func LoadConfig(path string) (*Config, error) { return config.Load(path) }

func (e *Emulator) Start(opts StartOptions) (*Record, error) { return e.inner.Start(opts) }
func (e *Emulator) Stop(ctx context.Context) error           { return e.inner.Stop(ctx) }
func (e *Emulator) Kill() error                              { return e.inner.Kill() }
func (e *Emulator) Restart(ctx context.Context, opts StartOptions) (*Record, error) {
	return e.inner.Restart(ctx, opts)
}
func (e *Emulator) Status(ctx context.Context) (Status, error) { return e.inner.Status(ctx) }
func (e *Emulator) CurrentEnvironment(ctx context.Context) (map[string]any, error) {
	return e.inner.CurrentEnvironment(ctx)
}

func (e *Emulator) Deploy(ctx context.Context, entryPoint, modulePath, trigger string) (*FunctionInfo, error) {
	return e.inner.Deploy(ctx, entryPoint, modulePath, trigger)
}
func (e *Emulator) Undeploy(ctx context.Context, name string) error {
	return e.inner.Undeploy(ctx, name)
}
func (e *Emulator) List(ctx context.Context) (map[string]FunctionInfo, error) {
	return e.inner.List(ctx)
}
func (e *Emulator) Describe(ctx context.Context, name string) (*FunctionInfo, error) {
	return e.inner.Describe(ctx, name)
}
func (e *Emulator) Call(ctx context.Context, name string, body Body) (*Response, error) {
	return e.inner.Call(ctx, name, body)
}
func (e *Emulator) Clear(ctx context.Context) error        { return e.inner.Clear(ctx) }
func (e *Emulator) Prune(ctx context.Context) (int, error) { return e.inner.Prune(ctx) }

// Logs returns the last n lines of the server's log file, using the file
// the running instance reports or, failing that, the configured default.
func (e *Emulator) Logs(n int) ([]string, error) {
	path := e.cfg.LogFile
	if rec, err := e.store.Get(); err == nil && rec.LogFile != "" {
		path = rec.LogFile
	}
	return logs.ReadLastLines(path, n)
}

// Close releases the status store.
func (e *Emulator) Close() error { return e.store.Close() }
