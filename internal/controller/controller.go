// Package controller supervises the local functions emulator server: it
// spawns the server as a detached child process, tracks its identity in a
// persistent status store, polls for readiness, and relays control
// operations to it over HTTP.
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nagyistge/cloud-functions-emulator/internal/config"
	"github.com/nagyistge/cloud-functions-emulator/internal/store"
)

type State string

const (
	StateRunning State = "RUNNING"
	StateStopped State = "STOPPED"
)

// Status is the vocabulary exposed to callers: RUNNING with the server's
// resolved environment, or STOPPED with the reason it is considered down.
type Status struct {
	State    State          `json:"state"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// StartOptions override the configuration defaults for one start. Zero
// values fall back to the config; Debug and Inspect are mutually exclusive
// with Inspect taking precedence.
type StartOptions struct {
	Host      string
	Port      int
	ProjectID string
	Timeout   time.Duration
	LogFile   string
	Verbose   bool
	UseMocks  bool
	Debug     bool
	DebugPort int
	Inspect   bool
}

type Controller struct {
	cfg    *config.Config
	store  store.Store
	client *http.Client
	logger *slog.Logger
}

func New(cfg *config.Config, st store.Store, lg *slog.Logger) *Controller {
	if lg == nil {
		lg = slog.Default()
	}
	return &Controller{
		cfg:    cfg,
		store:  st,
		client: &http.Client{},
		logger: lg,
	}
}

// Start launches the emulator server as a detached child process and blocks
// until it accepts TCP connections or the timeout elapses. The status
// record is written right after the spawn so a later invocation can locate
// the child even if the readiness poll fails. A spawn failure propagates
// before any record is written.
func (c *Controller) Start(opts StartOptions) (*store.Record, error) {
	o := c.resolve(opts)
	if o.Inspect && o.Debug {
		c.logger.Warn("--debug and --inspect are mutually exclusive, using --inspect")
		o.Debug = false
	}
	if o.Inspect {
		if ok, reason := inspectSupported(c.cfg.Command); !ok {
			c.logger.Warn("runtime does not support --inspect, ignoring", "reason", reason)
			o.Inspect = false
		}
	}

	cmd, err := c.buildChildCmd(o)
	if err != nil {
		return nil, err
	}
	sink, err := openLogFile(o.LogFile)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	pid, err := spawnDetached(cmd, sink)
	_ = sink.Close()
	if err != nil {
		return nil, fmt.Errorf("spawn emulator: %w", err)
	}
	c.logger.Debug("emulator spawned", "pid", pid, "host", o.Host, "port", o.Port)

	rec := &store.Record{
		PID:       pid,
		Host:      o.Host,
		Port:      o.Port,
		ProjectID: o.ProjectID,
		Debug:     o.Debug,
		DebugPort: o.DebugPort,
		Inspect:   o.Inspect,
		LogFile:   o.LogFile,
		StartedAt: time.Now().UTC(),
	}
	if err := c.store.Set(rec); err != nil {
		// The child is already running but untracked; reap it rather than
		// leak a process no later invocation can find.
		if killErr := terminateProcess(pid); killErr != nil {
			c.logger.Debug("kill signal not delivered", "pid", pid, "error", killErr)
		}
		return nil, fmt.Errorf("persist status: %w", err)
	}
	if err := c.waitForStart(o.Host, o.Port, o.Timeout); err != nil {
		return nil, err
	}
	return rec, nil
}

// Stop requests a graceful shutdown over HTTP and waits for the port to be
// released, then force-kills regardless of which branch the confirmation
// took. The status record is always cleared by the trailing kill. A
// transport error on the shutdown request means the server is already
// unreachable and is not an error.
func (c *Controller) Stop(ctx context.Context) error {
	rec, err := c.store.Get()
	if err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return ErrNotRunning
		}
		return err
	}
	if _, err := c.do(ctx, rec, Action{Method: http.MethodDelete, Path: "/"}); err != nil {
		c.logger.Debug("graceful stop request failed, treating as already stopped", "error", err)
	}
	waitErr := c.waitForStop(rec.Host, rec.Port, c.cfg.Timeout)
	if err := c.Kill(); err != nil {
		return err
	}
	return waitErr
}

// Restart stops any running server and starts a fresh one with opts. A
// server that was not running is not an error; restart then degrades to a
// plain start.
func (c *Controller) Restart(ctx context.Context, opts StartOptions) (*store.Record, error) {
	if err := c.Stop(ctx); err != nil && !errors.Is(err, ErrNotRunning) {
		return nil, err
	}
	return c.Start(opts)
}

// Kill force-terminates the emulator server by its persisted pid and
// clears the status record. A missing or stale record means there is
// nothing to kill; cleanup still happens and no error is reported.
func (c *Controller) Kill() error {
	rec, err := c.store.Get()
	if err != nil {
		return c.store.Clear()
	}
	if rec.PID > 0 {
		if err := terminateProcess(rec.PID); err != nil {
			// Process already gone.
			c.logger.Debug("kill signal not delivered", "pid", rec.PID, "error", err)
		}
	}
	return c.store.Clear()
}

// Status verifies actual liveness with a TCP probe; the presence of a
// record only means a server is believed to be running.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	rec, err := c.store.Get()
	if err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return Status{State: StateStopped, Error: ErrNotRunning.Error()}, nil
		}
		return Status{}, err
	}
	addr := net.JoinHostPort(rec.Host, strconv.Itoa(rec.Port))
	if !probeTCP(rec.Host, rec.Port, probeDialTimeout) {
		msg := fmt.Sprintf("emulator not reachable at %s", addr)
		if rec.PID > 0 && processAlive(rec.PID) {
			msg = fmt.Sprintf("emulator process %d is alive but not accepting connections at %s", rec.PID, addr)
		}
		return Status{State: StateStopped, Error: msg}, nil
	}
	env, err := c.CurrentEnvironment(ctx)
	if err != nil {
		return Status{State: StateStopped, Error: err.Error()}, nil
	}
	return Status{State: StateRunning, Metadata: env}, nil
}

// CurrentEnvironment queries the running server for its resolved
// configuration, which reflects what the child actually bound rather than
// what this invocation's config says.
func (c *Controller) CurrentEnvironment(ctx context.Context) (map[string]any, error) {
	rec, err := c.record()
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, rec, Action{
		Method: http.MethodGet,
		Path:   "/",
		Query:  url.Values{"env": {"true"}},
	})
	if err != nil {
		return nil, err
	}
	var env map[string]any
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return env, nil
}

func (c *Controller) resolve(o StartOptions) StartOptions {
	if o.Host == "" {
		o.Host = c.cfg.Host
	}
	if o.Port == 0 {
		o.Port = c.cfg.Port
	}
	if o.ProjectID == "" {
		o.ProjectID = c.cfg.ProjectID
	}
	if o.Timeout <= 0 {
		o.Timeout = c.cfg.Timeout
	}
	if o.LogFile == "" {
		o.LogFile = c.cfg.LogFile
	}
	o.Verbose = o.Verbose || c.cfg.Verbose
	o.UseMocks = o.UseMocks || c.cfg.UseMocks
	return o
}

// record loads the persisted record, mapping its absence to ErrNotRunning.
func (c *Controller) record() (*store.Record, error) {
	rec, err := c.store.Get()
	if errors.Is(err, store.ErrNoRecord) {
		return nil, ErrNotRunning
	}
	return rec, err
}

func (c *Controller) waitForStart(host string, port int, timeout time.Duration) error {
	interval := c.pollInterval()
	up := func() bool { return probeTCP(host, port, probeDialTimeout) }
	if !awaitCondition(up, timeout, interval) {
		return fmt.Errorf("%w (%v)", ErrStartTimeout, timeout)
	}
	return nil
}

func (c *Controller) waitForStop(host string, port int, timeout time.Duration) error {
	interval := c.pollInterval()
	down := func() bool { return !probeTCP(host, port, probeDialTimeout) }
	if !awaitCondition(down, timeout, interval) {
		return fmt.Errorf("%w (%v)", ErrStopTimeout, timeout)
	}
	return nil
}

func (c *Controller) pollInterval() time.Duration {
	if c.cfg.PollInterval > 0 {
		return c.cfg.PollInterval
	}
	return defaultPollInterval
}
