package controller

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nagyistge/cloud-functions-emulator/internal/env"
)

// buildChildCmd assembles the command that launches the emulator server.
// The configured base command gets every resolved option appended so the
// child can self-configure; the project id additionally travels in the
// environment.
func (c *Controller) buildChildCmd(o StartOptions) (*exec.Cmd, error) {
	parts := strings.Fields(strings.TrimSpace(c.cfg.Command))
	if len(parts) == 0 {
		return nil, errors.New("emulator command not configured")
	}
	args := append(parts[1:],
		"--host", o.Host,
		"--port", strconv.Itoa(o.Port),
		"--project-id", o.ProjectID,
		"--timeout", strconv.FormatInt(o.Timeout.Milliseconds(), 10),
		"--log-file", o.LogFile,
	)
	if o.Verbose {
		args = append(args, "--verbose")
	}
	if o.UseMocks {
		args = append(args, "--use-mocks")
	}
	switch {
	case o.Inspect:
		args = append(args, "--inspect")
	case o.Debug && o.DebugPort > 0:
		args = append(args, fmt.Sprintf("--debug=%d", o.DebugPort))
	case o.Debug:
		args = append(args, "--debug")
	}
	// ok: intentional execution of the configured emulator command
	// #nosec G204
	cmd := exec.Command(parts[0], args...)
	childEnv := env.New()
	childEnv.SetAll(c.cfg.Env)
	cmd.Env = childEnv.Merge([]string{"GCLOUD_PROJECT=" + o.ProjectID})
	return cmd, nil
}

// spawnDetached starts cmd detached from this process, with stdout and
// stderr going to sink, and returns the child's pid. The parent keeps no
// handle on the child; its identity lives in the status store.
func spawnDetached(cmd *exec.Cmd, sink *os.File) (int, error) {
	cmd.Stdin = nil
	cmd.Stdout = sink
	cmd.Stderr = sink
	configureDetached(cmd)
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	// Never wait on the child; it is expected to outlive us.
	_ = cmd.Process.Release()
	return pid, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	// #nosec 304
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
