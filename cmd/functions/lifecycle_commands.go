package main

import (
	"context"
	"errors"
	"fmt"

	emulator "github.com/nagyistge/cloud-functions-emulator"
	"github.com/spf13/cobra"
)

// Start launches the emulator server and waits for it to accept connections
func (c command) Start(f StartFlags) error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	rec, err := e.Start(startOptions(f))
	if err != nil {
		return err
	}
	fmt.Printf("Emulator started (pid %d, http://%s:%d)\n", rec.PID, rec.Host, rec.Port)
	return nil
}

// Stop asks the server to shut down and confirms the port was released
func (c command) Stop() error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	if err := e.Stop(context.Background()); err != nil {
		if errors.Is(err, emulator.ErrNotRunning) {
			fmt.Println("Emulator is not running")
			return nil
		}
		return err
	}
	fmt.Println("Emulator stopped")
	return nil
}

// Kill force-terminates the server by pid without a graceful shutdown
func (c command) Kill() error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	if err := e.Kill(); err != nil {
		return err
	}
	fmt.Println("Emulator killed")
	return nil
}

// Restart stops any running server and starts a new one
func (c command) Restart(f StartFlags) error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	rec, err := e.Restart(context.Background(), startOptions(f))
	if err != nil {
		return err
	}
	fmt.Printf("Emulator restarted (pid %d, http://%s:%d)\n", rec.PID, rec.Host, rec.Port)
	return nil
}

// Status reports whether the server is reachable and its resolved environment
func (c command) Status() error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	status, err := e.Status(context.Background())
	if err != nil {
		return err
	}
	printJSON(status)
	return nil
}

func startOptions(f StartFlags) emulator.StartOptions {
	return emulator.StartOptions{
		Host:      f.Host,
		Port:      f.Port,
		ProjectID: f.ProjectID,
		Timeout:   f.Timeout,
		LogFile:   f.LogFile,
		Verbose:   f.Verbose,
		UseMocks:  f.UseMocks,
		Debug:     f.Debug,
		DebugPort: f.DebugPort,
		Inspect:   f.Inspect,
	}
}

func addStartFlags(cmd *cobra.Command, f *StartFlags) {
	cmd.Flags().StringVar(&f.Host, "host", "", "host rather than the configured one")
	cmd.Flags().IntVar(&f.Port, "port", 0, "port rather than the configured one")
	cmd.Flags().StringVar(&f.ProjectID, "project-id", "", "Google Cloud project id")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 0, "how long to wait for the server to come up")
	cmd.Flags().StringVar(&f.LogFile, "log-file", "", "server log file path")
	cmd.Flags().BoolVar(&f.Verbose, "verbose", false, "verbose server logging")
	cmd.Flags().BoolVar(&f.UseMocks, "use-mocks", false, "load mocks.js before invoking functions")
	cmd.Flags().BoolVar(&f.Debug, "debug", false, "start the runtime with the legacy debug agent")
	cmd.Flags().IntVar(&f.DebugPort, "debug-port", 0, "debug agent port")
	cmd.Flags().BoolVar(&f.Inspect, "inspect", false, "start the runtime with the inspector agent")
}

// createStartCommand creates the start subcommand
func createStartCommand(functionsCommand command, startFlags *StartFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the emulator server in the background",
		Long: `Start launches the emulator server as a detached background process,
records how to reach it, and waits until it accepts connections.

Examples:
  functions start
  functions start --project-id=my-project --port=8010
  functions start --inspect`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Start(*startFlags)
		},
	}
	addStartFlags(cmd, startFlags)
	return cmd
}

// createStopCommand creates the stop subcommand
func createStopCommand(functionsCommand command) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the emulator server gracefully",
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Stop()
		},
	}
}

// createKillCommand creates the kill subcommand
func createKillCommand(functionsCommand command) *cobra.Command {
	return &cobra.Command{
		Use:   "kill",
		Short: "Force-terminate the emulator server",
		Long: `Kill terminates the emulator server immediately by the pid on record,
skipping the graceful shutdown. Use it when the server stopped responding.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Kill()
		},
	}
}

// createRestartCommand creates the restart subcommand
func createRestartCommand(functionsCommand command, restartFlags *StartFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the emulator server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Restart(*restartFlags)
		},
	}
	addStartFlags(cmd, restartFlags)
	return cmd
}

// createStatusCommand creates the status subcommand
func createStatusCommand(functionsCommand command) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the emulator server state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Status()
		},
	}
}
