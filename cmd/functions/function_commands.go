package main

import (
	"context"
	"fmt"
	"os"

	emulator "github.com/nagyistge/cloud-functions-emulator"
	"github.com/spf13/cobra"
)

// Deploy registers a function with the running server
func (c command) Deploy(name string, f DeployFlags) error {
	if f.TriggerHTTP && f.TriggerBackground {
		return fmt.Errorf("--trigger-http and --trigger-bucket are mutually exclusive")
	}
	trigger := "H"
	if f.TriggerBackground {
		trigger = "B"
	}
	localPath := f.LocalPath
	if localPath == "" {
		localPath = "."
	}

	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	fn, err := e.Deploy(context.Background(), name, localPath, trigger)
	if err != nil {
		return err
	}
	fmt.Printf("Function %s deployed\n", fn.Name)
	printJSON(fn)
	return nil
}

// Delete removes a deployed function by name
func (c command) Delete(name string) error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	if err := e.Undeploy(context.Background(), name); err != nil {
		return err
	}
	fmt.Printf("Function %s deleted\n", name)
	return nil
}

// List prints all deployed functions
func (c command) List() error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	fns, err := e.List(context.Background())
	if err != nil {
		return err
	}
	printFunctionsTable(fns)
	return nil
}

// Describe prints one deployed function
func (c command) Describe(name string) error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	fn, err := e.Describe(context.Background(), name)
	if err != nil {
		return err
	}
	printJSON(fn)
	return nil
}

// Call invokes a deployed function and prints whatever it returned
func (c command) Call(name string, f CallFlags) error {
	if f.Data != "" && f.File != "" {
		return fmt.Errorf("--data and --file are mutually exclusive")
	}
	body := emulator.EmptyBody()
	switch {
	case f.Data != "":
		body = emulator.StringBody(f.Data)
	case f.File != "":
		data, err := os.ReadFile(f.File)
		if err != nil {
			return fmt.Errorf("read payload file: %w", err)
		}
		body = emulator.StringBody(string(data))
	}

	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	resp, err := e.Call(context.Background(), name, body)
	if err != nil {
		return err
	}
	// The function's response is passed through untouched, whatever its
	// status or content type.
	os.Stdout.Write(resp.Body)
	fmt.Println()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("function returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Clear removes every deployed function
func (c command) Clear() error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	if err := e.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("All functions cleared")
	return nil
}

// Prune removes functions whose module no longer exists on disk
func (c command) Prune() error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	n, err := e.Prune(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%d function(s) pruned\n", n)
	return nil
}

// createDeployCommand creates the deploy subcommand
func createDeployCommand(functionsCommand command, deployFlags *DeployFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy <entryPoint>",
		Short: "Deploy a function to the running emulator",
		Long: `Deploy registers the function exported under entryPoint by the module
at --local-path with the running emulator server.

Examples:
  functions deploy helloWorld --trigger-http
  functions deploy onFileChange --local-path=./workers --trigger-bucket`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Deploy(args[0], *deployFlags)
		},
	}

	cmd.Flags().StringVar(&deployFlags.LocalPath, "local-path", "", "path to the module directory (default: current directory)")
	cmd.Flags().BoolVar(&deployFlags.TriggerHTTP, "trigger-http", false, "deploy as an HTTP function")
	cmd.Flags().BoolVar(&deployFlags.TriggerBackground, "trigger-bucket", false, "deploy as a background function")

	return cmd
}

// createDeleteCommand creates the delete subcommand
func createDeleteCommand(functionsCommand command) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"undeploy"},
		Short:   "Delete a deployed function",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Delete(args[0])
		},
	}
}

// createListCommand creates the list subcommand
func createListCommand(functionsCommand command) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List deployed functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.List()
		},
	}
}

// createDescribeCommand creates the describe subcommand
func createDescribeCommand(functionsCommand command) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name>",
		Short: "Describe a deployed function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Describe(args[0])
		},
	}
}

// createCallCommand creates the call subcommand
func createCallCommand(functionsCommand command, callFlags *CallFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <name>",
		Short: "Invoke a deployed function",
		Long: `Call invokes a deployed function synchronously and prints its response.
The payload is JSON, inline via --data or from a file via --file.

Examples:
  functions call helloWorld
  functions call helloWorld --data='{"name":"tester"}'
  functions call processOrder --file=./order.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Call(args[0], *callFlags)
		},
	}

	cmd.Flags().StringVar(&callFlags.Data, "data", "", "JSON payload to send")
	cmd.Flags().StringVar(&callFlags.File, "file", "", "file with the JSON payload to send")

	return cmd
}

// createClearCommand creates the clear subcommand
func createClearCommand(functionsCommand command) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every deployed function",
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Clear()
		},
	}
}

// createPruneCommand creates the prune subcommand
func createPruneCommand(functionsCommand command) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove functions whose module vanished from disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Prune()
		},
	}
}
