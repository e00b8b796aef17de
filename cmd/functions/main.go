package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildRoot creates the root command and wires every subcommand
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	startFlags := &StartFlags{}
	restartFlags := &StartFlags{}
	deployFlags := &DeployFlags{}
	callFlags := &CallFlags{}
	logsFlags := &LogsFlags{}

	functionsCommand := command{global: globalFlags}

	root := createRootCommand(globalFlags)

	root.AddCommand(
		createStartCommand(functionsCommand, startFlags),
		createStopCommand(functionsCommand),
		createKillCommand(functionsCommand),
		createRestartCommand(functionsCommand, restartFlags),
		createStatusCommand(functionsCommand),
		createDeployCommand(functionsCommand, deployFlags),
		createDeleteCommand(functionsCommand),
		createListCommand(functionsCommand),
		createDescribeCommand(functionsCommand),
		createCallCommand(functionsCommand, callFlags),
		createClearCommand(functionsCommand),
		createPruneCommand(functionsCommand),
		createLogsCommand(functionsCommand, logsFlags),
	)

	return root
}

// createRootCommand creates the root command with minimal persistent flags
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "functions",
		Short: "Local Google Cloud Functions emulator control",
		Long: `Functions manages a local emulator for Google Cloud Functions: it
starts the emulator server as a background process, deploys functions to
it, and invokes them for local testing.

Examples:
  functions start --project-id=my-project
  functions deploy helloWorld --local-path=./my-module --trigger-http
  functions call helloWorld --data='{"name":"tester"}'
  functions stop`,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")

	return root
}
