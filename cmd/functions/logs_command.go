package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Logs prints the tail of the server's log file
func (c command) Logs(f LogsFlags) error {
	e, err := c.emulator()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	lines, err := e.Logs(f.Limit)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

// createLogsCommand creates the logs subcommand
func createLogsCommand(functionsCommand command, logsFlags *LogsFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs read",
		Short: "Print the tail of the emulator server log",
		Long: `Logs read prints the most recent lines of the server's log file. The
server keeps running detached from any terminal, so its output is only
visible here.

Examples:
  functions logs read
  functions logs read --limit=100`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"read"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return functionsCommand.Logs(*logsFlags)
		},
	}

	cmd.Flags().IntVar(&logsFlags.Limit, "limit", 20, "number of lines to print")

	return cmd
}
