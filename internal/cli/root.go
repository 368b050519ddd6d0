// Package cli provides the venuectl command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"venuecatalog/backend/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	commands.ExitCode = 0
	if err := NewRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "venuectl",
		Short: "Operate the venue catalog",
		Long: `venuectl inspects event URLs the same way the API does and loads seed data
into a running API.

Offline commands (extract, infer, parse) need no server. seed talks to the API
with the X-API-Key header.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewExtractCommand())
	rootCmd.AddCommand(commands.NewInferCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewHashPasswordCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
