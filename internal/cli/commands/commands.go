// Package commands holds the venuectl subcommands.
package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ExitCode is the process exit code for commands that finish without an error but
// still need to signal a negative result.
var ExitCode = 0

// Version is set via ldflags at build time.
var Version = "dev"

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("venuectl %s\n", Version)
		},
	}
}

// openInput returns stdin for "" or "-" and the named file otherwise.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}
