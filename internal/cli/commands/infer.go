package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"venuecatalog/backend/internal/urlpattern"
)

// NewInferCommand creates the infer command.
func NewInferCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "infer <url> <url>...",
		Short: "Print the base URL shared by event URLs",
		Long: `Print the base URL shared by two or more event URLs on one host.

Exit code 1 means no base URL could be inferred.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInfer,
	}
}

func runInfer(cmd *cobra.Command, args []string) error {
	base, ok := urlpattern.InferBaseURL(args)
	if !ok {
		ExitCode = 1
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "no base URL: need two or more URLs on the same host")
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), base)
	return nil
}
