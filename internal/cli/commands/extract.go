package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"venuecatalog/backend/internal/urlpattern"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "extract <url>...",
		Short: "Print the event identifier found in each URL",
		Long: `Print the event identifier found in each URL, one line per URL.

Rules are tried in order and the first match wins:
  events, event-prefix, short-e, tickets, ticket, show, last-segment

URLs without an identifier print "-" and set exit code 1.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, explain)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "also print the rule that matched")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string, explain bool) error {
	out := cmd.OutOrStdout()
	for _, raw := range args {
		id, rule, ok := urlpattern.MatchIdentifier(raw)
		if !ok {
			ExitCode = 1
			id, rule = "-", "none"
		}
		if explain {
			_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", raw, id, rule)
			continue
		}
		_, _ = fmt.Fprintln(out, id)
	}
	return nil
}
