package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"venuecatalog/backend/internal/urlpattern"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Normalize bulk event input",
		Long: `Normalize bulk event input the way POST /events/bulk does and print
"url<TAB>identifier" per entry. Entries without an identifier print "-".

Reads stdin when no file is given or the file is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(cmd, path, base)
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base URL used to expand bare identifiers")
	return cmd
}

func runParse(cmd *cobra.Command, path, base string) error {
	in, err := openInput(cmd, path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, e := range urlpattern.ParseBulkInput(string(data), base) {
		id := e.Identifier
		if !e.HasIdentifier {
			id = "-"
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\n", e.URL, id)
	}
	return nil
}
