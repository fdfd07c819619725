package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/attrs"
)

// mapsOpts holds maps command options.
type mapsOpts struct {
	flowFlags
	json bool
}

// mapsCommand creates the maps command.
func (c *CLI) mapsCommand() *cobra.Command {
	opts := mapsOpts{}

	cmd := &cobra.Command{
		Use:   "maps [file]",
		Short: "Show the URL and notes lookup tables for a flow",
		Long: `Maps prints the per-node URL and notes tables built from the input rows.
Every from_id, to_id, from_label and to_label is a key; the first non-empty
value seen for a key wins.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			popts, err := c.options(cmd, path, opts.flowFlags)
			if err != nil {
				return err
			}
			result, err := c.newRunner().Execute(cmd.Context(), popts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result.Maps)
			}
			fmt.Fprintln(out, renderMap("URL", result.Maps.URLs))
			fmt.Fprintln(out, renderMap("Notes", result.Maps.Notes))
			return nil
		},
	}

	opts.flowFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the maps as JSON")

	return cmd
}

func sortedKeys(m attrs.Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
