package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/attrs"
)

// resolveOpts holds resolve command options.
type resolveOpts struct {
	flowFlags
	input string // Rows file; the sample flow when empty
	url   string // URL reported by the renderer
	note  string // Note reported by the renderer
	json  bool
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	opts := resolveOpts{}

	cmd := &cobra.Command{
		Use:   "resolve <entity>",
		Short: "Resolve a clicked node to its link and note",
		Long: `Resolve looks up what a click on a node shows: a link when the node has a
real URL, "No URL available" otherwise, plus its note. Values passed with
--url and --note take precedence over the lookup tables, the same way a
renderer's click report does.`,
		Example: `  mermaidflow resolve A --input flow.csv
  mermaidflow resolve "Start Node" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.options(cmd, opts.input, opts.flowFlags)
			if err != nil {
				return err
			}
			result, err := c.newRunner().Execute(cmd.Context(), popts)
			if err != nil {
				return err
			}

			res := attrs.Resolve(attrs.ClickResult{
				EntityClicked: args[0],
				EntityURL:     opts.url,
				Note:          opts.note,
			}, result.Maps)

			out := cmd.OutOrStdout()
			if opts.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintln(out, renderResolution(res))
			return nil
		},
	}

	opts.flowFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "rows file, or - for stdin (default: sample flow)")
	cmd.Flags().StringVar(&opts.url, "url", "", "URL reported with the click")
	cmd.Flags().StringVar(&opts.note, "note", "", "note reported with the click")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the resolution as JSON")

	return cmd
}
