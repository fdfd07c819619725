package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/flow"
	flowio "github.com/matzehuels/mermaidflow/pkg/io"
)

// templateCommand creates the template command.
func (c *CLI) templateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the sample flow as a CSV template",
		Long: `Template writes the sample flow as CSV with every recognized column, ready
to edit and feed back to 'mermaidflow compile'. Use -o - to print it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "-" {
				return flowio.WriteTemplate(cmd.OutOrStdout())
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := flowio.WriteTemplate(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			printSuccess("Wrote template")
			printFile(output)
			printNextStep("Compile it with", "mermaidflow compile "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", flow.TemplateFilename, "output file, or - for stdout")

	return cmd
}
