package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/flow"
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	opts := flowFlags{}

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Browse a flow's nodes and what clicking them shows",
		Long: `Explore lists every node of a flow in an interactive table. Moving the
cursor shows the link and note a click on that node would open. Press enter
to print the selected node's resolution and exit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			popts, err := c.options(cmd, path, opts)
			if err != nil {
				return err
			}
			result, err := c.newRunner().Execute(cmd.Context(), popts)
			if err != nil {
				return err
			}

			model := NewNodeListModel(flow.Nodes(result.Rows), result.Maps)
			final, err := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(statusOut),
			).Run()
			if err != nil {
				return fmt.Errorf("explore: %w", err)
			}

			if m, ok := final.(NodeListModel); ok && m.Selected != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderResolution(*m.Selected))
			}
			return nil
		},
	}

	opts.register(cmd)

	return cmd
}
