package cli

import (
	"github.com/spf13/cobra"

	flowio "github.com/matzehuels/mermaidflow/pkg/io"
	"github.com/matzehuels/mermaidflow/pkg/mermaid"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for mermaidflow.

To load completions:

Bash:
  $ source <(mermaidflow completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ mermaidflow completion bash > /etc/bash_completion.d/mermaidflow
  # macOS:
  $ mermaidflow completion bash > $(brew --prefix)/etc/bash_completion.d/mermaidflow

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ mermaidflow completion zsh > "${fpath[1]}/_mermaidflow"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ mermaidflow completion fish | source

  # To load completions for each session, execute once:
  $ mermaidflow completion fish > ~/.config/fish/completions/mermaidflow.fish

PowerShell:
  PS> mermaidflow completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> mermaidflow completion powershell > mermaidflow.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerFlowCompletions completes the values of the shared flow flags.
func registerFlowCompletions(cmd *cobra.Command) {
	themes := make([]string, len(mermaid.Themes))
	for i, t := range mermaid.Themes {
		themes[i] = string(t)
	}
	orientations := make([]string, len(mermaid.Orientations))
	for i, o := range mermaid.Orientations {
		orientations[i] = string(o) + "\t" + o.Label()
	}
	formats := []string{string(flowio.FormatCSV), string(flowio.FormatJSON), string(flowio.FormatYAML)}

	_ = cmd.RegisterFlagCompletionFunc("theme", cobra.FixedCompletions(themes, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("orientation", cobra.FixedCompletions(orientations, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))
}
