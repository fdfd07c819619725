package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/mermaid"
	"github.com/matzehuels/mermaidflow/pkg/observability"
	"github.com/matzehuels/mermaidflow/pkg/session"
)

// bufferCommand creates the editor buffer management command.
func (c *CLI) bufferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buffer",
		Short: "Manage the editable diagram buffer",
		Long: `The buffer holds the last compiled diagram source ('compile --buffer').
Edits made here are kept until the compiled input changes or the buffer is
reset.`,
	}

	cmd.AddCommand(c.bufferShowCommand())
	cmd.AddCommand(c.bufferSetCommand())
	cmd.AddCommand(c.bufferResetCommand())
	cmd.AddCommand(c.bufferPathCommand())

	return cmd
}

// loadBuffer opens the store and loads the buffer, failing when none exists.
func loadBuffer(cmd *cobra.Command) (*session.CLIStore, *session.Buffer, error) {
	store, err := openBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("open buffer: %w", err)
	}
	buf, err := store.Load(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	observability.Buffer().OnBufferLoad(cmd.Context(), "file", buf != nil)
	if buf == nil {
		return nil, nil, errors.New(errors.ErrCodeBufferNotFound, "no buffer yet, run 'mermaidflow compile --buffer' first")
	}
	return store, buf, nil
}

// bufferShowCommand creates the "buffer show" subcommand.
func (c *CLI) bufferShowCommand() *cobra.Command {
	var orientation string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the buffer text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, buf, err := loadBuffer(cmd)
			if err != nil {
				return err
			}

			text := buf.Get()
			if orientation != "" {
				o, err := mermaid.ParseOrientation(orientation)
				if err != nil {
					return err
				}
				text = mermaid.Reorient(text, o)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			if buf.Edited() {
				printDetail("edited %s", formatRelativeTime(buf.UpdatedAt))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&orientation, "orientation", "", "rewrite the flowchart direction (TD or LR) on output")

	return cmd
}

// bufferSetCommand creates the "buffer set" subcommand.
func (c *CLI) bufferSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set [file]",
		Short: "Replace the buffer text from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, buf, err := loadBuffer(cmd)
			if err != nil {
				return err
			}

			var text []byte
			if len(args) == 0 || args[0] == "-" {
				text, err = io.ReadAll(cmd.InOrStdin())
			} else {
				text, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			buf.Set(string(text))
			if err := store.Save(cmd.Context(), buf); err != nil {
				return err
			}
			observability.Buffer().OnBufferEdit(cmd.Context(), "file", len(text))
			printSuccess("Buffer updated")
			return nil
		},
	}
}

// bufferResetCommand creates the "buffer reset" subcommand.
func (c *CLI) bufferResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard edits and restore the last compiled source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, buf, err := loadBuffer(cmd)
			if err != nil {
				return err
			}
			if !buf.Edited() {
				printInfo("Buffer has no edits")
				return nil
			}
			buf.Reset()
			if err := store.Save(cmd.Context(), buf); err != nil {
				return err
			}
			printSuccess("Buffer reset to compiled source")
			return nil
		},
	}
}

// bufferPathCommand creates the "buffer path" subcommand.
func (c *CLI) bufferPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the buffer file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openBuffer()
			if err != nil {
				return fmt.Errorf("get buffer dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Path())
			return nil
		},
	}
}
