package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/observability"
	"github.com/matzehuels/mermaidflow/pkg/pipeline"
)

// compileOpts holds compile command options.
type compileOpts struct {
	flowFlags
	output  string // Output file path (stdout when empty)
	preview int    // Number of input rows to show as a table
	buffer  bool   // Seed the editor buffer and print its text
}

// compileCommand creates the compile command.
func (c *CLI) compileCommand() *cobra.Command {
	opts := compileOpts{}

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile an edge table into Mermaid flowchart source",
		Long: `Compile reads rows from a CSV, JSON or YAML file ("-" for stdin) and
writes Mermaid flowchart source. Without a file the built-in sample flow is
compiled.

With --buffer the source seeds the editor buffer. Edits made with
'mermaidflow buffer set' survive recompiles of unchanged input and are
printed instead of the fresh source.`,
		Example: `  mermaidflow compile flow.csv
  mermaidflow compile flow.yaml --theme dark --orientation LR -o flow.mmd
  cat flow.json | mermaidflow compile - --format json --strict`,
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
			return c.runCompile(cmd.Context(), cmd.OutOrStdout(), popts, opts)
		},
	}

	opts.flowFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&opts.preview, "preview", 0, "show the first N input rows as a table")
	cmd.Flags().BoolVar(&opts.buffer, "buffer", false, "seed the editor buffer and print its (possibly edited) text")

	return cmd
}

// runCompile executes the pipeline and writes the diagram source.
func (c *CLI) runCompile(ctx context.Context, stdout io.Writer, popts pipeline.Options, opts compileOpts) error {
	prog := newProgress(loggerFromContext(ctx))

	result, err := c.newRunner().Execute(ctx, popts)
	if err != nil {
		return err
	}
	if result.Sample {
		printInfo("No input given, compiling the sample flow")
	}
	if opts.preview > 0 {
		fmt.Fprintln(statusOut, renderPreview(result.Rows, opts.preview))
	}

	text := result.Diagram.Source
	if opts.buffer {
		text, err = c.seedBuffer(ctx, result)
		if err != nil {
			return err
		}
	}

	if err := writeSource(stdout, opts.output, text); err != nil {
		return err
	}

	prog.done("Compiled diagram")
	if opts.output != "" {
		printSuccess("Wrote diagram")
		printFile(opts.output)
	}
	printStats(result.Stats.EdgeCount, result.Stats.BindingCount, result.Stats.SkippedCount)
	return nil
}

// seedBuffer stores the compiled source and maps in the CLI buffer and
// returns the text to emit.
func (c *CLI) seedBuffer(ctx context.Context, result *pipeline.Result) (string, error) {
	store, err := openBuffer()
	if err != nil {
		return "", err
	}
	buf, replaced, err := store.Seed(ctx, result.Diagram.Source)
	if err != nil {
		return "", err
	}
	buf.Maps = result.Maps
	if err := store.Save(ctx, buf); err != nil {
		return "", err
	}

	observability.Buffer().OnBufferSeed(ctx, "file", replaced)
	if !replaced && buf.Edited() {
		printInfo("Input unchanged, keeping your buffer edits")
		printNextStep("Discard them with", "mermaidflow buffer reset")
	}
	return buf.Get(), nil
}

// writeSource writes text to path, or to stdout when path is empty.
func writeSource(stdout io.Writer, path, text string) error {
	if path == "" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}
