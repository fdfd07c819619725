package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mermaidflow/pkg/attrs"
	"github.com/matzehuels/mermaidflow/pkg/flow"
	flowio "github.com/matzehuels/mermaidflow/pkg/io"
	"github.com/matzehuels/mermaidflow/pkg/mermaid"
	"github.com/matzehuels/mermaidflow/pkg/observability"
)

// Runner encapsulates pipeline execution.
// Both CLI and server use this to avoid duplicating load and compile logic.
//
// The Runner is stateless except for the logger. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → compile pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	rows, sample, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Rows = rows
	result.Sample = sample
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.RowCount = len(rows)

	r.Logger.Debug("loaded rows",
		"rows", len(rows),
		"format", opts.Format,
		"sample", sample,
		"duration", result.Stats.LoadTime)

	// Stage 2: Compile
	compileStart := time.Now()
	diagram, maps, err := r.Compile(ctx, rows, opts)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	result.Diagram = diagram
	result.Maps = maps
	result.Stats.CompileTime = time.Since(compileStart)
	result.Stats.EdgeCount = diagram.Edges
	result.Stats.BindingCount = diagram.Bindings
	result.Stats.SkippedCount = len(diagram.Warnings)

	r.Logger.Info("compiled diagram",
		"edges", diagram.Edges,
		"bindings", diagram.Bindings,
		"skipped", len(diagram.Warnings),
		"duration", result.Stats.CompileTime)

	return result, nil
}

// Load reads rows from the configured input. With no input it returns the
// sample flow and reports sample as true.
func (r *Runner) Load(ctx context.Context, opts Options) (rows []flow.Edge, sample bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	if !opts.HasInput() {
		return flow.Sample(), true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Format)
	start := time.Now()

	if opts.Path != "" {
		rows, err = flowio.Import(opts.Path)
	} else {
		rows, err = flowio.Read(bytes.NewReader(opts.Data), opts.format)
	}

	hooks.OnLoadComplete(ctx, opts.Format, len(rows), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return rows, false, nil
}

// Compile builds the diagram and attribute maps for rows.
func (r *Runner) Compile(ctx context.Context, rows []flow.Edge, opts Options) (*mermaid.Diagram, attrs.Maps, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompile(); err != nil {
		return nil, attrs.Maps{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnCompileStart(ctx, len(rows))
	start := time.Now()

	diagram, err := mermaid.Compile(rows, opts.CompileOptions())
	if err != nil {
		hooks.OnCompileComplete(ctx, 0, 0, 0, time.Since(start), err)
		return nil, attrs.Maps{}, err
	}
	maps := attrs.Build(rows)
	hooks.OnCompileComplete(ctx, diagram.Edges, diagram.Bindings, len(diagram.Warnings), time.Since(start), nil)

	for _, w := range diagram.Warnings {
		opts.Logger.Warn("skipped row", "reason", w)
	}
	return diagram, maps, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
