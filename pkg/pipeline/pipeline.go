// Package pipeline provides the load → compile pipeline for mermaidflow.
//
// The CLI and the HTTP server both turn tabular input into a diagram and its
// attribute maps. Centralizing that here keeps defaults, validation and
// logging identical across entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Load: Read rows from a file or an in-memory payload (CSV, JSON, YAML),
//     falling back to the sample flow when no input is given
//  2. Compile: Produce Mermaid source and the URL/notes lookup tables
//
// Nothing is cached: every run recomputes from its input.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:        "flow.csv",
//	    Theme:       "dark",
//	    Orientation: "LR",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.Diagram.Source)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mermaidflow/pkg/attrs"
	"github.com/matzehuels/mermaidflow/pkg/flow"
	flowio "github.com/matzehuels/mermaidflow/pkg/io"
	"github.com/matzehuels/mermaidflow/pkg/mermaid"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultTheme is the theme used when none is configured.
	DefaultTheme = string(mermaid.ThemeDefault)

	// DefaultOrientation is the orientation used when none is configured.
	DefaultOrientation = string(mermaid.TopDown)

	// DefaultFormat is the input format when neither a file extension nor
	// an explicit format says otherwise.
	DefaultFormat = string(flowio.FormatCSV)
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options. Path wins over Data; with neither, the sample flow is
	// used.
	Path   string `json:"path,omitempty"`
	Data   []byte `json:"-"`
	Format string `json:"format,omitempty"`

	// Compile options
	Theme       string `json:"theme,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Strict      bool   `json:"strict,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	theme       mermaid.Theme
	orientation mermaid.Orientation
	format      flowio.Format
	validated   bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Rows are the loaded input rows, before normalization.
	Rows []flow.Edge

	// Sample is true when Rows came from the built-in sample flow.
	Sample bool

	// Diagram is the compiled Mermaid source with its counts and warnings.
	Diagram *mermaid.Diagram

	// Maps resolve clicked nodes to links and notes.
	Maps attrs.Maps

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount     int
	EdgeCount    int
	BindingCount int
	SkippedCount int
	LoadTime     time.Duration
	CompileTime  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks user-supplied names and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForCompile(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad resolves the input format.
func (o *Options) ValidateForLoad() error {
	switch {
	case o.Format != "":
		f, err := flowio.ParseFormat(o.Format)
		if err != nil {
			return err
		}
		o.format = f
	case o.Path != "":
		o.format = flowio.FormatFromPath(o.Path)
	default:
		o.format = flowio.FormatCSV
	}
	o.Format = string(o.format)

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForCompile resolves the theme and orientation.
func (o *Options) ValidateForCompile() error {
	theme, err := mermaid.ParseTheme(o.Theme)
	if err != nil {
		return err
	}
	orientation, err := mermaid.ParseOrientation(o.Orientation)
	if err != nil {
		return err
	}
	o.theme, o.orientation = theme, orientation
	o.Theme, o.Orientation = string(theme), string(orientation)

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// HasInput reports whether the options name an input source.
func (o *Options) HasInput() bool {
	return o.Path != "" || len(o.Data) > 0
}

// CompileOptions returns the validated compiler options.
func (o *Options) CompileOptions() mermaid.Options {
	return mermaid.Options{
		Theme:       o.theme,
		Orientation: o.orientation,
		Strict:      o.Strict,
	}
}
