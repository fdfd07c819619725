package cli

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/internal/config"
	"github.com/matzehuels/mermaidflow/pkg/buildinfo"
	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/pipeline"
	"github.com/matzehuels/mermaidflow/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "mermaidflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag value; empty means the default path.
	ConfigPath string

	// Verbose is the --verbose flag value; it raises the log level to debug.
	Verbose bool

	config *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Mermaidflow turns edge tables into clickable Mermaid flowcharts",
		Long: `Mermaidflow compiles a table of edges (from_id, to_id, labels, connector,
tooltip, url, notes) into Mermaid flowchart source with click bindings, and
resolves clicked nodes back to their links and notes.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/mermaidflow/config.toml)")

	root.AddCommand(c.compileCommand())
	root.AddCommand(c.mapsCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.bufferCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// bufferDir returns the directory holding the CLI's editor buffer
// (~/.config/mermaidflow/buffers/ unless XDG_CONFIG_HOME is set).
func bufferDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "buffers"), nil
}

// openBuffer opens the CLI buffer store.
func openBuffer() (*session.CLIStore, error) {
	dir, err := bufferDir()
	if err != nil {
		return nil, err
	}
	return session.NewCLIStore(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// flowFlags are the input and compile flags shared by several commands.
type flowFlags struct {
	format      string
	theme       string
	orientation string
	strict      bool
}

func (f *flowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "input format: csv, json, yaml (default: from file extension)")
	cmd.Flags().StringVar(&f.theme, "theme", "", "diagram theme: default, dark, neutral, forest")
	cmd.Flags().StringVar(&f.orientation, "orientation", "", "layout direction: TD or LR")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on malformed rows instead of skipping them")
	registerFlowCompletions(cmd)
}

// options merges flags over the config file. A path of "" or "-" is the
// sample flow and stdin respectively.
func (c *CLI) options(cmd *cobra.Command, path string, f flowFlags) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Path:        path,
		Format:      f.format,
		Theme:       cfg.Theme,
		Orientation: cfg.Orientation,
		Strict:      cfg.Strict || f.strict,
		Logger:      c.Logger,
	}
	if f.theme != "" {
		opts.Theme = f.theme
	}
	if f.orientation != "" {
		opts.Orientation = f.orientation
	}

	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return pipeline.Options{}, err
		}
		if len(data) == 0 {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "no input on stdin")
		}
		opts.Path = ""
		opts.Data = data
	}
	return opts, nil
}
