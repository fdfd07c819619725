package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/internal/server"
	"github.com/matzehuels/mermaidflow/pkg/metrics"
	"github.com/matzehuels/mermaidflow/pkg/session"
)

// serveOpts holds serve command options.
type serveOpts struct {
	addr      string        // Listen address
	redisURL  string        // Buffer store; in-memory when empty
	bufferTTL time.Duration // Lifetime of untouched buffers
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive diagram page",
		Long: `Serve starts an HTTP server with a page for uploading rows, rendering the
diagram, editing its source and inspecting clicked nodes. Editor buffers are
kept in memory, or in Redis when --redis-url is set so they survive restarts
and can be shared between instances.

Prometheus metrics are exposed at /metrics.`,
		Example: `  mermaidflow serve
  mermaidflow serve --addr :8080 --redis-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				opts.addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("redis-url") {
				opts.redisURL = cfg.Server.RedisURL
			}
			if !cmd.Flags().Changed("buffer-ttl") {
				opts.bufferTTL = cfg.Server.BufferTTL
			}

			srvCfg := server.Config{
				Addr:        opts.addr,
				Theme:       cfg.Theme,
				Orientation: cfg.Orientation,
				Strict:      cfg.Strict,
				BufferTTL:   opts.bufferTTL,
			}
			return c.runServe(cmd.Context(), srvCfg, opts.redisURL)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, else 127.0.0.1:8080)")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "store buffers in Redis (e.g. redis://localhost:6379/0)")
	cmd.Flags().DurationVar(&opts.bufferTTL, "buffer-ttl", session.DefaultTTL, "lifetime of untouched editor buffers")

	return cmd
}

// runServe opens the buffer store and runs the server until ctx ends.
func (c *CLI) runServe(ctx context.Context, cfg server.Config, redisURL string) error {
	store, backend, err := c.openStore(ctx, redisURL)
	if err != nil {
		return err
	}
	defer store.Close()
	cfg.Backend = backend

	metrics.Register()

	printSuccess("Serving on http://%s", cfg.Addr)
	printKeyValue("Buffers", backend)
	printKeyValue("Buffer TTL", cfg.BufferTTL.String())

	return server.New(cfg, store, c.Logger).Run(ctx)
}

// openStore returns the Redis store when url is set, else an in-memory one.
func (c *CLI) openStore(ctx context.Context, url string) (session.Store, string, error) {
	if url == "" {
		return session.NewMemoryStore(), "memory", nil
	}

	loggerFromContext(ctx).Debug("opening redis buffer store", "url", url)
	spinner := newSpinnerWithContext(ctx, "Connecting to Redis...")
	spinner.Start()
	store, err := session.NewRedisStore(ctx, session.RedisOptions{URL: url})
	if err != nil {
		spinner.StopWithError("Redis unavailable")
		return nil, "", err
	}
	spinner.StopWithSuccess("Connected to Redis")
	return store, "redis", nil
}
