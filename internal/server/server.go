// Package server implements `mermaidflow serve`: a small HTTP front end that
// compiles uploaded rows, keeps an editable buffer per browser session and
// resolves node clicks reported by the page's Mermaid renderer.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/mermaidflow/pkg/pipeline"
	"github.com/matzehuels/mermaidflow/pkg/session"
)

//go:embed static/*
var static embed.FS

// Defaults for Config fields left zero.
const (
	DefaultMaxBodyBytes    = 10 << 20
	DefaultCleanupInterval = 10 * time.Minute
	shutdownTimeout        = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// Defaults applied when a request omits theme, orientation or strict.
	Theme       string
	Orientation string
	Strict      bool

	// BufferTTL is the lifetime of an untouched editor buffer.
	BufferTTL time.Duration

	// Backend names the buffer store in logs and metrics.
	Backend string

	// MaxBodyBytes limits uploaded input size.
	MaxBodyBytes int64

	// CleanupInterval is how often expired buffers are purged.
	CleanupInterval time.Duration
}

// Server holds the HTTP handler and its dependencies.
type Server struct {
	cfg    Config
	store  session.Store
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server using store for editor buffers.
func New(cfg Config, store session.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.BufferTTL <= 0 {
		cfg.BufferTTL = session.DefaultTTL
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.Backend == "" {
		cfg.Backend = "memory"
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		runner: pipeline.NewRunner(logger),
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	// Recoverer sits inside the logging middleware so panics are logged as 500s.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/compile", s.handleCompile)
		r.Post("/resolve", s.handleResolve)
		r.Get("/template", s.handleTemplate)
		r.Get("/buffers/{id}", s.handleGetBuffer)
		r.Put("/buffers/{id}", s.handlePutBuffer)
		r.Delete("/buffers/{id}", s.handleDeleteBuffer)
	})

	fsys, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/*", http.FileServer(http.FS(fsys)))

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanupLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "buffers", s.cfg.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("buffer cleanup failed", "err", err)
			}
		}
	}
}
