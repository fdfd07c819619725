// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about row loading, compilation, editor buffers and HTTP
// requests.
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, so library packages never import a metrics
// backend. See pkg/metrics for the Prometheus implementation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(metrics.Pipeline{})
//	    observability.SetBufferHooks(metrics.Buffers{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnCompileStart(ctx, len(rows))
//	// ... compile ...
//	observability.Pipeline().OnCompileComplete(ctx, diagram.Edges, diagram.Bindings, len(diagram.Warnings), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the load-and-compile pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, format string)
	OnLoadComplete(ctx context.Context, format string, rowCount int, duration time.Duration, err error)

	// Compile events
	OnCompileStart(ctx context.Context, rowCount int)
	OnCompileComplete(ctx context.Context, edges, bindings, warnings int, duration time.Duration, err error)
}

// =============================================================================
// Buffer Hooks
// =============================================================================

// BufferHooks receives events from editor buffer operations.
type BufferHooks interface {
	// OnBufferLoad records a buffer lookup and whether it found one.
	OnBufferLoad(ctx context.Context, backend string, found bool)

	// OnBufferSeed records a seeding and whether it replaced the text.
	OnBufferSeed(ctx context.Context, backend string, replaced bool)

	// OnBufferEdit records a user edit being stored.
	OnBufferEdit(ctx context.Context, backend string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a handler error reported to the client.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnCompileStart(context.Context, int)                                {}
func (NoopPipelineHooks) OnCompileComplete(context.Context, int, int, int, time.Duration, error) {
}

// NoopBufferHooks is a no-op implementation of BufferHooks.
type NoopBufferHooks struct{}

func (NoopBufferHooks) OnBufferLoad(context.Context, string, bool) {}
func (NoopBufferHooks) OnBufferSeed(context.Context, string, bool) {}
func (NoopBufferHooks) OnBufferEdit(context.Context, string, int)  {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	bufferHooks   BufferHooks   = NoopBufferHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetBufferHooks registers custom buffer hooks.
func SetBufferHooks(h BufferHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		bufferHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Buffer returns the registered buffer hooks.
func Buffer() BufferHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return bufferHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	bufferHooks = NoopBufferHooks{}
	httpHooks = NoopHTTPHooks{}
}
