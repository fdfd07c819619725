// Package metrics implements the observability hooks with Prometheus
// collectors.
//
// Collectors are registered with the default registry through promauto, so
// exposing them is a matter of mounting promhttp.Handler(). Call [Register]
// once at startup to route hook events into them.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/mermaidflow/pkg/observability"
)

var (
	// RowsLoaded counts rows read from input, by format.
	RowsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mermaidflow_rows_loaded_total",
			Help: "Total number of input rows loaded",
		},
		[]string{"format"},
	)

	// LoadErrors counts failed loads, by format.
	LoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mermaidflow_load_errors_total",
			Help: "Total number of failed input loads",
		},
		[]string{"format"},
	)

	// Compilations counts compile runs by outcome.
	Compilations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mermaidflow_compilations_total",
			Help: "Total number of diagram compilations",
		},
		[]string{"outcome"},
	)

	// CompileDuration measures compile time.
	CompileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mermaidflow_compile_duration_seconds",
			Help:    "Duration of diagram compilation in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// SkippedRows counts malformed rows skipped in lenient mode.
	SkippedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mermaidflow_skipped_rows_total",
			Help: "Total number of malformed rows skipped during compilation",
		},
	)

	// BufferEvents counts editor buffer operations.
	BufferEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mermaidflow_buffer_events_total",
			Help: "Total number of editor buffer operations",
		},
		[]string{"backend", "event"},
	)

	// HTTPRequestsTotal counts requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mermaidflow_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures server response time.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mermaidflow_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// HTTPErrors counts handler errors reported to clients.
	HTTPErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mermaidflow_http_errors_total",
			Help: "Total number of HTTP handler errors",
		},
		[]string{"method", "route"},
	)
)

// Register installs the Prometheus hooks in the observability registry.
func Register() {
	observability.SetPipelineHooks(Pipeline{})
	observability.SetBufferHooks(Buffers{})
	observability.SetHTTPHooks(HTTP{})
}

// Pipeline records load and compile events.
type Pipeline struct{ observability.NoopPipelineHooks }

func (Pipeline) OnLoadComplete(_ context.Context, format string, rows int, _ time.Duration, err error) {
	if err != nil {
		LoadErrors.WithLabelValues(format).Inc()
		return
	}
	RowsLoaded.WithLabelValues(format).Add(float64(rows))
}

func (Pipeline) OnCompileComplete(_ context.Context, _, _, warnings int, d time.Duration, err error) {
	CompileDuration.Observe(d.Seconds())
	if err != nil {
		Compilations.WithLabelValues("error").Inc()
		return
	}
	Compilations.WithLabelValues("ok").Inc()
	SkippedRows.Add(float64(warnings))
}

// Buffers records editor buffer events.
type Buffers struct{}

func (Buffers) OnBufferLoad(_ context.Context, backend string, found bool) {
	event := "miss"
	if found {
		event = "hit"
	}
	BufferEvents.WithLabelValues(backend, event).Inc()
}

func (Buffers) OnBufferSeed(_ context.Context, backend string, replaced bool) {
	event := "seed_kept"
	if replaced {
		event = "seed_replaced"
	}
	BufferEvents.WithLabelValues(backend, event).Inc()
}

func (Buffers) OnBufferEdit(_ context.Context, backend string, _ int) {
	BufferEvents.WithLabelValues(backend, "edit").Inc()
}

// HTTP records server request events.
type HTTP struct{ observability.NoopHTTPHooks }

func (HTTP) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (HTTP) OnError(_ context.Context, method, route string, _ error) {
	HTTPErrors.WithLabelValues(method, route).Inc()
}
