package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/mermaidflow/pkg/observability"
)

func TestRegister(t *testing.T) {
	t.Cleanup(observability.Reset)
	Register()

	if _, ok := observability.Pipeline().(Pipeline); !ok {
		t.Error("pipeline hooks not registered")
	}
	if _, ok := observability.Buffer().(Buffers); !ok {
		t.Error("buffer hooks not registered")
	}
	if _, ok := observability.HTTP().(HTTP); !ok {
		t.Error("HTTP hooks not registered")
	}
}

func TestPipelineHooks(t *testing.T) {
	ctx := context.Background()
	p := Pipeline{}

	before := testutil.ToFloat64(RowsLoaded.WithLabelValues("csv"))
	p.OnLoadComplete(ctx, "csv", 4, time.Millisecond, nil)
	if got := testutil.ToFloat64(RowsLoaded.WithLabelValues("csv")) - before; got != 4 {
		t.Errorf("rows loaded delta = %v, want 4", got)
	}

	beforeErr := testutil.ToFloat64(LoadErrors.WithLabelValues("json"))
	p.OnLoadComplete(ctx, "json", 0, time.Millisecond, errors.New("bad"))
	if got := testutil.ToFloat64(LoadErrors.WithLabelValues("json")) - beforeErr; got != 1 {
		t.Errorf("load errors delta = %v, want 1", got)
	}

	beforeOK := testutil.ToFloat64(Compilations.WithLabelValues("ok"))
	beforeSkipped := testutil.ToFloat64(SkippedRows)
	p.OnCompileComplete(ctx, 3, 2, 1, time.Millisecond, nil)
	if got := testutil.ToFloat64(Compilations.WithLabelValues("ok")) - beforeOK; got != 1 {
		t.Errorf("ok compilations delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SkippedRows) - beforeSkipped; got != 1 {
		t.Errorf("skipped rows delta = %v, want 1", got)
	}
}

func TestBufferAndHTTPHooks(t *testing.T) {
	ctx := context.Background()

	before := testutil.ToFloat64(BufferEvents.WithLabelValues("memory", "seed_kept"))
	Buffers{}.OnBufferSeed(ctx, "memory", false)
	if got := testutil.ToFloat64(BufferEvents.WithLabelValues("memory", "seed_kept")) - before; got != 1 {
		t.Errorf("seed_kept delta = %v, want 1", got)
	}

	beforeReq := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200"))
	HTTP{}.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200")) - beforeReq; got != 1 {
		t.Errorf("requests delta = %v, want 1", got)
	}
}
