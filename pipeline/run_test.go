package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/flatkit/logger"
	"github.com/kbukum/flatkit/observability"
)

func discard(context.Context, int) error { return nil }

func TestDrain_Tracer(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	p := Flatten(iters([]int{1, 2}, nil, []int{3}))
	err := Drain(p, discard, WithName("rows"), WithTracer(tp.Tracer("test"))).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != observability.SpanPipelineRun {
		t.Errorf("span name = %q, want %q", span.Name(), observability.SpanPipelineRun)
	}
	attrs := attrMap(span.Attributes())
	if attrs[observability.AttrPipeline].AsString() != "rows" {
		t.Errorf("pipeline attr = %v", attrs[observability.AttrPipeline])
	}
	if attrs[observability.AttrElements].AsInt64() != 3 {
		t.Errorf("elements attr = %v, want 3", attrs[observability.AttrElements])
	}
	if attrs[observability.AttrStatus].AsString() != StatusOK {
		t.Errorf("status attr = %v", attrs[observability.AttrStatus])
	}
	if id := attrs[observability.AttrRunID].AsString(); len(id) != 36 {
		t.Errorf("run id %q is not a uuid", id)
	}
}

func TestDrain_TracerRecordsError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	boom := errors.New("boom")
	err := Drain(FromSlice([]int{1}), func(context.Context, int) error { return boom },
		WithTracer(tp.Tracer("test"))).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected the error to be recorded as a span event")
	}
}

func TestDrain_RunIDsAreUnique(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	r := Drain(FromSlice([]int{1}), discard, WithTracer(tp.Tracer("test")))
	for i := 0; i < 2; i++ {
		if err := r.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	a := attrMap(spans[0].Attributes())[observability.AttrRunID].AsString()
	b := attrMap(spans[1].Attributes())[observability.AttrRunID].AsString()
	if a == b {
		t.Errorf("expected distinct run ids, both were %q", a)
	}
}

func TestDrain_Logger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, &buf, "pipeline")

	err := Drain(FromSlice([]int{1, 2}), discard, WithName("numbers"), WithRunLogger(log)).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	var started, finished map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &started); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &finished); err != nil {
		t.Fatal(err)
	}
	if started["message"] != "pipeline run started" {
		t.Errorf("first message = %v", started["message"])
	}
	if finished["message"] != "pipeline run finished" {
		t.Errorf("second message = %v", finished["message"])
	}
	if finished[logger.FieldOperation] != "numbers" {
		t.Errorf("operation = %v, want numbers", finished[logger.FieldOperation])
	}
	if finished[logger.FieldCount] != float64(2) {
		t.Errorf("count = %v, want 2", finished[logger.FieldCount])
	}
	if started[logger.FieldRunID] == nil || started[logger.FieldRunID] != finished[logger.FieldRunID] {
		t.Errorf("run id mismatch: %v vs %v", started[logger.FieldRunID], finished[logger.FieldRunID])
	}
}

func TestDrain_LoggerError(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: logger.FormatJSON}, &buf, "pipeline")

	boom := errors.New("boom")
	_ = Drain(FromSlice([]int{1}), func(context.Context, int) error { return boom }, WithRunLogger(log)).Run(context.Background())

	out := strings.TrimSpace(buf.String())
	if strings.Count(out, "\n") != 0 {
		t.Fatalf("expected a single line at info level, got %q", out)
	}
	if !strings.Contains(out, `"level":"error"`) || !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("unexpected log line %q", out)
	}
}

func TestDrain_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := observability.NewPipelineMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	p := Flatten(iters([]int{1, 2}, []int{3}))
	if err := ForEach(ctx, p, discard, WithName("rows"), WithRunMetrics(m)); err != nil {
		t.Fatal(err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := counterTotal(rm, observability.MetricRunTotal); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
	if got := counterTotal(rm, observability.MetricElements); got != 3 {
		t.Errorf("elements = %d, want 3", got)
	}
}

func TestWithName_EmptyKeepsDefault(t *testing.T) {
	cfg := newRunConfig([]RunOption{WithName("")})
	if cfg.name != defaultRunName {
		t.Errorf("name = %q, want %q", cfg.name, defaultRunName)
	}
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func counterTotal(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if md.Name != name || !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}
