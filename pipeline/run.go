package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/flatkit/logger"
	"github.com/kbukum/flatkit/observability"
)

const defaultRunName = "pipeline"

// Run statuses reported to logs, spans, and metrics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Runnable is a fully-configured pipeline ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the pipeline until completion or context cancellation.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// RunOption configures how a Runnable reports its runs.
type RunOption func(*runConfig)

type runConfig struct {
	name    string
	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.PipelineMetrics
}

// WithName sets the pipeline name used in logs, span attributes, and metric
// attributes. Defaults to "pipeline".
func WithName(name string) RunOption {
	return func(c *runConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithRunLogger logs the start and the outcome of every run.
func WithRunLogger(l *logger.Logger) RunOption {
	return func(c *runConfig) { c.log = l }
}

// WithTracer wraps every run in a "pipeline.run" span.
func WithTracer(t trace.Tracer) RunOption {
	return func(c *runConfig) { c.tracer = t }
}

// WithRunMetrics records run count, duration, and delivered elements.
func WithRunMetrics(m *observability.PipelineMetrics) RunOption {
	return func(c *runConfig) { c.metrics = m }
}

func newRunConfig(opts []RunOption) *runConfig {
	c := &runConfig{name: defaultRunName}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// execute runs body with the configured reporting around it. body returns the
// number of elements it delivered.
func (c *runConfig) execute(ctx context.Context, body func(context.Context) (int64, error)) error {
	runID := uuid.NewString()
	start := time.Now()

	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.Start(ctx, observability.SpanPipelineRun, trace.WithAttributes(
			attribute.String(observability.AttrPipeline, c.name),
			attribute.String(observability.AttrRunID, runID),
		))
		defer span.End()
	}

	var log *logger.Logger
	if c.log != nil {
		log = c.log.WithFields(logger.Fields(
			logger.FieldOperation, c.name,
			logger.FieldRunID, runID,
		))
		log.Debug("pipeline run started")
	}

	n, err := body(ctx)
	elapsed := time.Since(start)

	status := StatusOK
	if err != nil {
		status = StatusError
	}

	if span != nil {
		span.SetAttributes(
			attribute.Int64(observability.AttrElements, n),
			attribute.String(observability.AttrStatus, status),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}

	if c.metrics != nil {
		c.metrics.RecordRun(ctx, c.name, status, n, elapsed)
	}

	if log != nil {
		fields := logger.Fields(
			logger.FieldStatus, status,
			logger.FieldCount, n,
			logger.FieldDuration, elapsed.Milliseconds(),
		)
		if err != nil {
			log.Error("pipeline run failed", logger.MergeWithError(fields, err))
		} else {
			log.Info("pipeline run finished", fields)
		}
	}
	return err
}

// Drain creates a Runnable that pulls all values and sends each to sink.
// The iterator is closed when the run ends; a Close error is returned if the
// run otherwise succeeded.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error, opts ...RunOption) *Runnable {
	cfg := newRunConfig(opts)
	return &Runnable{
		run: func(ctx context.Context) error {
			return cfg.execute(ctx, func(ctx context.Context) (n int64, err error) {
				it := p.create(ctx)
				defer closeInto(it, &err)
				for {
					val, ok, err := it.Next(ctx)
					if err != nil {
						return n, err
					}
					if !ok {
						return n, nil
					}
					if err := sink(ctx, val); err != nil {
						return n, err
					}
					n++
				}
			})
		},
	}
}

// ForEach runs the pipeline, calling fn for each value.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error, opts ...RunOption) error {
	return Drain(p, fn, opts...).Run(ctx)
}
