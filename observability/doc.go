// Package observability provides OpenTelemetry tracing and metrics for
// flatteners and pipelines.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	fm, err := observability.NewFlattenMetrics(observability.Meter("flatkit"))
//	f := flatten.Slices(data, flatten.WithObserver(flatten.MetricsObserver(ctx, fm)))
//
//	pm, err := observability.NewPipelineMetrics(observability.Meter("flatkit"))
//	pipeline.Drain(p, sink, pipeline.WithRunMetrics(pm)).Run(ctx)
package observability
