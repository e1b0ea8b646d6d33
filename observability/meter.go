package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/flatkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the global OpenTelemetry meter provider with an OTLP
// HTTP exporter. The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// FlattenMetrics counts cursor transitions of flatteners.
type FlattenMetrics struct {
	innerOpened    metric.Int64Counter
	innerExhausted metric.Int64Counter
	end            metric.Int64Counter
}

// NewFlattenMetrics creates flatten instruments on the given meter.
func NewFlattenMetrics(meter metric.Meter) (*FlattenMetrics, error) {
	innerOpened, err := meter.Int64Counter(MetricInnerOpened,
		metric.WithDescription("Inner sequences pulled from the outer sequence"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricInnerOpened, err)
	}

	innerExhausted, err := meter.Int64Counter(MetricInnerExhausted,
		metric.WithDescription("Inner sequences drained to exhaustion"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricInnerExhausted, err)
	}

	end, err := meter.Int64Counter(MetricEnd,
		metric.WithDescription("End-of-sequence signals returned"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricEnd, err)
	}

	return &FlattenMetrics{
		innerOpened:    innerOpened,
		innerExhausted: innerExhausted,
		end:            end,
	}, nil
}

// RecordInnerOpened counts one inner sequence installed as a cursor.
func (m *FlattenMetrics) RecordInnerOpened(ctx context.Context, direction string) {
	m.innerOpened.Add(ctx, 1, directionAttr(direction))
}

// RecordInnerExhausted counts one cursor cleared after running dry.
func (m *FlattenMetrics) RecordInnerExhausted(ctx context.Context, direction string) {
	m.innerExhausted.Add(ctx, 1, directionAttr(direction))
}

// RecordEnd counts one end-of-sequence signal.
func (m *FlattenMetrics) RecordEnd(ctx context.Context, direction string) {
	m.end.Add(ctx, 1, directionAttr(direction))
}

func directionAttr(direction string) metric.AddOption {
	return metric.WithAttributes(attribute.String(AttrDirection, direction))
}

// PipelineMetrics records pipeline runs.
type PipelineMetrics struct {
	runTotal    metric.Int64Counter
	runDuration metric.Float64Histogram
	elements    metric.Int64Counter
}

// NewPipelineMetrics creates pipeline instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runTotal, err := meter.Int64Counter(MetricRunTotal,
		metric.WithDescription("Total number of pipeline runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRunTotal, err)
	}

	runDuration, err := meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRunDuration, err)
	}

	elements, err := meter.Int64Counter(MetricElements,
		metric.WithDescription("Elements delivered to pipeline sinks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricElements, err)
	}

	return &PipelineMetrics{
		runTotal:    runTotal,
		runDuration: runDuration,
		elements:    elements,
	}, nil
}

// RecordRun records one finished run of the named pipeline.
func (m *PipelineMetrics) RecordRun(ctx context.Context, name, status string, elements int64, duration time.Duration) {
	m.runTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrPipeline, name),
		attribute.String(AttrStatus, status),
	))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrPipeline, name),
	))
	m.elements.Add(ctx, elements, metric.WithAttributes(
		attribute.String(AttrPipeline, name),
	))
}

// Instrument names.
const (
	MetricInnerOpened    = "flatten.inner.opened"
	MetricInnerExhausted = "flatten.inner.exhausted"
	MetricEnd            = "flatten.end"
	MetricRunTotal       = "pipeline.run.total"
	MetricRunDuration    = "pipeline.run.duration"
	MetricElements       = "pipeline.elements"
)
