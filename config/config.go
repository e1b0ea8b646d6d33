package config

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/flatkit/errors"
	"github.com/kbukum/flatkit/flatten"
	"github.com/kbukum/flatkit/logger"
	"github.com/kbukum/flatkit/observability"
	"github.com/kbukum/flatkit/pipeline"
)

// Config is the configuration of an application built on flatkit.
//
// Example config.yml:
//
//	name: ingest
//	environment: production
//	logging:
//	  level: info
//	  format: json
//	flatten:
//	  trace: false
//	  meter_name: ingest/flatten
//	pipeline:
//	  batch_size: 64
//	  batch_timeout: 250ms
//	  tracer_name: ingest/pipeline
//	tracing:
//	  endpoint: otel-collector:4318
//	  sample_rate: 0.1
type Config struct {
	Name        string         `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string         `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Logging     logger.Config  `yaml:"logging" mapstructure:"logging"`
	Flatten     FlattenConfig  `yaml:"flatten" mapstructure:"flatten"`
	Pipeline    PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`

	// Tracing and Metrics enable OTLP export when present.
	Tracing *observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics *observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// FlattenConfig controls observation of flatteners.
type FlattenConfig struct {
	// Trace logs every cursor transition at debug level.
	Trace bool `yaml:"trace" mapstructure:"trace"`
	// MeterName enables cursor transition counters on the named meter.
	MeterName string `yaml:"meter_name" mapstructure:"meter_name"`
}

// PipelineConfig controls pipeline runs.
type PipelineConfig struct {
	// Name labels runs in logs, spans, and metrics. Defaults to Config.Name.
	Name         string        `yaml:"name" mapstructure:"name"`
	BatchSize    int           `yaml:"batch_size" mapstructure:"batch_size" validate:"gte=0"`
	BatchTimeout time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout" validate:"gte=0"`
	// TracerName enables a span per run on the named tracer.
	TracerName string `yaml:"tracer_name" mapstructure:"tracer_name"`
	// MeterName enables run metrics on the named meter.
	MeterName string `yaml:"meter_name" mapstructure:"meter_name"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Pipeline.Name == "" {
		c.Pipeline.Name = c.Name
	}
	c.Logging.ApplyDefaults()
	if c.Tracing != nil {
		d := observability.DefaultTracerConfig(c.Name)
		if c.Tracing.ServiceName == "" {
			c.Tracing.ServiceName = d.ServiceName
		}
		if c.Tracing.ServiceVersion == "" {
			c.Tracing.ServiceVersion = d.ServiceVersion
		}
		if c.Tracing.Environment == "" {
			c.Tracing.Environment = c.Environment
		}
		if c.Tracing.Endpoint == "" {
			c.Tracing.Endpoint = d.Endpoint
		}
	}
	if c.Metrics != nil {
		d := observability.DefaultMeterConfig(c.Name)
		if c.Metrics.ServiceName == "" {
			c.Metrics.ServiceName = d.ServiceName
		}
		if c.Metrics.ServiceVersion == "" {
			c.Metrics.ServiceVersion = d.ServiceVersion
		}
		if c.Metrics.Environment == "" {
			c.Metrics.Environment = c.Environment
		}
		if c.Metrics.Endpoint == "" {
			c.Metrics.Endpoint = d.Endpoint
		}
		if c.Metrics.Interval == 0 {
			c.Metrics.Interval = d.Interval
		}
	}
}

// Validate checks the struct tags and the logging section. Failures are
// returned as an *errors.AppError with code INVALID_CONFIG.
func (c *Config) Validate() error {
	if err := validateStruct(c.Name, c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.InvalidConfig(c.Name, err).WithDetail("section", "logging")
	}
	return nil
}

// Load loads, defaults, and validates the configuration for name, then
// installs the logging section as the global logger.
func Load(name string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := LoadConfig(name, cfg, opts...); err != nil {
		return nil, errors.InvalidConfig(name, err)
	}
	if cfg.Name == "" {
		cfg.Name = name
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Init(&cfg.Logging)
	return cfg, nil
}

// Batch groups p by the pipeline section's batch size and timeout. A negative
// size or timeout is an INVALID_INPUT error; both zero batches one value at a
// time.
func Batch[T any](c *Config, p *pipeline.Pipeline[T]) (*pipeline.Pipeline[[]T], error) {
	if c.Pipeline.BatchSize < 0 {
		return nil, errors.InvalidInput("pipeline.batch_size", "must not be negative")
	}
	if c.Pipeline.BatchTimeout < 0 {
		return nil, errors.InvalidInput("pipeline.batch_timeout", "must not be negative")
	}
	return pipeline.Batch(p, c.Pipeline.BatchSize, c.Pipeline.BatchTimeout), nil
}

// Logger creates a logger for component from the logging section.
func (c *Config) Logger(component string) *logger.Logger {
	return logger.New(&c.Logging, component)
}

// FlattenOptions builds the flatten options the configuration asks for.
// The metrics observer records against ctx.
func (c *Config) FlattenOptions(ctx context.Context) ([]flatten.Option, error) {
	var opts []flatten.Option
	if c.Flatten.Trace {
		lc := c.Logging
		lc.Level = "debug"
		if obs := flatten.LogObserver(logger.New(&lc, "flatten")); obs != nil {
			opts = append(opts, flatten.WithObserver(obs))
		}
	}
	if c.Flatten.MeterName != "" {
		m, err := observability.NewFlattenMetrics(observability.Meter(c.Flatten.MeterName))
		if err != nil {
			return nil, fmt.Errorf("flatten metrics: %w", err)
		}
		opts = append(opts, flatten.WithObserver(flatten.MetricsObserver(ctx, m)))
	}
	return opts, nil
}

// RunOptions builds the pipeline run options the configuration asks for.
// Runs are always logged through the logging section.
func (c *Config) RunOptions() ([]pipeline.RunOption, error) {
	opts := []pipeline.RunOption{
		pipeline.WithName(c.Pipeline.Name),
		pipeline.WithRunLogger(c.Logger("pipeline")),
	}
	if c.Pipeline.TracerName != "" {
		opts = append(opts, pipeline.WithTracer(observability.Tracer(c.Pipeline.TracerName)))
	}
	if c.Pipeline.MeterName != "" {
		m, err := observability.NewPipelineMetrics(observability.Meter(c.Pipeline.MeterName))
		if err != nil {
			return nil, fmt.Errorf("pipeline metrics: %w", err)
		}
		opts = append(opts, pipeline.WithRunMetrics(m))
	}
	return opts, nil
}

// InitObservability installs the global OTLP tracer and meter providers for
// the sections that are present. The returned function shuts them down and is
// safe to call when nothing was installed.
func (c *Config) InitObservability(ctx context.Context) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var firstErr error
		for _, fn := range shutdowns {
			if err := fn(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	if c.Tracing != nil {
		tp, err := observability.InitTracer(ctx, c.Tracing)
		if err != nil {
			return shutdown, errors.InvalidConfig(c.Name, err).WithDetail("section", "tracing")
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if c.Metrics != nil {
		mp, err := observability.InitMeter(ctx, c.Metrics)
		if err != nil {
			return shutdown, errors.InvalidConfig(c.Name, err).WithDetail("section", "metrics")
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}
	return shutdown, nil
}
