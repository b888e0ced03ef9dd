package observe

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Config holds all configuration for the Observer.
type Config struct {
	ServiceName string
	Version     string
	Tracing     TracingConfig
	Metrics     MetricsConfig
	Logging     LoggingConfig
}

// TracingConfig configures the tracing subsystem.
type TracingConfig struct {
	Enabled   bool
	Exporter  string  // otlp|stdout|none
	SamplePct float64 // 0.0-1.0
}

// MetricsConfig configures the metrics subsystem.
type MetricsConfig struct {
	Enabled  bool
	Exporter string // otlp|prometheus|stdout|none
}

// LoggingConfig configures the logging subsystem.
type LoggingConfig struct {
	Enabled bool
	Level   string // debug|info|warn|error
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}
	if c.Tracing.Enabled {
		if !validTracingExporters[c.Tracing.Exporter] {
			return fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.Tracing.Exporter)
		}
		if c.Tracing.SamplePct < 0 || c.Tracing.SamplePct > 1.0 {
			return fmt.Errorf("%w: %f", ErrInvalidSamplePct, c.Tracing.SamplePct)
		}
	}
	if c.Metrics.Enabled && !validMetricsExporters[c.Metrics.Exporter] {
		return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Metrics.Exporter)
	}
	if c.Logging.Enabled && !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	return nil
}

var validTracingExporters = map[string]bool{
	"otlp": true, "stdout": true, "none": true, "": true,
}

var validMetricsExporters = map[string]bool{
	"otlp": true, "prometheus": true, "stdout": true, "none": true, "": true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Observer provides access to telemetry primitives.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Shutdown must honor cancellation/deadlines.
// - Errors: Shutdown should be idempotent and return the first error encountered.
type Observer interface {
	// Tracer returns the configured tracer.
	Tracer() trace.Tracer

	// Meter returns the configured meter.
	Meter() metric.Meter

	// Logger returns the configured logger.
	Logger() Logger

	// Shutdown gracefully shuts down all telemetry providers.
	Shutdown(ctx context.Context) error
}

// Logger is a minimal structured logging interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	WithRequest(meta RequestMeta) Logger
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// RequestMeta identifies one HTTP request in telemetry output.
type RequestMeta struct {
	RequestID string
	Method    string
	Route     string
}

// SpanName returns the deterministic span name for this request.
func (m RequestMeta) SpanName() string {
	return "http.request " + m.Method + " " + m.Route
}

type observer struct {
	tracer         trace.Tracer
	meter          metric.Meter
	logger         Logger
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// NewObserver creates a new Observer with the given configuration.
func NewObserver(ctx context.Context, cfg Config) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	obs := &observer{}

	if cfg.Tracing.Enabled {
		exporter, err := newTracingExporter(ctx, cfg.Tracing.Exporter)
		if err != nil {
			return nil, fmt.Errorf("failed to setup tracing: %w", err)
		}

		var sampler sdktrace.Sampler
		switch {
		case cfg.Tracing.SamplePct >= 1.0:
			sampler = sdktrace.AlwaysSample()
		case cfg.Tracing.SamplePct <= 0:
			sampler = sdktrace.NeverSample()
		default:
			sampler = sdktrace.TraceIDRatioBased(cfg.Tracing.SamplePct)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler),
			sdktrace.WithBatcher(exporter),
		)
		otel.SetTracerProvider(tp)
		obs.tracerProvider = tp
		obs.tracer = tp.Tracer(cfg.ServiceName)
	} else {
		obs.tracer = tracenoop.NewTracerProvider().Tracer("noop")
	}

	if cfg.Metrics.Enabled {
		reader, err := newMetricsReader(ctx, cfg.Metrics.Exporter)
		if err != nil {
			return nil, fmt.Errorf("failed to setup metrics: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		)
		otel.SetMeterProvider(mp)
		obs.meterProvider = mp
		obs.meter = mp.Meter(cfg.ServiceName)
	} else {
		obs.meter = noop.NewMeterProvider().Meter("noop")
	}

	if cfg.Logging.Enabled {
		obs.logger = NewLogger(cfg.Logging.Level)
	} else {
		obs.logger = &noopLogger{}
	}

	return obs, nil
}

func (o *observer) Tracer() trace.Tracer {
	return o.tracer
}

func (o *observer) Meter() metric.Meter {
	return o.meter
}

func (o *observer) Logger() Logger {
	return o.logger
}

func (o *observer) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (l *noopLogger) Info(ctx context.Context, msg string, fields ...Field)  {}
func (l *noopLogger) Warn(ctx context.Context, msg string, fields ...Field)  {}
func (l *noopLogger) Error(ctx context.Context, msg string, fields ...Field) {}
func (l *noopLogger) Debug(ctx context.Context, msg string, fields ...Field) {}
func (l *noopLogger) WithRequest(meta RequestMeta) Logger                    { return l }

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return &noopLogger{} }
