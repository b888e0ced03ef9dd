package observe

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newTracingExporter creates a span exporter by name: stdout, otlp, none.
func newTracingExporter(ctx context.Context, name string) (sdktrace.SpanExporter, error) {
	switch name {
	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))

	case "otlp":
		if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" &&
			os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") == "" {
			return nil, fmt.Errorf("%w: set OTEL_EXPORTER_OTLP_ENDPOINT", ErrEndpointNotConfigured)
		}
		return otlptracegrpc.New(ctx)

	case "none", "":
		return stdouttrace.New(stdouttrace.WithWriter(io.Discard))

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTracingExporter, name)
	}
}

// newMetricsReader creates a metrics reader by name: stdout, otlp,
// prometheus, none.
func newMetricsReader(ctx context.Context, name string) (sdkmetric.Reader, error) {
	switch name {
	case "stdout":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "otlp":
		if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" &&
			os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT") == "" {
			return nil, fmt.Errorf("%w: set OTEL_EXPORTER_OTLP_ENDPOINT", ErrEndpointNotConfigured)
		}
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "prometheus":
		exp, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		return exp, nil

	case "none", "":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(io.Discard))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, name)
	}
}
