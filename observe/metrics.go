package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records request and auth-decision metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records one completed HTTP request.
	RecordRequest(ctx context.Context, meta RequestMeta, status int, duration time.Duration)

	// RecordRejection records one authentication rejection or authorization
	// denial, by code.
	RecordRejection(ctx context.Context, meta RequestMeta, code string)
}

type metricsImpl struct {
	requestCount   metric.Int64Counter
	rejectionCount metric.Int64Counter
	durationHist   metric.Float64Histogram
}

// NewMetrics creates a Metrics instance on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	requestCount, err := meter.Int64Counter(
		"auth.requests.total",
		metric.WithDescription("Total number of HTTP requests through the auth chain"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	rejectionCount, err := meter.Int64Counter(
		"auth.rejections.total",
		metric.WithDescription("Total number of authentication rejections and authorization denials"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"auth.request.duration_ms",
		metric.WithDescription("Request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		requestCount:   requestCount,
		rejectionCount: rejectionCount,
		durationHist:   durationHist,
	}, nil
}

func (m *metricsImpl) RecordRequest(ctx context.Context, meta RequestMeta, status int, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("route", meta.Route),
		attribute.String("method", meta.Method),
		attribute.Int("status", status),
	)
	m.requestCount.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordRejection(ctx context.Context, meta RequestMeta, code string) {
	m.rejectionCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", meta.Route),
		attribute.String("method", meta.Method),
		attribute.String("code", code),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordRequest(context.Context, RequestMeta, int, time.Duration) {}
func (noopMetrics) RecordRejection(context.Context, RequestMeta, string)           {}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics { return noopMetrics{} }
