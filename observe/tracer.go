package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps OpenTelemetry tracing with request span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span for one request through the auth chain.
	StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", meta.Method),
		attribute.String("http.route", meta.Route),
	}
	if meta.RequestID != "" {
		attrs = append(attrs, attribute.String("request.id", meta.RequestID))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// NopTracer returns a Tracer that discards everything.
func NopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
