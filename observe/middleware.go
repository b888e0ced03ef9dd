package observe

import (
	"net/http"
	"time"
)

// Middleware wraps HTTP handling with tracing, metrics, and request logging.
//
// Contract:
//   - Concurrency: Wrap() returns a handler safe for concurrent use.
//   - Context: the span context is propagated to the wrapped handler.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware from observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// RecordSink exposes the middleware's metrics sink so rejection hooks can
// share it.
func (m *Middleware) RecordSink() Metrics {
	return m.metrics
}

// Wrap instruments a handler for the given route metadata. RequestID is
// filled per request from the X-Request-ID header when present.
func (m *Middleware) Wrap(meta RequestMeta, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := meta
		meta.RequestID = r.Header.Get("X-Request-ID")

		ctx, span := m.tracer.StartSpan(r.Context(), meta)
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		duration := time.Since(start)
		m.tracer.EndSpan(span, nil)
		m.metrics.RecordRequest(ctx, meta, sw.status, duration)

		logger := m.logger.WithRequest(meta)
		fields := []Field{
			{Key: "status", Value: sw.status},
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		switch {
		case sw.status >= http.StatusInternalServerError:
			logger.Error(ctx, "request failed", fields...)
		case sw.status == http.StatusUnauthorized || sw.status == http.StatusForbidden:
			logger.Warn(ctx, "request rejected", fields...)
		default:
			logger.Info(ctx, "request completed", fields...)
		}
	})
}

// statusWriter captures the response status for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
