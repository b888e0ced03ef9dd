package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stayops/stayauth/auth"
	"github.com/stayops/stayauth/config"
	"github.com/stayops/stayauth/health"
	"github.com/stayops/stayauth/observe"
)

// Server assembles the router from its collaborators. Construct it with
// NewServer and mount Handler on an http.Server.
type Server struct {
	cfg        *config.Config
	gate       *auth.AuthenticationGate
	logger     observe.Logger
	metrics    observe.Metrics
	checks     *health.Aggregator
	instrument *observe.Middleware
}

// NewServer wires the HTTP surface. Nil logger or metrics degrade to
// no-ops so tests can build a bare server.
func NewServer(cfg *config.Config, gate *auth.AuthenticationGate, logger observe.Logger, metrics observe.Metrics, checks *health.Aggregator) *Server {
	if logger == nil {
		logger = observe.NopLogger()
	}
	if metrics == nil {
		metrics = observe.NopMetrics()
	}
	if checks == nil {
		checks = health.NewAggregator(0)
	}
	return &Server{cfg: cfg, gate: gate, logger: logger, metrics: metrics, checks: checks}
}

// Instrument enables per-route tracing, metrics, and request logging.
// Optional; without it routes serve uninstrumented.
func (s *Server) Instrument(m *observe.Middleware) {
	s.instrument = m
}

// wrap instruments a route handler with its pattern metadata.
func (s *Server) wrap(method, pattern string, h http.Handler) http.Handler {
	if s.instrument == nil {
		return h
	}
	return s.instrument.Wrap(observe.RequestMeta{Method: method, Route: pattern}, h)
}

// Handler compiles the route policy and builds the router. Policy
// errors surface here, at startup, never at request time.
func (s *Server) Handler() (http.Handler, error) {
	rules, err := compilePolicies(s.cfg.Routes)
	if err != nil {
		return nil, err
	}

	opts := auth.MiddlewareOptions{
		ObscureCrossTenant: s.cfg.Auth.ObscureCrossTenant,
		OnReject:           s.onReject,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Recovery(s.logger))

	r.Get("/healthz", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(s.checks))
	r.Get("/health", health.DetailedHandler(s.checks))

	r.Group(func(api chi.Router) {
		api.Use(s.gate.Middleware(opts))

		// Any authenticated principal may ask about itself.
		api.Method(http.MethodGet, "/api/me", s.wrap(http.MethodGet, "/api/me", http.HandlerFunc(handleWhoAmI)))
		api.Method(http.MethodGet, "/api/scope", s.wrap(http.MethodGet, "/api/scope", http.HandlerFunc(handleScope)))

		for _, rule := range rules {
			handler := s.ruleHandler(rule, opts)
			if len(rule.methods) == 0 {
				api.Handle(rule.pattern, s.wrap("", rule.pattern, handler))
				continue
			}
			for _, method := range rule.methods {
				api.Method(method, rule.pattern, s.wrap(method, rule.pattern, handler))
			}
		}
	})

	return r, nil
}

// HTTPServer builds a net/http server with the configured listener
// address and timeouts around the compiled handler.
func (s *Server) HTTPServer() (*http.Server, error) {
	handler, err := s.Handler()
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout(),
		WriteTimeout: s.cfg.WriteTimeout(),
		IdleTimeout:  s.cfg.IdleTimeout(),
	}, nil
}

// ruleHandler stacks the role guard, and for organization-scoped
// patterns the tenant scope check, in front of the resource handler.
func (s *Server) ruleHandler(rule routeRule, opts auth.MiddlewareOptions) http.Handler {
	var handler http.Handler = http.HandlerFunc(handleResource)
	if strings.Contains(rule.pattern, "{orgID}") {
		handler = auth.ScopeMiddleware(RouteScope, opts)(handler)
	}
	return auth.RequireMiddleware(rule.guard, opts)(handler)
}

// onReject records every rejection and denial. The principal identity
// in a denial is already verified, so the audit log carries it in full;
// the client body never does.
func (s *Server) onReject(r *http.Request, err error) {
	meta := observe.RequestMeta{
		RequestID: r.Header.Get("X-Request-ID"),
		Method:    r.Method,
		Route:     routePattern(r),
	}
	logger := s.logger.WithRequest(meta)

	var rej *auth.RejectionError
	if errors.As(err, &rej) {
		s.metrics.RecordRejection(r.Context(), meta, string(rej.Code))
		fields := []observe.Field{{Key: "code", Value: string(rej.Code)}}
		if rej.Cause != nil {
			fields = append(fields, observe.Field{Key: "cause", Value: rej.Cause.Error()})
		}
		logger.Warn(r.Context(), "authentication rejected", fields...)
		return
	}

	var denial *auth.DenialError
	if errors.As(err, &denial) {
		s.metrics.RecordRejection(r.Context(), meta, string(auth.CodeForbidden))
		fields := []observe.Field{
			{Key: "reason", Value: string(denial.Reason)},
			{Key: "principal_id", Value: denial.PrincipalID},
			{Key: "role", Value: string(denial.Have)},
		}
		if len(denial.Want) > 0 {
			fields = append(fields, observe.Field{Key: "required", Value: denial.Want.String()})
		}
		if !denial.ResourceScope.IsZero() {
			fields = append(fields, observe.Field{Key: "resource_scope", Value: denial.ResourceScope.String()})
		}
		logger.Warn(r.Context(), "authorization denied", fields...)
		return
	}

	s.metrics.RecordRejection(r.Context(), meta, string(auth.CodeAuthRequired))
	logger.Warn(r.Context(), "request rejected", observe.Field{Key: "error", Value: err.Error()})
}

// routePattern resolves the chi pattern for the matched route, falling
// back to the raw path before routing has happened.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
