package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// BearerToken extracts the bearer token from an Authorization header.
// Absence, a wrong scheme, or an empty token all report ErrMissingCredential;
// the carrier being unusable is indistinguishable from it being absent.
func BearerToken(h http.Header) (string, error) {
	value := h.Get("Authorization")
	if value == "" {
		return "", ErrMissingCredential
	}
	scheme, token, found := strings.Cut(value, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingCredential
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingCredential
	}
	return token, nil
}

// MiddlewareOptions tune the HTTP adapters.
type MiddlewareOptions struct {
	// ObscureCrossTenant renders cross-tenant denials as 404 instead of 403
	// so the existence of another tenant's resource is not confirmed. An
	// explicit per-router policy choice; default off.
	ObscureCrossTenant bool

	// OnReject is invoked with every rejection or denial before the response
	// is written. Observability hook; may be nil.
	OnReject func(r *http.Request, err error)
}

func (o MiddlewareOptions) reject(r *http.Request, err error) {
	if o.OnReject != nil {
		o.OnReject(r, err)
	}
}

// errorBody is the generic JSON body for rejected requests. The code field
// is stable for client branching; the message carries no internal detail.
type errorBody struct {
	Code    RejectionCode `json:"code"`
	Message string        `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code RejectionCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Code: code, Message: message})
}

// WriteRejection writes the 401 response for an authentication failure.
// Only the public form of the code is exposed.
func WriteRejection(w http.ResponseWriter, err error) {
	code := CodeAuthRequired
	var rej *RejectionError
	if errors.As(err, &rej) {
		code = rej.Public()
	}
	writeError(w, http.StatusUnauthorized, code, "authentication required")
}

// WriteDenial writes the 403 (or, when obscured, 404) response for an
// authorization failure. The denial detail stays server-side.
func WriteDenial(w http.ResponseWriter, r *http.Request, err error, obscure bool) {
	var denial *DenialError
	if obscure && errors.As(err, &denial) && denial.Reason == ReasonCrossTenantAccess {
		http.NotFound(w, r)
		return
	}
	writeError(w, http.StatusForbidden, CodeForbidden, "access denied")
}

// Middleware authenticates every request through the gate and attaches the
// resolved principal to the request context. Rejections end the request with
// a generic 401.
func (g *AuthenticationGate) Middleware(opts MiddlewareOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r.Header)
			if err != nil {
				err = Reject(CodeAuthRequired, ErrMissingCredential)
				opts.reject(r, err)
				WriteRejection(w, err)
				return
			}

			principal, err := g.Authenticate(r.Context(), token)
			if err != nil {
				opts.reject(r, err)
				WriteRejection(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireMiddleware applies a guard to the principal attached upstream.
// A missing principal is an authentication failure, not a denial.
func RequireMiddleware(guard Guard, opts MiddlewareOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				err := Reject(CodeAuthRequired, ErrMissingCredential)
				opts.reject(r, err)
				WriteRejection(w, err)
				return
			}
			if err := guard.Authorize(r.Context(), p); err != nil {
				opts.reject(r, err)
				WriteDenial(w, r, err, opts.ObscureCrossTenant)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ScopeExtractor derives the tenant scope of the requested resource, usually
// from route parameters.
type ScopeExtractor func(r *http.Request) TenantScope

// ScopeMiddleware enforces tenant isolation against the resource scope.
// Applied after the role guard and before the handler touches any
// tenant-scoped data.
func ScopeMiddleware(extract ScopeExtractor, opts MiddlewareOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				err := Reject(CodeAuthRequired, ErrMissingCredential)
				opts.reject(r, err)
				WriteRejection(w, err)
				return
			}
			if err := EnforceScope(p, extract(r)); err != nil {
				opts.reject(r, err)
				WriteDenial(w, r, err, opts.ObscureCrossTenant)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
