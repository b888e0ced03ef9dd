package auth

import (
	"context"
	"errors"
	"time"

	"github.com/stayops/stayauth/resilience"
)

// RevocationStore tracks tokens invalidated before their natural expiry,
// keyed by subject and issuance time so one compromised token can be killed
// without touching the subject's later sessions.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent reads.
// - Context: IsRevoked must honor cancellation/deadlines.
type RevocationStore interface {
	// IsRevoked reports whether the token identified by (subjectID,
	// issuedAt) has been revoked.
	IsRevoked(ctx context.Context, subjectID string, issuedAt time.Time) (bool, error)
}

// GateConfig configures the authentication gate.
type GateConfig struct {
	// StoreTimeout bounds each collaborator lookup (revocation check,
	// principal resolution). Default: resilience.DefaultTimeout.
	StoreTimeout time.Duration
}

// AuthenticationGate performs the per-request authentication pass:
// verify the token, consult the revocation denylist, resolve the principal.
//
// A request moves through token-extracted, verified, and resolved states and
// short-circuits to rejected at the first failure. Every failure is reported
// as a *RejectionError carrying exactly one RejectionCode; internal causes
// stay inside the error for logs and never reach clients. Lookups that
// exceed StoreTimeout fail closed with UPSTREAM_TIMEOUT.
type AuthenticationGate struct {
	codec       *TokenCodec
	resolver    *PrincipalResolver
	revocations RevocationStore
	timeout     *resilience.Timeout
}

// NewAuthenticationGate creates a gate from its collaborators.
func NewAuthenticationGate(codec *TokenCodec, resolver *PrincipalResolver, revocations RevocationStore, cfg GateConfig) *AuthenticationGate {
	return &AuthenticationGate{
		codec:       codec,
		resolver:    resolver,
		revocations: revocations,
		timeout:     resilience.NewTimeout(resilience.TimeoutConfig{Timeout: cfg.StoreTimeout}),
	}
}

// Authenticate verifies a bearer token and returns the resolved principal.
//
// The returned principal is an immutable snapshot; the gate performs no side
// effects beyond the lookups and never refreshes or rewrites the token.
func (g *AuthenticationGate) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, Reject(CodeAuthRequired, ErrMissingCredential)
	}

	claims, err := g.codec.Decode(token)
	if err != nil {
		return nil, asRejection(err)
	}

	var revoked bool
	err = g.timeout.Execute(ctx, func(ctx context.Context) error {
		var rerr error
		revoked, rerr = g.revocations.IsRevoked(ctx, claims.Subject, claims.IssuedAt.Time)
		return rerr
	})
	if err != nil {
		// Any revocation-store failure fails closed.
		return nil, RejectCause(CodeUpstreamTimeout, ErrUpstreamTimeout, err)
	}
	if revoked {
		return nil, Reject(CodeTokenRevoked, ErrTokenRevoked)
	}

	var principal *Principal
	err = g.timeout.Execute(ctx, func(ctx context.Context) error {
		var rerr error
		principal, rerr = g.resolver.Resolve(ctx, claims)
		return rerr
	})
	if err != nil {
		return nil, asRejection(err)
	}
	return principal, nil
}

// asRejection normalizes any authentication-path failure into a
// *RejectionError so no collaborator detail leaks past the gate.
func asRejection(err error) *RejectionError {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej
	}
	// Timeouts and unexpected store failures both fail closed.
	return RejectCause(CodeUpstreamTimeout, ErrUpstreamTimeout, err)
}
