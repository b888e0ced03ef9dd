package auth

import "context"

// Context keys for auth-related values.
type contextKey int

const principalKey contextKey = iota

// WithPrincipal returns a new context with the principal attached. The
// attachment is the only channel handlers receive identity through; they
// cannot forge or replace it without producing a new context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the principal from the context.
// Returns nil if no principal is attached.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}
