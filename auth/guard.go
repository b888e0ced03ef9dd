package auth

import "context"

// Guard decides whether a resolved principal may proceed.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: a denial is a *DenialError; nil means allowed. Decisions are a
//   pure function of the principal and the guard's own configuration.
type Guard interface {
	// Authorize returns nil if the principal may proceed.
	Authorize(ctx context.Context, p *Principal) error

	// Name returns a unique identifier for this guard.
	Name() string
}

// RoleGuard allows principals whose role is a member of an explicit set.
// There is no hierarchy fallback: "manager or above" must enumerate
// {manager, owner, super_admin}.
type RoleGuard struct {
	required RoleSet
}

// RequireRoles creates a RoleGuard for the given roles. An empty set denies
// everyone.
func RequireRoles(roles ...Role) *RoleGuard {
	return &RoleGuard{required: NewRoleSet(roles...)}
}

// RequireRoleSet creates a RoleGuard from an existing set.
func RequireRoleSet(set RoleSet) *RoleGuard {
	return &RoleGuard{required: set}
}

// Name returns "roles".
func (g *RoleGuard) Name() string {
	return "roles"
}

// Authorize allows iff the principal's role is in the required set.
func (g *RoleGuard) Authorize(_ context.Context, p *Principal) error {
	if p == nil {
		return &DenialError{Reason: ReasonInsufficientRole, Want: g.required}
	}
	if g.required.Contains(p.Role) {
		return nil
	}
	return &DenialError{
		Reason:      ReasonInsufficientRole,
		PrincipalID: p.ID,
		Have:        p.Role,
		Want:        g.required,
	}
}

// Required returns the guard's role set, for audit logging and policy dumps.
func (g *RoleGuard) Required() RoleSet {
	return g.required
}

// GuardFunc adapts a function to the Guard interface, for custom predicates
// chained after a role check.
type GuardFunc func(ctx context.Context, p *Principal) error

// Authorize calls the function.
func (f GuardFunc) Authorize(ctx context.Context, p *Principal) error {
	return f(ctx, p)
}

// Name returns "func".
func (f GuardFunc) Name() string {
	return "func"
}

// ChainGuards composes guards; the first denial short-circuits.
func ChainGuards(guards ...Guard) Guard {
	return GuardFunc(func(ctx context.Context, p *Principal) error {
		for _, g := range guards {
			if err := g.Authorize(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure RoleGuard implements Guard
var _ Guard = (*RoleGuard)(nil)
