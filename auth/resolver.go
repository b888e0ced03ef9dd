package auth

import (
	"context"
	"errors"
	"time"

	"github.com/stayops/stayauth/cache"
)

// DefaultPrincipalCacheTTL bounds how stale a resolved principal may be.
// Kept short so role changes and deactivations take effect quickly.
const DefaultPrincipalCacheTTL = 5 * time.Second

// UserStore is the authoritative source for account state.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent reads.
// - Context: FindByID must honor cancellation/deadlines.
// - Errors: a missing subject is reported with ErrPrincipalNotFound
//   (directly or wrapped), not a nil record.
type UserStore interface {
	// FindByID returns the current record for a subject.
	FindByID(ctx context.Context, subjectID string) (*UserRecord, error)
}

// ResolverConfig configures the principal resolver.
type ResolverConfig struct {
	// CacheTTL is the bounded staleness window for resolved principals.
	// Default: DefaultPrincipalCacheTTL. Zero uses the default; negative
	// disables caching.
	CacheTTL time.Duration
}

// PrincipalResolver derives request principals from the user store.
//
// The token's role and organization claims are never trusted beyond the
// staleness window: resolution re-reads the store so a demoted or disabled
// account loses access within CacheTTL even while its token is unexpired.
type PrincipalResolver struct {
	store  UserStore
	loader *cache.Loader[*Principal]
}

// NewPrincipalResolver creates a resolver backed by store.
func NewPrincipalResolver(store UserStore, cfg ResolverConfig) *PrincipalResolver {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = DefaultPrincipalCacheTTL
	}
	r := &PrincipalResolver{store: store}
	r.loader = cache.NewLoader(ttl, r.loadPrincipal)
	return r
}

// Resolve returns the principal for the token's subject.
//
// Fails with ErrPrincipalNotFound if the subject no longer exists and
// ErrPrincipalDisabled if the account is deactivated. Both are
// authentication failures: the caller could not be identified as a live
// account, regardless of what the token claims.
func (r *PrincipalResolver) Resolve(ctx context.Context, claims *SessionClaims) (*Principal, error) {
	if claims == nil || claims.Subject == "" {
		return nil, Reject(CodeTokenMalformed, ErrMalformedToken)
	}
	return r.loader.Get(ctx, claims.Subject)
}

// Invalidate drops the cached snapshot for a subject, forcing the next
// authentication to re-read the store. Called after role changes or
// deactivation when immediate effect is wanted.
func (r *PrincipalResolver) Invalidate(subjectID string) {
	r.loader.Invalidate(subjectID)
}

func (r *PrincipalResolver) loadPrincipal(ctx context.Context, subjectID string) (*Principal, error) {
	rec, err := r.store.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, RejectCause(CodePrincipalNotFound, ErrPrincipalNotFound, err)
		}
		return nil, err
	}
	if rec.Disabled {
		return nil, Reject(CodePrincipalDisabled, ErrPrincipalDisabled)
	}
	return principalFromRecord(rec)
}

// principalFromRecord normalizes a store record into a Principal, enforcing
// the scope invariants: organization always present except for super_admin,
// property linkage only meaningful for staff and managers.
func principalFromRecord(rec *UserRecord) (*Principal, error) {
	if rec.ID == "" || !rec.Role.Valid() {
		return nil, RejectCause(CodePrincipalNotFound, ErrPrincipalNotFound,
			errors.New("auth: store record is incomplete"))
	}
	if rec.Role != RoleSuperAdmin && rec.OrganizationID == "" {
		return nil, RejectCause(CodePrincipalNotFound, ErrPrincipalNotFound,
			errors.New("auth: store record has no organization"))
	}

	p := &Principal{
		ID:             rec.ID,
		Role:           rec.Role,
		OrganizationID: rec.OrganizationID,
		GuestProfileID: rec.GuestProfileID,
		StaffProfileID: rec.StaffProfileID,
	}
	if rec.Role == RoleStaff || rec.Role == RoleManager {
		p.PropertyID = rec.PropertyID
	}
	return p, nil
}
