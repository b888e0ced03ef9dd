package auth

// TenantScope identifies which tenant a principal or resource belongs to.
// A zero scope means unrestricted (super_admin, or organization-wide when
// only PropertyID is empty).
type TenantScope struct {
	OrganizationID string
	PropertyID     string
}

// IsZero reports whether the scope carries no restriction at all.
func (s TenantScope) IsZero() bool {
	return s.OrganizationID == "" && s.PropertyID == ""
}

// Covers reports whether a principal holding scope s may touch a resource
// in scope other. Organizations must match exactly; an empty PropertyID on
// either side is organization-wide, so only two differing non-empty
// property IDs conflict.
func (s TenantScope) Covers(other TenantScope) bool {
	if s.OrganizationID != other.OrganizationID {
		return false
	}
	return s.PropertyID == "" || other.PropertyID == "" || s.PropertyID == other.PropertyID
}

func (s TenantScope) String() string {
	if s.IsZero() {
		return "org=*"
	}
	if s.PropertyID == "" {
		return "org=" + s.OrganizationID
	}
	return "org=" + s.OrganizationID + " property=" + s.PropertyID
}

// EnforceScope applies tenant isolation after the role check has passed.
//
// Allowed iff the principal is super_admin, or the organizations match and
// the properties do not conflict: a property conflict exists only when both
// the resource and the principal are property-scoped and the IDs differ.
// Authorization and tenant isolation stay separate passes so a bug in one
// cannot widen the other.
func EnforceScope(p *Principal, resource TenantScope) error {
	if p == nil {
		return &DenialError{Reason: ReasonCrossTenantAccess, ResourceScope: resource}
	}
	if p.IsSuperAdmin() {
		return nil
	}
	if !p.Scope().Covers(resource) {
		return scopeDenial(p, resource)
	}
	return nil
}

func scopeDenial(p *Principal, resource TenantScope) *DenialError {
	return &DenialError{
		Reason:        ReasonCrossTenantAccess,
		PrincipalID:   p.ID,
		Have:          p.Role,
		ResourceScope: resource,
	}
}

// denyAllScope matches no real organization. The NUL byte cannot appear in
// an organization ID, so a query narrowed to it selects nothing.
var denyAllScope = TenantScope{OrganizationID: "\x00none"}

// NarrowQuery returns the filter a list/query endpoint must apply at the
// data-access boundary: the principal's own scope, or the zero scope for
// super_admin (unrestricted). Narrowing the query instead of post-filtering
// keeps out-of-scope records from leaking through error messages or counts.
func NarrowQuery(p *Principal) TenantScope {
	if p == nil {
		return denyAllScope
	}
	return p.Scope()
}
