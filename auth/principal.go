package auth

// Principal is the resolved identity and tenant scope for one request.
//
// It is an immutable snapshot: built once by the PrincipalResolver from the
// authoritative user store, attached to the request context by the
// AuthenticationGate, and never mutated afterwards. It is never persisted.
type Principal struct {
	// ID is the subject identifier from the user store.
	ID string

	// Role is the principal's current role as recorded in the store, which
	// may differ from the role claim in an old token.
	Role Role

	// OrganizationID is the owning tenant. Always present except for
	// super_admin principals, which operate cross-tenant.
	OrganizationID string

	// PropertyID narrows staff and manager principals to a single property.
	// Empty for org-wide staff/managers and for all other roles.
	PropertyID string

	// GuestProfileID links a guest principal to their guest profile record.
	GuestProfileID string

	// StaffProfileID links a staff or manager principal to their staff
	// profile record.
	StaffProfileID string
}

// IsSuperAdmin reports whether the principal holds the cross-tenant role.
func (p *Principal) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// Scope returns the principal's own tenant scope. For super_admin the scope
// is empty, meaning unrestricted.
func (p *Principal) Scope() TenantScope {
	if p.IsSuperAdmin() {
		return TenantScope{}
	}
	return TenantScope{
		OrganizationID: p.OrganizationID,
		PropertyID:     p.PropertyID,
	}
}

// UserRecord is the authoritative account state served by a UserStore.
// The resolver derives a Principal from it on every authentication.
type UserRecord struct {
	ID             string
	Role           Role
	OrganizationID string
	PropertyID     string
	GuestProfileID string
	StaffProfileID string
	Disabled       bool
}
