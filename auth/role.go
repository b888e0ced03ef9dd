package auth

import (
	"fmt"
	"sort"
	"strings"
)

// Role is the closed set of privilege tiers in the system. Roles are totally
// ordered by Level for display and audit purposes, but authorization is always
// explicit set membership: a route requiring "manager or above" must enumerate
// the roles it accepts. That keeps a newly inserted role from silently
// inheriting access.
type Role string

const (
	// RoleGuest is a booked guest with access to their own reservations,
	// requests, and billing records.
	RoleGuest Role = "guest"

	// RoleStaff is an operational staff member, optionally scoped to a single
	// property within their organization.
	RoleStaff Role = "staff"

	// RoleManager runs one property's operations: staff assignments, guest
	// issues, reporting. Optionally property-scoped like staff.
	RoleManager Role = "manager"

	// RoleOwner administers an entire organization: all properties, staff,
	// and billing under it.
	RoleOwner Role = "owner"

	// RoleSuperAdmin is the cross-tenant platform operator. It is the only
	// role that may carry no organization and the only role exempt from
	// tenant-scope checks.
	RoleSuperAdmin Role = "super_admin"
)

// roleLevels orders roles by privilege. Used for sorting and display only,
// never for implicit authorization decisions.
var roleLevels = map[Role]int{
	RoleGuest:      1,
	RoleStaff:      2,
	RoleManager:    3,
	RoleOwner:      4,
	RoleSuperAdmin: 5,
}

// ParseRole converts a stored role string into a Role.
// Unknown strings are rejected rather than passed through.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("auth: unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the privilege level of the role, higher meaning more
// privileged. Unknown roles return 0.
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether r sits at or above other in the privilege order.
// This is a display/audit helper; guards do not use it.
func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level()
}

// RoleSet is an explicit set of roles accepted by a guard.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles. Invalid roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		if r.Valid() {
			s[r] = struct{}{}
		}
	}
	return s
}

// ParseRoleSet builds a RoleSet from role strings, failing on any unknown
// role. Used when loading declarative route policies.
func ParseRoleSet(names []string) (RoleSet, error) {
	s := make(RoleSet, len(names))
	for _, name := range names {
		r, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		s[r] = struct{}{}
	}
	return s, nil
}

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Roles returns the members ordered by privilege level.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level() < out[j].Level() })
	return out
}

// String renders the set for audit logs, e.g. "{staff,manager}".
func (s RoleSet) String() string {
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return "{" + strings.Join(names, ",") + "}"
}

// AllRoles is the full role set.
var AllRoles = NewRoleSet(RoleGuest, RoleStaff, RoleManager, RoleOwner, RoleSuperAdmin)
