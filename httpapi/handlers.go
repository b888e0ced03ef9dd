package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayops/stayauth/auth"
)

// identityResponse echoes the caller's resolved identity. Handy for
// smoke-testing a deployment and for clients that need their own role.
type identityResponse struct {
	ID             string `json:"id"`
	Role           string `json:"role"`
	OrganizationID string `json:"organization_id,omitempty"`
	PropertyID     string `json:"property_id,omitempty"`
	GuestProfileID string `json:"guest_profile_id,omitempty"`
	StaffProfileID string `json:"staff_profile_id,omitempty"`
}

// scopeResponse echoes the scope filter a data-access layer would apply
// for this caller. A zero filter means unrestricted.
type scopeResponse struct {
	OrganizationID string `json:"organization_id,omitempty"`
	PropertyID     string `json:"property_id,omitempty"`
	Unrestricted   bool   `json:"unrestricted"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleWhoAmI reports the authenticated principal.
func handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	if p == nil {
		auth.WriteRejection(w, auth.Reject(auth.CodeAuthRequired, auth.ErrMissingCredential))
		return
	}
	writeJSON(w, http.StatusOK, identityResponse{
		ID:             p.ID,
		Role:           string(p.Role),
		OrganizationID: p.OrganizationID,
		PropertyID:     p.PropertyID,
		GuestProfileID: p.GuestProfileID,
		StaffProfileID: p.StaffProfileID,
	})
}

// handleScope reports the narrowing filter for list queries.
func handleScope(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	if p == nil {
		auth.WriteRejection(w, auth.Reject(auth.CodeAuthRequired, auth.ErrMissingCredential))
		return
	}
	filter := auth.NarrowQuery(p)
	writeJSON(w, http.StatusOK, scopeResponse{
		OrganizationID: filter.OrganizationID,
		PropertyID:     filter.PropertyID,
		Unrestricted:   filter.IsZero(),
	})
}

// RouteScope derives the resource's tenant scope from the orgID and
// propertyID route parameters.
func RouteScope(r *http.Request) auth.TenantScope {
	return auth.TenantScope{
		OrganizationID: chi.URLParam(r, "orgID"),
		PropertyID:     chi.URLParam(r, "propertyID"),
	}
}

// handleResource is the placeholder for organization-scoped endpoints.
// By the time it runs the caller has passed the gate, the role guard,
// and scope enforcement.
func handleResource(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	if p == nil {
		auth.WriteRejection(w, auth.Reject(auth.CodeAuthRequired, auth.ErrMissingCredential))
		return
	}
	scope := RouteScope(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"principal_id":    p.ID,
		"role":            string(p.Role),
		"organization_id": scope.OrganizationID,
		"property_id":     scope.PropertyID,
	})
}
