package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/stayops/stayauth/auth"
	"github.com/stayops/stayauth/config"
)

// routeRule is one compiled entry of the declarative route policy: a
// chi pattern, the methods it covers, and the explicit role allow set.
type routeRule struct {
	pattern string
	methods []string
	guard   *auth.RoleGuard
}

// compilePolicies validates the declarative route policy at startup.
// An unknown role name or method is a configuration error; a typo in
// policy must never silently widen or narrow access at request time.
func compilePolicies(policies []config.RoutePolicy) ([]routeRule, error) {
	rules := make([]routeRule, 0, len(policies))
	for i, policy := range policies {
		set, err := auth.ParseRoleSet(policy.Roles)
		if err != nil {
			return nil, fmt.Errorf("route policy %d (%s): %w", i, policy.Pattern, err)
		}

		methods := make([]string, 0, len(policy.Methods))
		for _, m := range policy.Methods {
			m = strings.ToUpper(strings.TrimSpace(m))
			switch m {
			case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions:
				methods = append(methods, m)
			default:
				return nil, fmt.Errorf("route policy %d (%s): unknown method %q", i, policy.Pattern, m)
			}
		}

		rules = append(rules, routeRule{
			pattern: policy.Pattern,
			methods: methods,
			guard:   auth.RequireRoleSet(set),
		})
	}
	return rules, nil
}
