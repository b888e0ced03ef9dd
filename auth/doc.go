// Package auth provides the authentication and authorization core for a
// multi-tenant property-management deployment.
//
// It covers the signed session-token codec, principal resolution against the
// authoritative user store, the request-level authentication gate, explicit
// role-set authorization guards, and tenant-scope enforcement. The package is
// transport-agnostic; transport.go supplies net/http adapters.
package auth
