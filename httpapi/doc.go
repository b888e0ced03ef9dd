// Package httpapi assembles the HTTP surface: a chi router carrying the
// authentication gate, per-route role guards driven by declarative
// policy, tenant scope enforcement on organization-scoped routes, and
// the health endpoints.
//
// Handlers are thin; they echo the caller's resolved identity and
// scope. Business endpoints plug into the same middleware chain.
package httpapi
