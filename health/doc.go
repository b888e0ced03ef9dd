// Package health provides readiness checks for the auth service's
// collaborators: the user store and the revocation store. Checkers are
// aggregated and exposed over HTTP for liveness and readiness probes.
package health
