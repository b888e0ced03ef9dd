// Package store provides implementations of the user-store and
// revocation-store collaborators consumed by the auth package.
//
// The memory variants back tests and single-node deployments, the SQLite
// user store persists accounts, and the Redis revocation store shares the
// token denylist across instances. All implementations are safe for the
// concurrent read-mostly access pattern the auth core assumes.
package store
