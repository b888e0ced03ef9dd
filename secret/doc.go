// Package secret resolves sensitive configuration values such as the token
// signing key. Values may reference the environment (`${VAR}`) or a
// registered provider (`secretref:<provider>:<ref>`); plain values pass
// through. Resolved material is never logged by this package.
package secret
