// Package observe provides structured logging, metrics, and tracing for the
// authentication service, built on OpenTelemetry.
//
// The logger redacts credential-bearing fields so tokens and signing secrets
// never reach log output. Metrics cover request throughput and
// authentication/authorization rejection counts by code.
package observe
