package observe

import "errors"

// Configuration errors.
var (
	// ErrMissingServiceName indicates Config.ServiceName is empty.
	ErrMissingServiceName = errors.New("observe: service name is required")

	// ErrInvalidSamplePct indicates Tracing.SamplePct is not in [0.0, 1.0].
	ErrInvalidSamplePct = errors.New("observe: sample percentage must be between 0.0 and 1.0")

	// ErrInvalidTracingExporter indicates an unknown tracing exporter name.
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")

	// ErrInvalidMetricsExporter indicates an unknown metrics exporter name.
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")

	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("observe: invalid log level")

	// ErrEndpointNotConfigured indicates a required endpoint environment
	// variable is not set.
	ErrEndpointNotConfigured = errors.New("observe: endpoint not configured")
)

// RedactedFields lists field keys that are automatically redacted in logs.
// Credentials and signing material must never appear in log output.
var RedactedFields = []string{
	"authorization",
	"bearer",
	"credential",
	"password",
	"secret",
	"signing_key",
	"token",
}
