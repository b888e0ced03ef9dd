package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout applies when a Timeout is constructed without one.
const DefaultTimeout = 3 * time.Second

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for the operation.
	// Default: DefaultTimeout.
	Timeout time.Duration
}

// Timeout bounds the duration of an operation. The operation runs in its own
// goroutine so a collaborator that ignores context cancellation still cannot
// stall the caller past the deadline.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Timeout{config: config}
}

// Execute runs op under the configured deadline. Returns ErrTimeout when the
// deadline is exceeded, the context's error when canceled, and otherwise
// op's own error.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}
