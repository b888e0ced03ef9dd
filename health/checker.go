package health

import (
	"context"
	"time"
)

// Status represents the health status of a component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a health check.
type Result struct {
	Status    Status
	Message   string
	Duration  time.Duration
	Timestamp time.Time
	Error     error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, Timestamp: time.Now()}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err, Timestamp: time.Now()}
}

// Checker is the interface for health checks.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) Result
}

// Pinger is the store-side capability the ping checker relies on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker adapts any Pinger (user store, revocation store) to a Checker.
type PingChecker struct {
	name   string
	pinger Pinger
}

// NewPingChecker creates a checker that calls Ping on the collaborator.
func NewPingChecker(name string, pinger Pinger) *PingChecker {
	return &PingChecker{name: name, pinger: pinger}
}

// Name returns the checker name.
func (c *PingChecker) Name() string {
	return c.name
}

// Check pings the collaborator.
func (c *PingChecker) Check(ctx context.Context) Result {
	if err := c.pinger.Ping(ctx); err != nil {
		return Unhealthy(c.name+" unreachable", err)
	}
	return Healthy(c.name + " reachable")
}

// CheckerFunc adapts an ordinary function to the Checker interface.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc creates a new CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the checker name.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check invokes the function.
func (f *CheckerFunc) Check(ctx context.Context) Result {
	return f.fn(ctx)
}
