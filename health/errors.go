package health

import "errors"

var (
	// ErrCheckerNotFound indicates no checker is registered under the name.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrCheckTimeout indicates a check did not complete before the deadline.
	ErrCheckTimeout = errors.New("health: check timed out")
)
