package resilience

import "errors"

// ErrTimeout indicates an operation exceeded its deadline.
var ErrTimeout = errors.New("resilience: operation timed out")
