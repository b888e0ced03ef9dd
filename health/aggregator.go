package health

import (
	"context"
	"sync"
	"time"
)

// DefaultCheckTimeout bounds a full readiness sweep.
const DefaultCheckTimeout = 5 * time.Second

// Aggregator runs the registered checkers and folds their results into
// a single status for the readiness endpoint.
type Aggregator struct {
	timeout  time.Duration
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NewAggregator creates an aggregator. A timeout of zero uses
// DefaultCheckTimeout.
func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Aggregator{
		timeout:  timeout,
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker under its own name. Registering the same
// name twice replaces the earlier checker.
func (a *Aggregator) Register(c Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := c.Name()
	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = c
}

// CheckerNames returns registered checker names in registration order.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Check runs a single named checker.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return Result{}, ErrCheckerNotFound
	}
	return a.runCheck(ctx, checker), nil
}

// CheckAll runs every registered checker in parallel and returns the
// per-checker results.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make(map[string]Checker, len(a.checkers))
	for name, checker := range a.checkers {
		checkers[name] = checker
	}
	a.mu.RUnlock()

	results := make(map[string]Result, len(checkers))
	if len(checkers) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()
			result := a.runCheck(ctx, checker)
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	return results
}

// OverallStatus folds per-checker results into one status. Any
// unhealthy result wins, then degraded, then healthy.
func OverallStatus(results map[string]Result) Status {
	overall := StatusHealthy
	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}

func (a *Aggregator) runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()

	resultCh := make(chan Result, 1)
	go func() {
		result := checker.Check(ctx)
		result.Duration = time.Since(start)
		if result.Timestamp.IsZero() {
			result.Timestamp = start
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
