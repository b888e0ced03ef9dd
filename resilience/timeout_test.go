package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTimeoutDefaults(t *testing.T) {
	to := NewTimeout(TimeoutConfig{})
	if to.Config().Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", to.Config().Timeout, DefaultTimeout)
	}

	to = NewTimeout(TimeoutConfig{Timeout: time.Second})
	if to.Config().Timeout != time.Second {
		t.Errorf("Timeout = %v, want 1s", to.Config().Timeout)
	}
}

func TestTimeoutExecuteSuccess(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("Execute() = %v, want nil", err)
	}
}

func TestTimeoutExecutePropagatesOpError(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})
	opErr := errors.New("op failed")

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		return opErr
	})
	if !errors.Is(err, opErr) {
		t.Errorf("Execute() = %v, want op error", err)
	}
}

func TestTimeoutExecuteDeadline(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	err := to.Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Execute() = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Execute() returned after %v, want near the deadline", elapsed)
	}
}

func TestTimeoutExecuteStallingOp(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: 20 * time.Millisecond})

	// The op ignores its context entirely. The caller must still get
	// control back at the deadline.
	err := to.Execute(context.Background(), func(context.Context) error {
		time.Sleep(300 * time.Millisecond)
		return nil
	})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() = %v, want ErrTimeout", err)
	}
}

func TestTimeoutExecuteCanceledContext(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := to.Execute(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}
