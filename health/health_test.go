package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPingChecker(t *testing.T) {
	ok := NewPingChecker("user_store", &fakePinger{})
	if got := ok.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("healthy pinger status = %v, want healthy", got.Status)
	}

	bad := NewPingChecker("revocation_store", &fakePinger{err: errors.New("refused")})
	got := bad.Check(context.Background())
	if got.Status != StatusUnhealthy {
		t.Errorf("failing pinger status = %v, want unhealthy", got.Status)
	}
	if got.Error == nil {
		t.Error("failing pinger should carry the error")
	}
}

func TestAggregatorCheckAll(t *testing.T) {
	agg := NewAggregator(time.Second)
	agg.Register(NewPingChecker("users", &fakePinger{}))
	agg.Register(NewPingChecker("revocations", &fakePinger{err: errors.New("down")}))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results["users"].Status != StatusHealthy {
		t.Errorf("users = %v, want healthy", results["users"].Status)
	}
	if results["revocations"].Status != StatusUnhealthy {
		t.Errorf("revocations = %v, want unhealthy", results["revocations"].Status)
	}
	if OverallStatus(results) != StatusUnhealthy {
		t.Error("one unhealthy checker must fail the overall status")
	}
}

func TestAggregatorCheckNamed(t *testing.T) {
	agg := NewAggregator(time.Second)
	agg.Register(NewPingChecker("users", &fakePinger{}))

	if _, err := agg.Check(context.Background(), "users"); err != nil {
		t.Errorf("Check(users) error = %v", err)
	}
	if _, err := agg.Check(context.Background(), "ghost"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check(ghost) error = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregatorTimeout(t *testing.T) {
	agg := NewAggregator(20 * time.Millisecond)
	agg.Register(NewCheckerFunc("slow", func(ctx context.Context) Result {
		select {
		case <-time.After(time.Second):
			return Healthy("eventually")
		case <-ctx.Done():
			// Ignore cancellation to prove the aggregator still returns.
			time.Sleep(time.Second)
			return Healthy("late")
		}
	}))

	start := time.Now()
	results := agg.CheckAll(context.Background())
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("CheckAll took %v, want bounded by the aggregator timeout", elapsed)
	}
	if results["slow"].Status != StatusUnhealthy {
		t.Errorf("slow checker = %v, want unhealthy on timeout", results["slow"].Status)
	}
	if !errors.Is(results["slow"].Error, ErrCheckTimeout) {
		t.Errorf("slow checker error = %v, want ErrCheckTimeout", results["slow"].Error)
	}
}

func TestOverallStatusEmpty(t *testing.T) {
	if got := OverallStatus(nil); got != StatusHealthy {
		t.Errorf("OverallStatus(nil) = %v, want healthy", got)
	}
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rec.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		agg := NewAggregator(time.Second)
		agg.Register(NewPingChecker("users", &fakePinger{}))
		rec := httptest.NewRecorder()
		ReadinessHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
			t.Errorf("response = %d %q, want 200 OK", rec.Code, rec.Body.String())
		}
	})

	t.Run("unhealthy", func(t *testing.T) {
		agg := NewAggregator(time.Second)
		agg.Register(NewPingChecker("users", &fakePinger{err: errors.New("down")}))
		rec := httptest.NewRecorder()
		ReadinessHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestDetailedHandler(t *testing.T) {
	agg := NewAggregator(time.Second)
	agg.Register(NewPingChecker("users", &fakePinger{}))
	agg.Register(NewPingChecker("revocations", &fakePinger{err: errors.New("down")}))

	rec := httptest.NewRecorder()
	DetailedHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var body DetailResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Status != "unhealthy" {
		t.Errorf("overall = %q, want unhealthy", body.Status)
	}
	if body.Checks["users"].Status != "healthy" {
		t.Errorf("users = %q, want healthy", body.Checks["users"].Status)
	}
	if body.Checks["revocations"].Error == "" {
		t.Error("failing check should carry its error string")
	}
}
