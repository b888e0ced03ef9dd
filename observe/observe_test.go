package observe

import (
	"context"
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "minimal valid",
			config: Config{ServiceName: "stayauth"},
		},
		{
			name: "full valid",
			config: Config{
				ServiceName: "stayauth",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 0.25},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
				Logging:     LoggingConfig{Enabled: true, Level: "debug"},
			},
		},
		{
			name:    "missing service name",
			config:  Config{},
			wantErr: ErrMissingServiceName,
		},
		{
			name: "bad tracing exporter",
			config: Config{
				ServiceName: "stayauth",
				Tracing:     TracingConfig{Enabled: true, Exporter: "jaeger"},
			},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name: "sample pct out of range",
			config: Config{
				ServiceName: "stayauth",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5},
			},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name: "bad metrics exporter",
			config: Config{
				ServiceName: "stayauth",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "statsd"},
			},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name: "bad log level",
			config: Config{
				ServiceName: "stayauth",
				Logging:     LoggingConfig{Enabled: true, Level: "loud"},
			},
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "disabled subsystems skip validation",
			config: Config{
				ServiceName: "stayauth",
				Tracing:     TracingConfig{Exporter: "jaeger"},
				Metrics:     MetricsConfig{Exporter: "statsd"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserverDisabledSubsystems(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "stayauth"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	if obs.Tracer() == nil {
		t.Error("Tracer() = nil, want noop tracer")
	}
	if obs.Meter() == nil {
		t.Error("Meter() = nil, want noop meter")
	}
	if obs.Logger() == nil {
		t.Error("Logger() = nil, want logger")
	}
}

func TestNewObserverRejectsInvalidConfig(t *testing.T) {
	if _, err := NewObserver(context.Background(), Config{}); err == nil {
		t.Fatal("NewObserver() with empty config should fail")
	}
}

func TestRequestMetaSpanName(t *testing.T) {
	meta := RequestMeta{Method: "GET", Route: "/api/me"}
	if got := meta.SpanName(); got != "http.request GET /api/me" {
		t.Errorf("SpanName() = %q", got)
	}
}
