package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// LivenessHandler reports that the process is up. No collaborators are
// consulted.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler runs every registered checker and reports a plain
// verdict. Probes only need the status line.
func ReadinessHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := agg.CheckAll(r.Context())
		status := OverallStatus(results)

		w.Header().Set("Content-Type", "text/plain")
		switch status {
		case StatusHealthy:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		case StatusDegraded:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("DEGRADED"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNHEALTHY"))
		}
	}
}

// DetailResponse is the JSON body of the detailed health endpoint.
type DetailResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Checks    map[string]CheckResponse `json:"checks,omitempty"`
}

// CheckResponse is one checker's entry in a DetailResponse.
type CheckResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Duration string `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DetailedHandler reports per-checker results as JSON.
func DetailedHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := agg.CheckAll(r.Context())
		status := OverallStatus(results)

		response := DetailResponse{
			Status:    status.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]CheckResponse, len(results)),
		}
		for name, result := range results {
			check := CheckResponse{
				Status:   result.Status.String(),
				Message:  result.Message,
				Duration: result.Duration.String(),
			}
			if result.Error != nil {
				check.Error = result.Error.Error()
			}
			response.Checks[name] = check
		}

		w.Header().Set("Content-Type", "application/json")
		if status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}
