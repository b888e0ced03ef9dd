package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/stayops/stayauth/observe"
)

// RequestID tags each request with an X-Request-ID, honoring one the
// client already sent, and mirrors it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set("X-Request-ID", requestID)
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// Recovery catches handler panics and turns them into a plain 500. The
// panic value is logged server-side only.
func Recovery(logger observe.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error(r.Context(), "panic recovered in handler",
						observe.Field{Key: "panic", Value: rec},
						observe.Field{Key: "method", Value: r.Method},
						observe.Field{Key: "path", Value: r.URL.Path},
						observe.Field{Key: "request_id", Value: r.Header.Get("X-Request-ID")},
					)
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
