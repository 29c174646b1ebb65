package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nullchan-dev/nullchan/internal/logger"
)

// RequestLogging tags each request with an id and logs method, route, status
// and latency through the global logger.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestId := uuid.NewString()
		w.Header().Set("X-Request-Id", requestId)

		wrapped := newResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		logger.Log.Info("request",
			"request_id", requestId,
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
