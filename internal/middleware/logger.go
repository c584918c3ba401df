// File: internal/middleware/logger.go
package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logger is the key/value logger used by the access log.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RequestLogger assigns a request id and logs every request once it has been
// served.
func RequestLogger(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" || len(requestID) > 64 {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			ctx := r.Context()
			ctx = contextWithRequestID(ctx, requestID)
			wrapper := newResponseWriter(w)

			next.ServeHTTP(wrapper, r.WithContext(ctx))

			keysAndValues := []interface{}{
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapper.statusCode,
				"bytes", wrapper.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote", r.RemoteAddr,
			}
			switch {
			case wrapper.statusCode >= 500:
				logger.Error("request served", keysAndValues...)
			case wrapper.statusCode >= 400:
				logger.Warn("request served", keysAndValues...)
			default:
				logger.Info("request served", keysAndValues...)
			}
		})
	}
}
