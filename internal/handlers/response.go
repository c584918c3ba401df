// File: internal/handlers/response.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/iyunix/go-chatnest/internal/domain"
	"github.com/iyunix/go-chatnest/internal/middleware"
)

// Logger is the key/value logger handlers report failures through.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// publicError is implemented by service errors whose message may be shown
// to the client.
type publicError interface {
	PublicMessage() string
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[Handlers] Failed to write JSON response: %v", err)
	}
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps a service error onto an HTTP status and a message that
// is safe to return. Downstream and unknown failures get a generic message.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		var pe publicError
		if errors.As(err, &pe) && pe.PublicMessage() != "" {
			return http.StatusBadRequest, pe.PublicMessage()
		}
		return http.StatusBadRequest, "Invalid request"
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

// respondError logs err with request context and writes the mapped response.
// The cause never reaches the client.
func respondError(w http.ResponseWriter, r *http.Request, logger Logger, operation string, err error) {
	status, message := statusForError(err)

	keysAndValues := []interface{}{
		"operation", operation,
		"status", status,
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"error", err.Error(),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", keysAndValues...)
	} else {
		logger.Warn("request rejected", keysAndValues...)
	}

	writeError(w, message, status)
}

// requireUserID reads the id set by the auth middleware. Routes without it
// were wired without the middleware, which is reported as 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}
