// File: internal/services/ai/errors.go
package ai

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrTypeConfig    ErrorType = "CONFIG"
	ErrTypeNetwork   ErrorType = "NETWORK"
	ErrTypeProvider  ErrorType = "PROVIDER"
	ErrTypeRateLimit ErrorType = "RATE_LIMIT"
	ErrTypeDecode    ErrorType = "DECODE"
)

// AIError is the single failure kind of the completion client. Code holds the
// HTTP status when the provider answered with one.
type AIError struct {
	Type      ErrorType
	Code      int
	Message   string
	Model     string
	Operation string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error {
	return e.Cause
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

func NewProviderError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}

func NewNetworkError(operation string, cause error) *AIError {
	return &AIError{Type: ErrTypeNetwork, Operation: operation, Message: "request failed", Cause: cause}
}

// NewStatusError classifies a non-2xx provider response.
func NewStatusError(operation string, status int) *AIError {
	errType := ErrTypeProvider
	if status == http.StatusTooManyRequests {
		errType = ErrTypeRateLimit
	}
	return &AIError{
		Type:      errType,
		Code:      status,
		Operation: operation,
		Message:   fmt.Sprintf("unexpected status %d", status),
	}
}
