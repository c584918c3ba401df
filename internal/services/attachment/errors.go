// File: internal/services/attachment/errors.go
package attachment

import (
	"fmt"

	"github.com/iyunix/go-chatnest/internal/domain"
)

type ErrorType string

const (
	ErrTypeConfig       ErrorType = "CONFIG"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeDownstream   ErrorType = "DOWNSTREAM"
)

type AttachmentError struct {
	Type      ErrorType
	Operation string
	Message   string
	UserID    uint
	Cause     error
}

func (e *AttachmentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Attachment %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Attachment %s error in %s: %s", e.Type, e.Operation, e.Message)
}

// PublicMessage is the part of the error that is safe to show a client.
func (e *AttachmentError) PublicMessage() string {
	return e.Message
}

func (e *AttachmentError) Unwrap() error {
	return e.Cause
}

func (e *AttachmentError) Is(target error) bool {
	switch e.Type {
	case ErrTypeValidation, ErrTypeConfig:
		return target == domain.ErrValidation
	case ErrTypeUnauthorized:
		return target == domain.ErrUnauthorized
	case ErrTypeDownstream:
		return target == domain.ErrDownstream
	}
	return false
}

func NewValidationError(operation, msg string) *AttachmentError {
	return &AttachmentError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewDownstreamError(operation, msg string, userID uint, cause error) *AttachmentError {
	return &AttachmentError{Type: ErrTypeDownstream, Operation: operation, Message: msg, UserID: userID, Cause: cause}
}
