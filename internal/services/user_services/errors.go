package user_services

import (
	"fmt"

	"github.com/iyunix/go-chatnest/internal/domain"
)

type ErrorType string

const (
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeConflict     ErrorType = "CONFLICT"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeInternal     ErrorType = "INTERNAL"
)

type AuthError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Auth %s error in %s: %s (caused by: %v)", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Auth %s error in %s: %s", e.Type, e.Operation, e.Message)
}

// PublicMessage is the part of the error that is safe to show a client.
func (e *AuthError) PublicMessage() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

func (e *AuthError) Is(target error) bool {
	switch e.Type {
	case ErrTypeValidation:
		return target == domain.ErrValidation
	case ErrTypeConflict:
		return target == domain.ErrConflict
	case ErrTypeUnauthorized:
		return target == domain.ErrUnauthorized
	case ErrTypeInternal:
		return target == domain.ErrDownstream
	}
	return false
}
