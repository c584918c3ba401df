// File: internal/services/chat/errors.go
package chat

import (
	"fmt"

	"github.com/iyunix/go-chatnest/internal/domain"
)

type ErrorType string

const (
	ErrTypeConfig       ErrorType = "CONFIG"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeDownstream   ErrorType = "DOWNSTREAM"
)

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    uint
	UserID    uint
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

// PublicMessage is the part of the error that is safe to show a client.
func (e *ChatError) PublicMessage() string {
	return e.Message
}

func (e *ChatError) Unwrap() error {
	return e.Cause
}

// Is maps the error type onto the domain sentinels.
func (e *ChatError) Is(target error) bool {
	switch e.Type {
	case ErrTypeValidation, ErrTypeConfig:
		return target == domain.ErrValidation
	case ErrTypeUnauthorized:
		return target == domain.ErrUnauthorized
	case ErrTypeNotFound:
		return target == domain.ErrNotFound
	case ErrTypeDownstream:
		return target == domain.ErrDownstream
	}
	return false
}

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewUnauthorizedError(operation string) *ChatError {
	return &ChatError{Type: ErrTypeUnauthorized, Operation: operation, Message: "no authenticated user"}
}

// NewNotFoundError covers both missing chats and chats owned by someone else.
func NewNotFoundError(operation string, userID, chatID uint) *ChatError {
	return &ChatError{
		Type:      ErrTypeNotFound,
		Operation: operation,
		Message:   "chat not found or unauthorized",
		UserID:    userID,
		ChatID:    chatID,
	}
}

func NewDownstreamError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeDownstream, Operation: operation, Message: msg, Cause: cause}
}
