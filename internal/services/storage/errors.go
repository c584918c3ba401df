// File: internal/services/storage/errors.go
package storage

import "fmt"

type ErrorType string

const (
	ErrTypeConfig   ErrorType = "CONFIG"
	ErrTypeNotFound ErrorType = "NOT_FOUND"
	ErrTypeProvider ErrorType = "PROVIDER"
)

type StorageError struct {
	Type      ErrorType
	Operation string
	Key       string
	Message   string
	Cause     error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage %s error in %s for %q: %s (caused by: %v)",
			e.Type, e.Operation, e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage %s error in %s for %q: %s", e.Type, e.Operation, e.Key, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
