package domain

import "errors"

// Boundary error kinds. Service error types match these through errors.Is so
// handlers can pick a status code without knowing the concrete type.
var (
	// ErrUnauthorized means the caller has no valid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound covers both absent resources and resources owned by someone
	// else; callers cannot tell the two apart.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation means required input was missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means the resource already exists.
	ErrConflict = errors.New("resource conflict")

	// ErrDownstream is a persistence, storage or completion provider failure.
	ErrDownstream = errors.New("downstream failure")
)
