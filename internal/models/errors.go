package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized means the request carried no valid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the session is valid but does not own the resource.
	ErrForbidden = errors.New("access denied")

	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")

	// ErrFileUnavailable is returned when a stored PDF can no longer be fetched.
	ErrFileUnavailable = errors.New("file not found, please re-upload")

	// ErrServiceUnavailable means an optional collaborator is not configured.
	ErrServiceUnavailable = errors.New("service unavailable")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
