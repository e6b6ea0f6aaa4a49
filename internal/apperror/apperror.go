// Package apperror defines the error taxonomy shared by all request handlers.
package apperror

import (
	"errors"
	"fmt"
)

// Taxonomy sentinels. Handlers translate every failure into exactly one of
// these at their boundary; raw store or network errors never escape.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrUpstream        = errors.New("upstream error")
	ErrStore           = errors.New("store error")
)

// AppError carries a taxonomy sentinel together with a human-readable
// message safe to return to clients. Cause keeps the underlying failure in
// the chain for logs and errors.Is; it is never sent to clients.
type AppError struct {
	Err     error
	Cause   error  // underlying failure, nil for request-side errors
	Message string
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Unauthenticated signals a missing caller identity or credential.
func Unauthenticated(message string) *AppError {
	return &AppError{Err: ErrUnauthenticated, Message: message}
}

// NotFound signals that no matching row or entity exists.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Validation signals a malformed id or missing required field.
func Validation(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

// Upstream signals a non-success response from the external catalogue API.
func Upstream(operation string, err error) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Cause:   err,
		Message: fmt.Sprintf("%s: upstream request failed", operation),
	}
}

// Store signals a datastore operation failure.
func Store(operation string, err error) *AppError {
	return &AppError{
		Err:     ErrStore,
		Cause:   err,
		Message: fmt.Sprintf("%s: datastore operation failed", operation),
	}
}
