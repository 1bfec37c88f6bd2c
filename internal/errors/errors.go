package errors

import "fmt"

// ErrorCode represents a tripstash error code.
type ErrorCode string

const (
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404, also covers "exists but caller may not see it"
	ErrForbidden           ErrorCode = "FORBIDDEN"            // 403
	ErrConflict            ErrorCode = "CONFLICT"             // 409
	ErrInvalidInput        ErrorCode = "INVALID_INPUT"        // 400
	ErrUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE" // 502
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// StashError represents a structured error with code, status, and details.
type StashError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *StashError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotFound creates a 404 error. Callers must use this for both "no such
// row" and "row belongs to someone else" so that existence is never leaked
// to unauthorized callers.
func NewNotFound(kind, identifier string) *StashError {
	return &StashError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewForbidden creates a 403 error for when the entity is known to exist and
// the caller is confirmed not authorized (e.g. inviting to someone else's trip).
func NewForbidden(msg string) *StashError {
	return &StashError{
		Code:    ErrForbidden,
		Status:  403,
		Message: msg,
	}
}

// NewConflict creates a 409 error for uniqueness violations.
func NewConflict(msg string) *StashError {
	return &StashError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewInvalidInput creates a 400 error for malformed request parameters.
func NewInvalidInput(msg string) *StashError {
	return &StashError{
		Code:    ErrInvalidInput,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidDateRange creates a 400 error for a start date after the end date.
func NewInvalidDateRange(start, end string) *StashError {
	return &StashError{
		Code:    ErrInvalidInput,
		Status:  400,
		Message: fmt.Sprintf("end date must not be before start date (%s > %s)", start, end),
		Details: map[string]any{"start_date": start, "end_date": end},
	}
}

// NewUpstreamUnavailable creates a 502 error for a failed external collaborator
// call (invitation email send is the hard-failure case).
func NewUpstreamUnavailable(service string, err error) *StashError {
	msg := fmt.Sprintf("%s unavailable", service)
	if err != nil {
		msg = fmt.Sprintf("%s unavailable: %v", service, err)
	}
	return &StashError{
		Code:    ErrUpstreamUnavailable,
		Status:  502,
		Message: msg,
		Details: map[string]any{"service": service},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *StashError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &StashError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a StashError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*StashError); ok {
		return sErr.Code == code
	}
	return false
}
