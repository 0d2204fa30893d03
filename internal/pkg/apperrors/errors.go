package apperrors

import (
	"errors"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied  = errors.New("permission denied")
	ErrAdminRegistration = errors.New("admin accounts can only be created by existing admins")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// Entity errors. Each one wraps ErrResourceNotFound so the error translator
// only has to know about the generic sentinel.
var (
	ErrUserNotFound       = NewResourceNotFoundError("User not found")
	ErrStudentNotFound    = NewResourceNotFoundError("Student not found")
	ErrSupervisorNotFound = NewResourceNotFoundError("Supervisor not found")
	ErrProjectNotFound    = NewResourceNotFoundError("Project not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects field-level validation failures. It unwraps to
// ErrValidationFailed.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a ValidationError with a single field message
func NewValidationError(field, message string) *ValidationError {
	return (&ValidationError{}).Add(field, message)
}

// NewDuplicateError reports a unique constraint violation on field
func NewDuplicateError(field string) *ValidationError {
	return NewValidationError(field, field+" already exists")
}

// Add appends a field message and returns the receiver for chaining
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// HasErrors reports whether any field message was recorded
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns nil when no field message was recorded, so callers can
// return the accumulated error directly.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Error joins the field messages the same way they are reported to clients
func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	if len(messages) == 0 {
		return ErrValidationFailed.Error()
	}
	return strings.Join(messages, ", ")
}

// Unwrap implements errors.Unwrap interface
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
