package errors

import (
	"errors"
	"fmt"
)

// AppError provides a structured error carrying a stable machine-readable code.
type AppError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches AppErrors by code so that copies produced by WithInternal still
// compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) || other == nil {
		return false
	}
	return e != nil && e.Code == other.Code
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Common errors exposed to the rest of the application.
var (
	ErrNotFound = &AppError{
		Code:    "NOT_FOUND",
		Message: "Record not found",
	}

	ErrBadRequest = &AppError{
		Code:    "BAD_REQUEST",
		Message: "Invalid input",
	}

	// ErrUniqueConstraintViolation reports a duplicate value for a uniquely
	// constrained column, such as a role name or user email.
	ErrUniqueConstraintViolation = &AppError{
		Code:    "UNIQUE_CONSTRAINT_VIOLATION",
		Message: "Unique constraint violated",
	}

	// ErrForeignKeyViolation reports a reference to a row that does not exist,
	// such as an association pointing at a deleted role.
	ErrForeignKeyViolation = &AppError{
		Code:    "FOREIGN_KEY_VIOLATION",
		Message: "Foreign key constraint violated",
	}

	ErrInternal = &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal error",
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap turns any error into an AppError while keeping the original error for logging.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:     ErrInternal.Code,
		Message:  message,
		Internal: err,
	}
}

// NewBadRequest wraps validation failures with a helpful message.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    ErrBadRequest.Code,
		Message: message,
	}
}
