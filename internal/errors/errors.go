// Package errors defines the structured error taxonomy for the
// solver core: invalid input, infeasible designs, unsupported exact
// enumeration, and missing backend configuration.
package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches two AppErrors by code so sentinel comparisons work
// through errors.Is even after wrapping.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context, preserving the code of
// an inner AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Is reports whether any error in err's chain matches target. It is
// the standard-library errors.Is, re-exported so callers need only
// one errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is the standard-library errors.As, re-exported for the same
// reason as Is.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN".
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Error codes used across the solver core.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInfeasible         = "INFEASIBLE"
	CodeExactUnsupported   = "EXACT_UNSUPPORTED"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeInternalError      = "INTERNAL_ERROR"
)

// InvalidInput reports a rejected design parameter. These are raised
// before any computation and are never downgraded to warnings.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// InvalidInputf is InvalidInput with formatting.
func InvalidInputf(format string, args ...any) *AppError {
	return Newf(CodeInvalidInput, format, args...)
}

// Infeasible reports a design whose target power cannot be reached
// within the solver's configured ceiling.
func Infeasible(message string) *AppError {
	return New(CodeInfeasible, message)
}

// ConfigInvalid reports malformed environment configuration.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}
