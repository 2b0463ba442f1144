// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for script consumption.
package clierr

import (
	"fmt"
	"strconv"
)

// Error code constants — uppercase, underscore-separated, stable across minor versions.
const (
	TaskNotFound       = "TASK_NOT_FOUND"
	InvalidName        = "INVALID_NAME"
	InvalidDate        = "INVALID_DATE"
	DateInPast         = "DATE_IN_PAST"
	InvalidPriority    = "INVALID_PRIORITY"
	InvalidStatus      = "INVALID_STATUS"
	UnknownCategory    = "UNKNOWN_CATEGORY"
	UnknownProject     = "UNKNOWN_PROJECT"
	InvalidTaskID      = "INVALID_TASK_ID"
	InvalidField       = "INVALID_FIELD"
	InvalidInput       = "INVALID_INPUT"
	NoChanges          = "NO_CHANGES"
	ConfirmationReq    = "CONFIRMATION_REQUIRED"
	RateLimited        = "RATE_LIMITED"
	RetryLimitExceeded = "RETRY_LIMIT_EXCEEDED"
	RemoteRejected     = "REMOTE_REJECTED"
	ConfigExists       = "CONFIG_EXISTS"
	ConfigNotFound     = "CONFIG_NOT_FOUND"
	InternalError      = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Wrapped }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that carries an underlying cause.
func Wrap(code string, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// SilentError signals an exit code without additional output.
// Used by batch operations where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
