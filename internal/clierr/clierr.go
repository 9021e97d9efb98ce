// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error codes are uppercase and stable across minor versions.
const (
	ProjectNotFound      = "PROJECT_NOT_FOUND"
	TaskNotFound         = "TASK_NOT_FOUND"
	TrackerNotFound      = "TRACKER_NOT_FOUND"
	TrackerAlreadyExists = "TRACKER_ALREADY_EXISTS"
	ValidationFailed     = "VALIDATION_FAILED"
	InvalidInput         = "INVALID_INPUT"
	InvalidStatus        = "INVALID_STATUS"
	InvalidPriority      = "INVALID_PRIORITY"
	InvalidDate          = "INVALID_DATE"
	InvalidDateRange     = "INVALID_DATE_RANGE"
	InvalidGroupBy       = "INVALID_GROUP_BY"
	InvalidSortField     = "INVALID_SORT_FIELD"
	NoChanges            = "NO_CHANGES"
	ConfirmationReq      = "CONFIRMATION_REQUIRED"
	StorageUnavailable   = "STORAGE_UNAVAILABLE"
	InternalError        = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the cause attached with WithCause.
func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithCause returns the error with err attached as its cause, so that
// errors.Is and errors.As see through it.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// CodeOf returns the code of the first *Error in err's chain, or
// InternalError when there is none.
func CodeOf(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return InternalError
}

// SilentError signals an exit code without additional output.
// Used when results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
