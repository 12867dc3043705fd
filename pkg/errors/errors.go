package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown   ErrorCode = "UNKNOWN"
	ErrInternal  ErrorCode = "INTERNAL"
	ErrCancelled ErrorCode = "CANCELLED"

	// Path errors
	ErrInvalidPath ErrorCode = "INVALID_PATH"
	ErrHomeDir     ErrorCode = "HOME_DIR"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrConfigWrite ErrorCode = "CONFIG_WRITE"

	// Repository errors
	ErrRepoNotFound ErrorCode = "REPO_NOT_FOUND"
	ErrRepoInvalid  ErrorCode = "REPO_INVALID"

	// Link task errors
	ErrConflict       ErrorCode = "CONFLICT"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrUnreachable    ErrorCode = "UNREACHABLE"
	ErrDirCreate      ErrorCode = "DIR_CREATE"
	ErrSymlinkCreate  ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkReplace ErrorCode = "SYMLINK_REPLACE"

	// Hook errors
	ErrHookFailed ErrorCode = "HOOK_FAILED"
)

// RodeoError represents a structured error with code and details
type RodeoError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RodeoError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RodeoError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RodeoError) Is(target error) bool {
	var targetErr *RodeoError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RodeoError with the given code and message
func New(code ErrorCode, message string) *RodeoError {
	return &RodeoError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RodeoError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RodeoError {
	return &RodeoError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RodeoError.
// A nil err yields a nil *RodeoError; do not return it through an error
// interface without checking first.
func Wrap(err error, code ErrorCode, message string) *RodeoError {
	if err == nil {
		return nil
	}
	return &RodeoError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RodeoError {
	if err == nil {
		return nil
	}
	return &RodeoError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WrapFS wraps a filesystem error. Permission failures are reported as
// ErrPermission regardless of the requested code so that callers can tell
// an OS refusal apart from other failures.
func WrapFS(err error, code ErrorCode, message string) *RodeoError {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrPermission) {
		code = ErrPermission
	}
	return Wrap(err, code, message)
}

// WithDetail adds a detail to the error
func (e *RodeoError) WithDetail(key string, value interface{}) *RodeoError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *RodeoError) WithDetails(details map[string]interface{}) *RodeoError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// Is reports whether any error in err's chain matches target.
// It forwards to the standard library so callers need a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rodeoErr *RodeoError
	if errors.As(err, &rodeoErr) {
		return rodeoErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RodeoError
func GetErrorCode(err error) ErrorCode {
	var rodeoErr *RodeoError
	if errors.As(err, &rodeoErr) {
		return rodeoErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RodeoError
func GetErrorDetails(err error) map[string]interface{} {
	var rodeoErr *RodeoError
	if errors.As(err, &rodeoErr) {
		return rodeoErr.Details
	}
	return nil
}
