// Package errors provides structured error types for ttlorder.
//
// Every failure the ordering core can produce carries a machine-readable
// [Code], so the CLI can decide how to react (abort a profile, continue with
// the next one) without string matching.
//
// # Error Codes
//
// Codes follow the failure taxonomy of the tool:
//   - INVALID_*, UNKNOWN_*, MALFORMED_*: configuration errors
//   - UNRESOLVABLE_*: a short-form identifier could not be expanded
//   - PARSE_ERROR: the source graph could not be read
//   - IO_ERROR: an output sink could not be written
//
// Cycles found while ordering are not errors; they are reported through
// observability hooks instead.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidMode, "unknown sort mode %q", mode)
//	if errors.Is(err, errors.ErrCodeInvalidMode) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidMode     Code = "INVALID_MODE"
	ErrCodeUnknownSelector Code = "UNKNOWN_SELECTOR"
	ErrCodeMalformedPrefix Code = "MALFORMED_PREFIX"
	ErrCodeInvalidName     Code = "INVALID_NAME"

	// Resolution errors
	ErrCodeUnresolvableRoot Code = "UNRESOLVABLE_ROOT"
	ErrCodeUnresolvable     Code = "UNRESOLVABLE_IDENTIFIER"

	// Lookup errors
	ErrCodeProfileNotFound Code = "PROFILE_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Input/output errors
	ErrCodeParse Code = "PARSE_ERROR"
	ErrCodeIO    Code = "IO_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsConfiguration reports whether err belongs to the configuration class of
// failures (unknown mode or selector, malformed prefix table, invalid config).
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConfig, ErrCodeInvalidMode, ErrCodeUnknownSelector,
		ErrCodeMalformedPrefix, ErrCodeInvalidName:
		return true
	}
	return false
}
