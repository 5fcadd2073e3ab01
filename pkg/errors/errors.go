// Package errors provides coded error types for knowtree.
//
// Every failure surfaced by the graph model, the outline parser and the
// record importers carries a machine-readable [Code], so callers can tell a
// bad input record from a programming error without matching on strings.
//
// # Error Codes
//
// Domain codes describe what went wrong while building a graph:
//   - UNKNOWN_KEY: a record key no synonym table recognizes
//   - TYPE_MISMATCH: wrong item kind for a block, wrong value kind for a key
//   - DUPLICATE_NAME: rename or non-merge registration onto a taken name
//   - NOT_FOUND: absent edge key, absent link target
//   - INVARIANT_VIOLATION: link/direction mismatch, cross-type block merge
//
// The remaining codes cover input handling around the core (files, formats).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownKey, "node %q: unknown key %q", name, key)
//	if errors.Is(err, errors.ErrCodeUnknownKey) {
//	    // skip the record
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, yamlErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph model errors
	ErrCodeUnknownKey         Code = "UNKNOWN_KEY"
	ErrCodeTypeMismatch       Code = "TYPE_MISMATCH"
	ErrCodeDuplicateName      Code = "DUPLICATE_NAME"
	ErrCodeNotFound           Code = "NOT_FOUND"
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

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
// It walks the whole chain, including errors combined with errors.Join,
// and matches the first *Error whose code equals code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return Is(x.Unwrap(), code)
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
		return e.Message
	}
	return err.Error()
}
