// Package errors provides structured error types for isotower.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (bad edges, bad permutations, bad files)
//   - NOT_FOUND / FILE_NOT_FOUND: Missing resources
//   - NO_REFINABLE_CLASS, SEARCH_ABORTED: Outcomes of the branching search
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidEdge, "vertex %d out of range", v)
//	if errors.Is(err, errors.ErrCodeInvalidEdge) {
//	    // Handle invalid input
//	}
//
//	// Wrap a sentinel so both code and sentinel checks succeed
//	err := errors.Wrap(errors.ErrCodeInvalidEdge, graph.ErrSelfLoop, "edge %d-%d", u, v)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidEdge        Code = "INVALID_EDGE"
	ErrCodeInvalidPermutation Code = "INVALID_PERMUTATION"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Search outcomes
	ErrCodeNoRefinableClass Code = "NO_REFINABLE_CLASS"
	ErrCodeSearchAborted    Code = "SEARCH_ABORTED"

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
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err carries one of the INVALID_* codes.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidEdge,
		ErrCodeInvalidPermutation, ErrCodeInvalidConfig:
		return true
	}
	return false
}

// BudgetError describes a caller-imposed search budget that was exhausted.
type BudgetError struct {
	Nodes int    // Search nodes visited before the abort
	Limit string // Which budget fired, e.g. "max_nodes" or "deadline"
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	return fmt.Sprintf("search budget %s exhausted after %d nodes", e.Limit, e.Nodes)
}

// Code returns the error code for this error type.
func (e *BudgetError) Code() Code {
	return ErrCodeSearchAborted
}
