// Package errors provides structured error types for wallplan.
//
// Every hard failure raised by the planning engine (a rejected placement, a
// malformed wall, an inconsistent mirror pairing) is an [*Error] carrying a
// machine-readable [Code]. A Code is itself an error, so the standard
// library finds it anywhere in a wrapped chain:
//
//	cells, err := placer.Place(w, cells, v, x, y)
//	if errors.Is(err, errs.ErrCodeOverlap) {
//	    // tell the user which cabinet is in the way
//	}
//
// Soft, plan-level conditions (an overloaded port, a breaker over its derated
// capacity) are never errors; they are reported as warnings on the plan.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: malformed input rejected before planning
//   - UNKNOWN_*: a referenced catalog entry or cell does not exist
//   - placement codes: OUT_OF_BOUNDS, OVERLAP
//   - INTERNAL_*: unexpected internal errors
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

// Error returns the code itself, letting a Code serve as an errors.Is target.
func (c Code) Error() string { return string(c) }

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidWall      Code = "INVALID_WALL"
	ErrCodeInvalidVariant   Code = "INVALID_VARIANT"
	ErrCodeInvalidProcessor Code = "INVALID_PROCESSOR"
	ErrCodeInvalidOptions   Code = "INVALID_OPTIONS"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidProject   Code = "INVALID_PROJECT"

	// Placement errors
	ErrCodeOutOfBounds Code = "OUT_OF_BOUNDS"
	ErrCodeOverlap     Code = "OVERLAP"

	// Lookup errors
	ErrCodeUnknownVariant   Code = "UNKNOWN_VARIANT"
	ErrCodeUnknownProcessor Code = "UNKNOWN_PROCESSOR"
	ErrCodeUnknownWall      Code = "UNKNOWN_WALL"
	ErrCodeUnknownCell      Code = "UNKNOWN_CELL"
	ErrCodeUnknownSource    Code = "UNKNOWN_SOURCE"

	// IMAG pairing errors
	ErrCodeMirrorLink      Code = "MIRROR_LINK"
	ErrCodeCircuitMismatch Code = "CIRCUIT_MISMATCH"

	// File errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a failure tagged with a Code. Cause is optional.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message: cause". A cause carrying the same code is
// rendered without repeating it.
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.detail()
}

func (e *Error) detail() string {
	if e.Cause == nil {
		return e.Message
	}
	if inner, ok := e.Cause.(*Error); ok && inner.Code == e.Code {
		return e.Message + ": " + inner.detail()
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches a Code target against e's own code.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags cause with code and a formatted message.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	return errors.Is(err, code)
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err for display, dropping the code prefix when err is
// itself an *Error.
func UserMessage(err error) string {
	if e, ok := err.(*Error); ok {
		return e.detail()
	}
	return err.Error()
}
