// Package domainerrors carries a stable machine-readable code alongside the
// human-readable message, so transport layers can map errors to responses
// without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeBadRequest marks a request that could not be understood at all
	// (malformed body, non-integer path segment).
	CodeBadRequest Code = "bad_request"

	// CodeValidation marks well-formed input that fails a domain rule
	// (unknown rarity tier, wrong CID length, oversized batch).
	CodeValidation Code = "validation"

	// CodeUnauthorized marks a caller lacking the administrator capability.
	CodeUnauthorized Code = "unauthorized"

	// CodeNotFound marks a reference to a record that does not exist.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a mutation that lost a concurrency race.
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks an operation that would break a
	// structural guarantee, such as a gap in a dense ID sequence.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks an unexpected backend failure.
	CodeInternal Code = "internal"
)

// Error is a classified domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error without losing it from the chain.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// CodeOf returns the code carried by err, or CodeInternal for unclassified
// errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
