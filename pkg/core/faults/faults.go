// Package faults defines the domain fault taxonomy shared by services built on
// the chassis. Faults carry a variant tag so HTTP layers can map them to status
// codes without inspecting error strings.
package faults

import "fmt"

// Kind tags a domain fault variant.
type Kind int

const (
	// KindUnknown is the zero value; it maps to an internal server error.
	KindUnknown Kind = iota
	// KindValidationFailure indicates input that violates a domain rule.
	KindValidationFailure
	// KindNotFound indicates a requested entity that does not exist.
	KindNotFound
	// KindConflict indicates a value that conflicts with existing state.
	KindConflict
)

// String returns the string representation of the fault kind.
func (k Kind) String() string {
	switch k {
	case KindValidationFailure:
		return "validation_failure"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a domain fault with a variant tag and a user-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the wrapped cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches an underlying cause to the fault.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// ValidationFailure creates a validation-failure fault.
func ValidationFailure(format string, args ...any) *Error {
	return &Error{Kind: KindValidationFailure, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found fault.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict fault.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}
