package problems

import "fmt"

// HTTPError is a transport-level fault carrying an explicit status code and
// optional detail, raised by handlers that want a specific HTTP response.
type HTTPError struct {
	Status int
	Detail string
	Errors []Entry
}

// NewHTTPError creates a transport fault with the given status and detail.
func NewHTTPError(status int, detail string) *HTTPError {
	return &HTTPError{Status: status, Detail: detail}
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("http error %d", e.Status)
	}
	return fmt.Sprintf("http error %d: %s", e.Status, e.Detail)
}

// ValidationError is a request-validation fault carrying the field-level
// violations produced by input schema validation.
type ValidationError struct {
	Violations []Entry
}

// NewValidationError creates a validation fault from the given violations.
func NewValidationError(violations ...Entry) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("request validation failed with %d violation(s)", len(e.Violations))
}

// Fields is a raw key/value fault payload. It is the lenient escape hatch for
// ad hoc problem construction: recognized members populate the corresponding
// Problem fields, anything else is preserved as an extension member.
type Fields map[string]any

func (f Fields) Error() string {
	return fmt.Sprintf("problem fields<%v>", map[string]any(f))
}

// PanicError wraps a recovered panic value together with the stack captured
// at the recovery site, so the classifier can report the original stack
// rather than its own.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprint(e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
