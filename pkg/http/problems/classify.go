package problems

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/fwplatform/service-chassis/pkg/core/faults"
)

// Fixed detail strings for classified faults.
const (
	validationDetail = "One or more user-provided parameters are invalid, please see errors for details."
	uncaughtDetail   = "Uncaught exception occurred while processing the request."
)

// Classify maps a caught fault to exactly one Problem. The instance argument
// is the request path identifying the occurrence; it fills the Instance field
// whenever the fault did not supply one.
//
// Classification is pure: it performs no I/O and never fails. Faults are
// dispatched in precedence order, and anything unrecognized falls through to
// the uncaught branch.
func Classify(instance string, err error) *Problem {
	var (
		asProblem    *Problem
		asFields     Fields
		asHTTP       *HTTPError
		asValidation *ValidationError
		asDomain     *faults.Error
	)

	switch {
	case errors.As(err, &asProblem):
		p := asProblem.clone()
		p.applyDefaults()
		if p.Instance == "" {
			p.Instance = instance
		}
		return p

	case errors.As(err, &asFields):
		p := fromMembers(asFields)
		p.applyDefaults()
		if p.Instance == "" {
			p.Instance = instance
		}
		return p

	case errors.As(err, &asHTTP):
		p := New(asHTTP.Status, asHTTP.Detail)
		p.Type = TypeHTTP
		p.Instance = instance
		p.Errors = asHTTP.Errors
		return p

	case errors.As(err, &asValidation):
		p := New(http.StatusUnprocessableEntity, validationDetail)
		p.Type = TypeValidation
		p.Title = "Validation Error"
		p.Instance = instance
		p.Errors = asValidation.Violations
		return p

	case errors.As(err, &asDomain):
		p := New(domainStatus(asDomain.Kind), asDomain.Message)
		p.Instance = instance
		return p

	default:
		return uncaught(instance, err)
	}
}

// domainStatus maps domain fault variants to HTTP status codes.
func domainStatus(kind faults.Kind) int {
	switch kind {
	case faults.KindValidationFailure:
		return http.StatusBadRequest
	case faults.KindNotFound:
		return http.StatusNotFound
	case faults.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func uncaught(instance string, err error) *Problem {
	faultType := fmt.Sprintf("%T", err)
	message := "unknown fault"
	stack := debug.Stack()

	if err != nil {
		message = err.Error()
	}

	var pe *PanicError
	if errors.As(err, &pe) {
		faultType = fmt.Sprintf("%T", pe.Value)
		message = fmt.Sprint(pe.Value)
		if len(pe.Stack) > 0 {
			stack = pe.Stack
		}
	}

	p := New(http.StatusInternalServerError, uncaughtDetail)
	p.Type = TypeUncaught
	p.Instance = instance
	p.Errors = []Entry{{
		"exception_type":        faultType,
		"exception_message":     message,
		"exception_stack_trace": string(stack),
	}}
	return p
}

// fromMembers builds a Problem from raw members without applying defaults.
// Recognized members populate standard fields leniently; unrecognized members
// are preserved as extensions.
func fromMembers(m map[string]any) *Problem {
	p := &Problem{}
	for k, v := range m {
		switch k {
		case "type":
			p.Type = asString(v)
		case "title":
			p.Title = asString(v)
		case "status":
			p.Status = asInt(v)
		case "detail":
			p.Detail = asString(v)
		case "instance":
			p.Instance = asString(v)
		case "traceId":
			p.TraceID = asString(v)
		case "errors":
			p.Errors = asEntries(v)
		default:
			if p.Extensions == nil {
				p.Extensions = make(map[string]any)
			}
			p.Extensions[k] = v
		}
	}
	return p
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asEntries(v any) []Entry {
	switch entries := v.(type) {
	case []Entry:
		return entries
	case []map[string]any:
		out := make([]Entry, 0, len(entries))
		for _, e := range entries {
			out = append(out, Entry(e))
		}
		return out
	case []any:
		out := make([]Entry, 0, len(entries))
		for _, e := range entries {
			if m, ok := e.(map[string]any); ok {
				out = append(out, Entry(m))
			}
		}
		return out
	default:
		return nil
	}
}
