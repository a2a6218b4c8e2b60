package problems

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/fwplatform/service-chassis/pkg/core/faults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyProblemPassThrough(t *testing.T) {
	t.Run("keeps an explicitly raised problem unchanged", func(t *testing.T) {
		raised := New(http.StatusForbidden, "no access to this resource")
		raised.Instance = "/custom/instance"

		p := Classify("/widgets/1", raised)

		assert.True(t, p.Equal(raised))
	})

	t.Run("fills instance with the request path when absent", func(t *testing.T) {
		raised := New(http.StatusForbidden, "no access to this resource")

		p := Classify("/widgets/1", raised)

		assert.Equal(t, "/widgets/1", p.Instance)
		assert.Equal(t, http.StatusForbidden, p.Status)
	})

	t.Run("does not mutate the original record", func(t *testing.T) {
		raised := New(http.StatusForbidden, "no access to this resource")

		_ = Classify("/widgets/1", raised)

		assert.Empty(t, raised.Instance)
	})

	t.Run("unwraps a problem raised behind fmt.Errorf", func(t *testing.T) {
		raised := New(http.StatusGone, "resource expired")

		p := Classify("/widgets/1", fmt.Errorf("handler failed: %w", raised))

		assert.Equal(t, http.StatusGone, p.Status)
		assert.Equal(t, "resource expired", p.Detail)
	})
}

func TestClassifyFields(t *testing.T) {
	t.Run("builds a problem from recognized members", func(t *testing.T) {
		p := Classify("/widgets/1", Fields{
			"title":  "Out of Stock",
			"status": 409,
			"detail": "widget is out of stock",
		})

		assert.Equal(t, "Out of Stock", p.Title)
		assert.Equal(t, 409, p.Status)
		assert.Equal(t, "widget is out of stock", p.Detail)
		assert.Equal(t, "/widgets/1", p.Instance)
		assert.Equal(t, TypeProblem, p.Type)
	})

	t.Run("preserves unrecognized members as extensions", func(t *testing.T) {
		p := Classify("/widgets/1", Fields{
			"status":   400,
			"sku":      "W-1",
			"retry_in": 30,
		})

		assert.Equal(t, 400, p.Status)
		assert.Equal(t, "W-1", p.Extensions["sku"])
		assert.Equal(t, 30, p.Extensions["retry_in"])
	})

	t.Run("substitutes defaults for missing members", func(t *testing.T) {
		p := Classify("/widgets/1", Fields{"detail": "something odd"})

		assert.Equal(t, http.StatusInternalServerError, p.Status)
		assert.Equal(t, "Internal Server Error", p.Title)
		assert.Equal(t, TypeProblem, p.Type)
	})

	t.Run("accepts a float status as decoded from JSON", func(t *testing.T) {
		p := Classify("/widgets/1", Fields{"status": float64(404)})

		assert.Equal(t, http.StatusNotFound, p.Status)
	})
}

func TestClassifyHTTPError(t *testing.T) {
	t.Run("renders the documented not-found scenario", func(t *testing.T) {
		p := Classify("/widgets/9", NewHTTPError(http.StatusNotFound, "Resource not found."))

		assert.Equal(t, TypeHTTP, p.Type)
		assert.Equal(t, "Not Found", p.Title)
		assert.Equal(t, http.StatusNotFound, p.Status)
		assert.Equal(t, "Resource not found.", p.Detail)
		assert.Equal(t, "/widgets/9", p.Instance)
		assert.Empty(t, p.Errors)
	})

	t.Run("carries caller-supplied entries", func(t *testing.T) {
		fault := NewHTTPError(http.StatusBadGateway, "upstream failed")
		fault.Errors = []Entry{{"upstream": "billing"}}

		p := Classify("/widgets/9", fault)

		require.Len(t, p.Errors, 1)
		assert.Equal(t, "billing", p.Errors[0]["upstream"])
	})
}

func TestClassifyValidationError(t *testing.T) {
	violations := []Entry{
		{"loc": []string{"body", "name"}, "msg": "field required", "type": "missing"},
		{"loc": []string{"body", "kind"}, "msg": "invalid enum value", "type": "enum"},
		{"loc": []string{"query", "limit"}, "msg": "must be positive", "type": "int"},
	}

	p := Classify("/widgets", NewValidationError(violations...))

	assert.Equal(t, TypeValidation, p.Type)
	assert.Equal(t, "Validation Error", p.Title)
	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Equal(t, validationDetail, p.Detail)
	assert.Equal(t, "/widgets", p.Instance)

	// one entry per violation, verbatim
	require.Len(t, p.Errors, len(violations))
	for i, v := range violations {
		assert.Equal(t, v, p.Errors[i])
	}
}

func TestClassifyDomainFaults(t *testing.T) {
	tests := []struct {
		name   string
		fault  *faults.Error
		status int
	}{
		{"validation failure maps to 400", faults.ValidationFailure("bad name"), http.StatusBadRequest},
		{"not found maps to 404", faults.NotFound("no such widget"), http.StatusNotFound},
		{"conflict maps to 409", faults.Conflict("name taken"), http.StatusConflict},
		{"unknown variant maps to 500", &faults.Error{Kind: faults.KindUnknown, Message: "odd"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Classify("/widgets/1", tt.fault)

			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, tt.fault.Message, p.Detail)
			assert.Equal(t, "/widgets/1", p.Instance)
		})
	}
}

func TestClassifyUncaught(t *testing.T) {
	t.Run("renders the documented boom scenario", func(t *testing.T) {
		p := Classify("/widgets/1", errors.New("boom"))

		assert.Equal(t, TypeUncaught, p.Type)
		assert.Equal(t, "Internal Server Error", p.Title)
		assert.Equal(t, http.StatusInternalServerError, p.Status)
		assert.Equal(t, uncaughtDetail, p.Detail)
		assert.Equal(t, "/widgets/1", p.Instance)

		require.Len(t, p.Errors, 1)
		entry := p.Errors[0]
		assert.Equal(t, "*errors.errorString", entry["exception_type"])
		assert.Equal(t, "boom", entry["exception_message"])
		assert.NotEmpty(t, entry["exception_stack_trace"])
	})

	t.Run("uses the stack captured at the panic site", func(t *testing.T) {
		pe := &PanicError{Value: "kaboom", Stack: []byte("goroutine 1 [running]:\nmain.main()")}

		p := Classify("/widgets/1", pe)

		require.Len(t, p.Errors, 1)
		entry := p.Errors[0]
		assert.Equal(t, "string", entry["exception_type"])
		assert.Equal(t, "kaboom", entry["exception_message"])
		assert.Equal(t, "goroutine 1 [running]:\nmain.main()", entry["exception_stack_trace"])
	})

	t.Run("never faults on a nil error", func(t *testing.T) {
		p := Classify("/widgets/1", nil)

		assert.Equal(t, TypeUncaught, p.Type)
		assert.Equal(t, http.StatusInternalServerError, p.Status)
	})
}
