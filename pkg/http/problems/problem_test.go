package problems

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Run("fills type, title and status", func(t *testing.T) {
		p := New(0, "")

		assert.Equal(t, TypeProblem, p.Type)
		assert.Equal(t, http.StatusInternalServerError, p.Status)
		assert.Equal(t, "Internal Server Error", p.Title)
	})

	t.Run("derives title from the given status", func(t *testing.T) {
		p := New(http.StatusTeapot, "short and stout")

		assert.Equal(t, "I'm a teapot", p.Title)
		assert.Equal(t, "short and stout", p.Detail)
	})
}

func TestMarshalOmitsEmptyFields(t *testing.T) {
	t.Run("status-only record yields a status-only body", func(t *testing.T) {
		p := &Problem{Status: http.StatusServiceUnavailable}

		b, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":503}`, string(b))
	})

	t.Run("empty errors list is omitted", func(t *testing.T) {
		p := &Problem{Status: 404, Errors: []Entry{}}

		b, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":404}`, string(b))
	})

	t.Run("extensions surface as top-level members", func(t *testing.T) {
		p := &Problem{Status: 400, Extensions: map[string]any{"sku": "W-1"}}

		b, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":400,"sku":"W-1"}`, string(b))
	})

	t.Run("extensions never shadow standard members", func(t *testing.T) {
		p := &Problem{Status: 400, Detail: "real detail", Extensions: map[string]any{"detail": "shadow"}}

		b, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":400,"detail":"real detail"}`, string(b))
	})
}

func TestMarshalRoundTrip(t *testing.T) {
	orig := New(http.StatusConflict, "widget already exists")
	orig.Instance = "/widgets"
	orig.Errors = []Entry{{"field": "name", "msg": "duplicate"}}
	orig.Extensions = map[string]any{"sku": "W-1"}

	b, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded Problem
	require.NoError(t, json.Unmarshal(b, &decoded))

	assert.Equal(t, orig.Type, decoded.Type)
	assert.Equal(t, orig.Title, decoded.Title)
	assert.Equal(t, orig.Status, decoded.Status)
	assert.Equal(t, orig.Detail, decoded.Detail)
	assert.Equal(t, orig.Instance, decoded.Instance)
	assert.Equal(t, orig.Extensions, decoded.Extensions)
	require.Len(t, decoded.Errors, 1)
	assert.Equal(t, "name", decoded.Errors[0]["field"])
	assert.Equal(t, "duplicate", decoded.Errors[0]["msg"])
}

func TestEqual(t *testing.T) {
	a := New(http.StatusNotFound, "missing")
	a.Instance = "/widgets/1"
	b := New(http.StatusNotFound, "missing")
	b.Instance = "/widgets/1"

	assert.True(t, a.Equal(b))

	b.Detail = "gone"
	assert.False(t, a.Equal(b))

	var nilProblem *Problem
	assert.False(t, a.Equal(nilProblem))
	assert.True(t, nilProblem.Equal(nil))
}

func TestProblemAsError(t *testing.T) {
	p := New(http.StatusNotFound, "widget missing")

	assert.Equal(t, "problem<404 Not Found>: widget missing", p.Error())
}
