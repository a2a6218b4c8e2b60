package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwplatform/service-chassis/pkg/http/problems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntercept(t *testing.T) {
	render := problems.NewHandler()

	t.Run("passes healthy requests through untouched", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		Intercept(render)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Content-Type"))
	})

	t.Run("renders a problem for a panic and re-raises it", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/widgets/1", nil)

		var recovered any
		func() {
			defer func() { recovered = recover() }()
			Intercept(render)(next).ServeHTTP(w, r)
		}()

		require.NotNil(t, recovered)
		var pe *problems.PanicError
		require.ErrorAs(t, recovered.(error), &pe)
		assert.Equal(t, "boom", pe.Value)
		assert.NotEmpty(t, pe.Stack)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, problems.ContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "exception:uncaught")
		assert.Contains(t, w.Body.String(), "/widgets/1")
	})

	t.Run("leaves a started response alone", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("partial"))
			panic(errors.New("mid-stream failure"))
		})

		w := httptest.NewRecorder()

		var recovered any
		func() {
			defer func() { recovered = recover() }()
			Intercept(render)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets", nil))
		}()

		require.NotNil(t, recovered)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "partial", w.Body.String())
	})

	t.Run("propagates ErrAbortHandler without rendering", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})

		w := httptest.NewRecorder()

		var recovered any
		func() {
			defer func() { recovered = recover() }()
			Intercept(render)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets", nil))
		}()

		assert.Equal(t, http.ErrAbortHandler, recovered)
		assert.Empty(t, w.Body.String())
	})
}
