package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(capture *string) *gin.Engine {
		e := gin.New()
		e.Use(correlationMiddleware())
		e.GET("/widgets", func(c *gin.Context) {
			*capture = CorrelationID(c.Request.Context())
			c.Status(http.StatusNoContent)
		})
		return e
	}

	t.Run("honors an incoming correlation id", func(t *testing.T) {
		var seen string
		engine := newEngine(&seen)

		r := httptest.NewRequest(http.MethodGet, "/widgets", nil)
		r.Header.Set(CorrelationHeader, "corr-123")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, r)

		assert.Equal(t, "corr-123", seen)
		assert.Equal(t, "corr-123", w.Header().Get(CorrelationHeader))
	})

	t.Run("mints an id when the header is absent", func(t *testing.T) {
		var seen string
		engine := newEngine(&seen)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets", nil))

		assert.NotEmpty(t, seen)
		assert.NotEqual(t, "NONE", seen)
		assert.Len(t, seen, 32)
		assert.Equal(t, seen, w.Header().Get(CorrelationHeader))
	})
}

func TestCorrelationIDFallback(t *testing.T) {
	assert.Equal(t, "NONE", CorrelationID(context.Background()))
}
