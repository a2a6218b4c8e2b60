package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	corehealth "github.com/fwplatform/service-chassis/pkg/core/health"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadinessChecker struct {
	isReady bool
	status  corehealth.ReadinessStatus
}

func (m *mockReadinessChecker) IsReady() bool {
	return m.isReady
}

func (m *mockReadinessChecker) GetStatus() corehealth.ReadinessStatus {
	return m.status
}

func newTestRouter(checker corehealth.ReadinessChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerHealthRoutes(r, newHealthHandler(checker))
	return r
}

func TestIsLive(t *testing.T) {
	r := newTestRouter(&mockReadinessChecker{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alive", w.Body.String())
}

func TestIsReady(t *testing.T) {
	t.Run("returns 200 when ready", func(t *testing.T) {
		r := newTestRouter(&mockReadinessChecker{isReady: true})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ready", w.Body.String())
	})

	t.Run("returns 503 when not ready", func(t *testing.T) {
		r := newTestRouter(&mockReadinessChecker{isReady: false})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "not ready", w.Body.String())
	})

	t.Run("returns component detail as JSON on request", func(t *testing.T) {
		checker := &mockReadinessChecker{
			isReady: true,
			status: corehealth.ReadinessStatus{
				Ready: true,
				Components: []corehealth.ComponentStatus{
					{Name: "http-server", Ready: true},
				},
			},
		}
		r := newTestRouter(checker)

		req := httptest.NewRequest(http.MethodGet, "/health/ready?format=json", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var status corehealth.ReadinessStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.True(t, status.Ready)
		require.Len(t, status.Components, 1)
		assert.Equal(t, "http-server", status.Components[0].Name)
	})

	t.Run("JSON detail reports 503 when a component is missing", func(t *testing.T) {
		checker := &mockReadinessChecker{
			isReady: false,
			status:  corehealth.ReadinessStatus{Ready: false},
		}
		r := newTestRouter(checker)

		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
