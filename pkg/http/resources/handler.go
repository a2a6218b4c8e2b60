package resources

import (
	"net/http"
	"strings"

	"github.com/fwplatform/service-chassis/pkg/http/problems"
	"github.com/gin-gonic/gin"
)

type createRequest struct {
	Name   string            `json:"name"`
	Kind   string            `json:"kind"`
	Labels map[string]string `json:"labels"`
}

type patchRequest struct {
	Name   *string           `json:"name"`
	Kind   *string           `json:"kind"`
	Labels map[string]string `json:"labels"`
}

type handler struct {
	store *Store
}

func newHandler(store *Store) *handler {
	return &handler{store: store}
}

// validate checks a create/replace payload and returns one entry per
// violation in the shape the validation problem renders.
func (req createRequest) validate() []problems.Entry {
	var violations []problems.Entry
	if strings.TrimSpace(req.Name) == "" {
		violations = append(violations, problems.Entry{
			"loc": []string{"body", "name"}, "msg": "field required", "type": "missing",
		})
	}
	if strings.TrimSpace(req.Kind) == "" {
		violations = append(violations, problems.Entry{
			"loc": []string{"body", "kind"}, "msg": "field required", "type": "missing",
		})
	}
	return violations
}

func bindError(err error) *problems.ValidationError {
	return problems.NewValidationError(problems.Entry{
		"loc": []string{"body"}, "msg": err.Error(), "type": "json_invalid",
	})
}

func (h *handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	if violations := req.validate(); len(violations) > 0 {
		_ = c.Error(problems.NewValidationError(violations...))
		return
	}

	r, err := h.store.Create(req.Name, req.Kind, req.Labels)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *handler) get(c *gin.Context) {
	r, err := h.store.Get(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.store.List(c.Query("kind"))})
}

func (h *handler) replace(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	if violations := req.validate(); len(violations) > 0 {
		_ = c.Error(problems.NewValidationError(violations...))
		return
	}

	r, err := h.store.Replace(c.Param("id"), req.Name, req.Kind, req.Labels)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handler) patch(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	r, err := h.store.Patch(c.Param("id"), req.Name, req.Kind, req.Labels)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handler) delete(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
