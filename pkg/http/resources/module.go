package resources

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// NewResourcesModule provides the example resource store and its routes.
func NewResourcesModule() fx.Option {
	return fx.Options(
		fx.Provide(NewStore, newHandler),
		fx.Invoke(registerRoutes),
	)
}

func registerRoutes(r *gin.Engine, h *handler) {
	r.POST("/resources", h.create)
	r.GET("/resources", h.list)
	r.GET("/resources/:id", h.get)
	r.PUT("/resources/:id", h.replace)
	r.PATCH("/resources/:id", h.patch)
	r.DELETE("/resources/:id", h.delete)
}
