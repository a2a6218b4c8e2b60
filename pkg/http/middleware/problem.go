package middleware

import (
	"github.com/fwplatform/service-chassis/pkg/http/problems"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// problemMiddleware converts errors attached to the gin context into problem
// responses. Handlers report faults with c.Error and leave the body unwritten;
// this middleware classifies the first error and renders it.
func problemMiddleware(render problems.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		render(c.Writer, c.Request, c.Errors[0].Err)
	}
}

// ProblemModule provides the problem conversion middleware.
func ProblemModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(render problems.Handler) Middleware {
				return Middleware{Priority: priority, Handler: problemMiddleware(render)}
			},
			fx.ResultTags(`group:"gin_mw"`),
		),
	)
}
