package middleware

import (
	"context"
	"net/http"

	"github.com/fwplatform/service-chassis/pkg/http/problems"
	"github.com/fwplatform/service-chassis/pkg/http/server"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewTimeoutMiddleware bounds request processing time. Handlers observe the
// deadline through the request context; when it fires before the handler
// wrote anything, the client gets a 504 problem.
func NewTimeoutMiddleware(serverConfig server.Config, log *zap.Logger, priority int) Middleware {
	config := serverConfig.Timeout

	if config.Enabled == nil || !*config.Enabled {
		return Middleware{
			Priority: priority,
			Handler:  nil,
		}
	}

	log.Info("HTTP timeout middleware initialized",
		zap.Duration("request-timeout", config.RequestTimeout),
	)

	return Middleware{
		Priority: priority,
		Handler: func(c *gin.Context) {
			if healthPath(c.Request.URL.Path) {
				c.Next()
				return
			}

			ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestTimeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)

			c.Next()

			if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
				log.Warn("HTTP request timeout",
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.Duration("timeout", config.RequestTimeout),
				)

				p := problems.New(http.StatusGatewayTimeout, "request took too long to process")
				p.Instance = c.Request.URL.Path
				p.Write(c.Writer)
				c.Abort()
			}
		},
	}
}

// TimeoutModule adds timeout middleware to the application.
func TimeoutModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(serverConfig server.Config, log *zap.Logger) Middleware {
				return NewTimeoutMiddleware(serverConfig, log, priority)
			},
			fx.ResultTags(`group:"gin_mw"`),
		),
	)
}
