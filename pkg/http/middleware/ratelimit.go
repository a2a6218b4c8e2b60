package middleware

import (
	"net/http"

	"github.com/fwplatform/service-chassis/pkg/http/problems"
	"github.com/fwplatform/service-chassis/pkg/http/server"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

// NewRateLimitMiddleware creates a rate limiting middleware.
func NewRateLimitMiddleware(serverConfig server.Config, priority int) Middleware {
	config := serverConfig.RateLimit

	if config.Enabled == nil || !*config.Enabled {
		return Middleware{
			Priority: priority,
			Handler:  nil, // skipped in newEngine
		}
	}

	limiter := rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)

	return Middleware{
		Priority: priority,
		Handler: func(c *gin.Context) {
			// Probes must keep working under load
			if healthPath(c.Request.URL.Path) {
				c.Next()
				return
			}

			if !limiter.Allow() {
				p := problems.New(http.StatusTooManyRequests, "rate limit exceeded, please try again later")
				p.Instance = c.Request.URL.Path
				p.Write(c.Writer)
				c.Abort()
				return
			}

			c.Next()
		},
	}
}

// RateLimitModule adds rate limiting middleware to the application.
func RateLimitModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(serverConfig server.Config) Middleware {
				return NewRateLimitMiddleware(serverConfig, priority)
			},
			fx.ResultTags(`group:"gin_mw"`),
		),
	)
}
