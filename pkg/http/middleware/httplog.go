package middleware

import (
	"strings"
	"time"

	"github.com/fwplatform/service-chassis/pkg/core/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Request tracing headers.
const (
	RequestIDHeader = "x-request-id"
	SourceHeader    = "x-source"
)

// httpLogMiddleware logs one line per request with timing and caller
// identity. The request id is echoed back so clients can quote it.
func httpLogMiddleware(cfg Config) gin.HandlerFunc {
	excluded := make(map[string]struct{}, len(cfg.LogExcludePaths))
	for _, p := range cfg.LogExcludePaths {
		excluded[normalizePath(p)] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := excluded[normalizePath(c.Request.URL.Path)]; ok {
			c.Next()
			return
		}

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = strings.ReplaceAll(uuid.NewString(), "-", "")
		}
		c.Writer.Header().Set(RequestIDHeader, requestID)

		log := logger.Get(c.Request.Context()).With(
			zap.String("requestId", requestID),
			zap.String("source", c.GetHeader(SourceHeader)),
		)
		c.Request = c.Request.WithContext(logger.With(c.Request.Context(), log))

		start := time.Now()
		log.Info("Incoming request", requestFields(c)...)

		c.Next()

		fields := append(requestFields(c),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("durationMs", time.Since(start).Milliseconds()),
			zap.Int("responseBytes", c.Writer.Size()),
		)
		log.Info("Request completed", fields...)
	}
}

// HTTPLogModule provides the request logging middleware.
func HTTPLogModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(cfg Config) Middleware {
				return Middleware{Priority: priority, Handler: httpLogMiddleware(cfg)}
			},
			fx.ResultTags(`group:"gin_mw"`),
		),
	)
}
