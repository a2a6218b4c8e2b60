package middleware

import (
	"context"
	"strings"

	"github.com/fwplatform/service-chassis/pkg/core/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CorrelationHeader carries the correlation identifier across services.
const CorrelationHeader = "x-correlation-id"

type correlationCtxKey struct{}

// CorrelationID returns the correlation identifier bound to the context, or
// "NONE" when the request carried none.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationCtxKey{}).(string); ok && id != "" {
		return id
	}
	return "NONE"
}

// WithCorrelationID binds a correlation id to the context for code running
// outside the request path (jobs, consumers, tests).
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationCtxKey{}, id)
}

// correlationMiddleware honors an incoming correlation id or mints one, echoes
// it on the response, and binds it into the context logger so every log line
// for the request carries it.
func correlationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationHeader)
		if id == "" {
			id = strings.ReplaceAll(uuid.NewString(), "-", "")
		}

		c.Writer.Header().Set(CorrelationHeader, id)

		ctx := WithCorrelationID(c.Request.Context(), id)
		ctx = logger.With(ctx, logger.Get(ctx).With(zap.String("correlationId", id)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CorrelationModule provides the correlation id middleware.
func CorrelationModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func() Middleware {
				return Middleware{Priority: priority, Handler: correlationMiddleware()}
			},
			fx.ResultTags(`group:"gin_mw"`),
		),
	)
}
