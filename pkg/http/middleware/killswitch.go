package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/fwplatform/service-chassis/pkg/core/killswitch"
	"github.com/fwplatform/service-chassis/pkg/core/logger"
	"github.com/fwplatform/service-chassis/pkg/http/problems"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const killSwitchDetail = "Kill-Switch is enabled. Please contact the service owner for more information."

// killSwitchMiddleware rejects requests with 503 while the kill switch is on.
// Excluded paths (probes, well-known endpoints) stay reachable so the
// platform does not restart a deliberately disabled service.
func killSwitchMiddleware(sw killswitch.Switch, cfg killswitch.Config, log *zap.Logger) gin.HandlerFunc {
	excluded := make(map[string]struct{}, len(cfg.ExcludePaths))
	for _, p := range cfg.ExcludePaths {
		excluded[normalizePath(p)] = struct{}{}
	}

	throttler := logger.NewThrottler(log, time.Minute)

	return func(c *gin.Context) {
		if !sw.Enabled() {
			c.Next()
			return
		}

		if _, ok := excluded[normalizePath(c.Request.URL.Path)]; ok {
			c.Next()
			return
		}

		throttler.Warn("kill-switch", "Rejecting request, kill-switch is enabled",
			zap.String("path", c.Request.URL.Path),
		)

		p := problems.New(http.StatusServiceUnavailable, killSwitchDetail)
		p.Instance = c.Request.URL.Path
		p.Write(c.Writer)
		c.Abort()
	}
}

func normalizePath(p string) string {
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// KillSwitchModule provides the kill-switch middleware.
func KillSwitchModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(sw killswitch.Switch, cfg killswitch.Config, log *zap.Logger) Middleware {
				return Middleware{Priority: priority, Handler: killSwitchMiddleware(sw, cfg, log)}
			},
			fx.ResultTags(`group:"gin_mw"`),
		),
	)
}
