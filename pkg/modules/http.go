package modules

import (
	"github.com/fwplatform/service-chassis/pkg/http/health"
	"github.com/fwplatform/service-chassis/pkg/http/middleware"
	"github.com/fwplatform/service-chassis/pkg/http/problems"
	"github.com/fwplatform/service-chassis/pkg/http/server"
	"go.uber.org/fx"
)

// NewHTTPModule provides the HTTP surface: problem handling, the middleware
// chain, probe routes and the server itself.
func NewHTTPModule() fx.Option {
	return fx.Options(
		problems.NewHandlerModule(),
		middleware.NewGinModule(),
		health.NewHealthRoutesModule(),
		server.NewHTTPServerModule(),
	)
}
