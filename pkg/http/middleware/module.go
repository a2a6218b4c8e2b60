package middleware

import (
	"go.uber.org/fx"
)

// NewGinModule provides the gin engine with the full middleware chain and the
// interceptor-wrapped http.Handler the server listens with.
//
// Middleware execution order (by priority, lower = earlier):
//
//	10 - Correlation - binds the correlation id into the request context
//	20 - HTTPLog     - logs requests and echoes the request id
//	30 - KillSwitch  - rejects requests while the switch is on
//	40 - Timeout     - bounds request processing time
//	50 - RateLimit   - limits requests/second
//	80 - Problem     - converts handler errors to problem responses
func NewGinModule() fx.Option {
	return fx.Options(
		fx.Provide(newConfig),
		CorrelationModule(10),
		HTTPLogModule(20),
		KillSwitchModule(30),
		TimeoutModule(40),
		RateLimitModule(50),
		ProblemModule(80),
		fx.Provide(provideGinAndHandler),
	)
}
