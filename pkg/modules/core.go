package modules

import (
	"github.com/fwplatform/service-chassis/pkg/core/config"
	"github.com/fwplatform/service-chassis/pkg/core/health"
	"github.com/fwplatform/service-chassis/pkg/core/killswitch"
	"github.com/fwplatform/service-chassis/pkg/core/logger"
	"github.com/fwplatform/service-chassis/pkg/core/secrets"
	"github.com/fwplatform/service-chassis/pkg/core/worker"
	"go.uber.org/fx"
)

// NewCoreModule provides core functionality: config, logging, readiness,
// secrets, the kill switch and background workers.
func NewCoreModule() fx.Option {
	return fx.Options(
		logger.NewZapLoggingModule(),
		config.NewDotEnvModule(),
		config.NewAppConfigModule(),
		config.NewViperModule(),
		health.NewReadinessModule(),
		secrets.NewSecretsModule(),
		killswitch.NewKillSwitchModule(),
		worker.NewWorkersModule(),
	)
}
