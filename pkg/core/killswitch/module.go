package killswitch

import (
	"github.com/fwplatform/service-chassis/pkg/core/worker"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewKillSwitchModule provides the Switch and, when a flag file is configured,
// the background poller keeping it fresh.
func NewKillSwitchModule() fx.Option {
	return fx.Options(
		fx.Provide(
			newConfig,
			func(cfg Config, logger *zap.Logger) *Poller {
				if cfg.Path == "" {
					return nil
				}
				return NewPoller(cfg.Path, cfg.Interval, logger)
			},
			func(p *Poller) Switch {
				if p == nil {
					return Disabled{}
				}
				return p
			},
		),
		fx.Provide(worker.Register[*Poller]("kill-switch-poller")),
	)
}
