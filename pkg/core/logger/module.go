package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// moduleOptions holds internal configuration for the logging module.
type moduleOptions struct {
	config *Config
}

// ModuleOption is a functional option for configuring the logging module.
type ModuleOption func(*moduleOptions)

// WithLoggerConfig provides a static logger Config (useful for tests).
// When set, the configuration will not be loaded from viper.
func WithLoggerConfig(cfg Config) ModuleOption {
	return func(o *moduleOptions) {
		o.config = &cfg
	}
}

// NewZapLoggingModule creates an fx module providing a configured *zap.Logger
// and routing fx's own lifecycle events through it.
func NewZapLoggingModule(opts ...ModuleOption) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var configProvider any = newConfig
	if o.config != nil {
		static := *o.config
		configProvider = func() (Config, error) { return static, nil }
	}

	return fx.Options(
		fx.Provide(
			configProvider,
			provideLogger,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)
}

func provideLogger(lc fx.Lifecycle, conf Config) (*zap.Logger, error) {
	log, err := newLogger(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := log.Sync(); err != nil {
				// Syncing stderr is not supported on some platforms.
				if pathErr, ok := err.(*os.PathError); ok && pathErr.Err.Error() == "invalid argument" {
					return nil
				}
				return err
			}
			return nil
		},
	})

	return log, nil
}
