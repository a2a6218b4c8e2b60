package config

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// dotenvOptions holds configuration for the dotenv module.
type dotenvOptions struct {
	path   string
	loaded bool
}

// DotEnvOption is a functional option for configuring the dotenv module.
type DotEnvOption func(*dotenvOptions)

// WithDotEnvPath sets a custom path to the .env file.
func WithDotEnvPath(path string) DotEnvOption {
	return func(o *dotenvOptions) {
		o.path = path
	}
}

// NewDotEnvModule loads environment variables from a .env file.
// Loading happens synchronously when the module is created so that values are
// visible to every other config provider.
func NewDotEnvModule(opts ...DotEnvOption) fx.Option {
	o := &dotenvOptions{path: ".env"}
	for _, opt := range opts {
		opt(o)
	}

	err := godotenv.Load(o.path)
	o.loaded = err == nil

	return fx.Module("dotenv",
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					if o.loaded {
						logger.Info("Loaded .env file", zap.String("path", o.path))
					} else {
						logger.Debug("No .env file loaded", zap.String("path", o.path))
					}
					return nil
				},
			})
		}),
	)
}
