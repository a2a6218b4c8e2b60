package secrets

import (
	"go.uber.org/fx"
)

// moduleOptions holds configuration for the secrets module.
type moduleOptions struct {
	fetcher Fetcher
}

// ModuleOption is a functional option for configuring the module.
type ModuleOption func(*moduleOptions)

// WithFetcher overrides the secret source. The default reads environment
// variables.
func WithFetcher(f Fetcher) ModuleOption {
	return func(o *moduleOptions) {
		o.fetcher = f
	}
}

// NewSecretsModule provides a *Cache over the configured fetcher.
func NewSecretsModule(opts ...ModuleOption) fx.Option {
	o := &moduleOptions{fetcher: EnvFetcher{}}
	for _, opt := range opts {
		opt(o)
	}

	return fx.Module("secrets",
		fx.Provide(
			newConfig,
			func(cfg Config) *Cache {
				return NewCache(o.fetcher, cfg.TTL)
			},
		),
	)
}
