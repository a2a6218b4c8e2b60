package secrets

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config controls secret caching.
type Config struct {
	// TTL is how long a fetched secret stays valid in memory.
	TTL time.Duration `mapstructure:"ttl"`
}

func newConfig(v *viper.Viper, logger *zap.Logger) (Config, error) {
	cfg := Config{
		TTL: 5 * time.Minute,
	}

	if sub := v.Sub("secrets"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load secrets config: %w", err)
		}
	}

	logger.Info("loaded secrets config", zap.Duration("ttl", cfg.TTL))
	return cfg, nil
}
