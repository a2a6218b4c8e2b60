package middleware

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config controls request logging.
type Config struct {
	// LogExcludePaths lists request paths never logged (probes mostly).
	LogExcludePaths []string `mapstructure:"log-exclude-paths"`
}

func newConfig(v *viper.Viper, logger *zap.Logger) (Config, error) {
	cfg := Config{
		LogExcludePaths: []string{"/health/live", "/health/ready"},
	}

	if sub := v.Sub("middleware"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load middleware config: %w", err)
		}
	}

	logger.Info("loaded middleware config", zap.Strings("logExcludePaths", cfg.LogExcludePaths))
	return cfg, nil
}
