package killswitch

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config controls the kill-switch poller and which paths stay reachable while
// the switch is on.
type Config struct {
	// Path is the location of the JSON flag file. Empty disables the switch.
	Path string `mapstructure:"path"`
	// Interval is how often the flag file is re-read.
	Interval time.Duration `mapstructure:"interval"`
	// ExcludePaths lists request paths served even while the switch is on.
	ExcludePaths []string `mapstructure:"exclude-paths"`
}

func newConfig(v *viper.Viper, logger *zap.Logger) (Config, error) {
	cfg := Config{
		Interval: 10 * time.Second,
	}

	if sub := v.Sub("kill-switch"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load kill-switch config: %w", err)
		}
	}

	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}

	logger.Info("loaded kill-switch config",
		zap.String("path", cfg.Path),
		zap.Duration("interval", cfg.Interval),
		zap.Strings("excludePaths", cfg.ExcludePaths),
	)
	return cfg, nil
}
