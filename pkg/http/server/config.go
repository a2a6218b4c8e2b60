package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port int `mapstructure:"port"`

	// Server connection settings
	Connection ConnectionConfig `mapstructure:"connection"`

	// Request timeout (middleware-based, returns a problem response)
	Timeout TimeoutConfig `mapstructure:"timeout"`

	// Rate limiting
	RateLimit RateLimitConfig `mapstructure:"rate-limit"`
}

// ConnectionConfig contains low-level HTTP server connection settings.
// These are hard timeouts that close the connection without an HTTP response.
type ConnectionConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read-header-timeout"` // Time to read request headers (Slowloris protection)
	ReadTimeout       time.Duration `mapstructure:"read-timeout"`        // Time to read entire request (headers + body)
	WriteTimeout      time.Duration `mapstructure:"write-timeout"`       // Time to write response
	IdleTimeout       time.Duration `mapstructure:"idle-timeout"`        // Keep-alive timeout between requests
	MaxHeaderBytes    int           `mapstructure:"max-header-bytes"`    // Max size of request headers
}

type TimeoutConfig struct {
	Enabled        *bool         `mapstructure:"enabled"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
}

type RateLimitConfig struct {
	Enabled           *bool `mapstructure:"enabled"`
	RequestsPerSecond int   `mapstructure:"requests-per-second"`
	Burst             int   `mapstructure:"burst"`
}

func newConfig(v *viper.Viper, logger *zap.Logger) (Config, error) {
	var cfg Config
	if sub := v.Sub("server"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load server config: %w", err)
		}
	}

	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	cfg.Timeout.setDefaults()
	cfg.RateLimit.setDefaults()
	cfg.Connection.setDefaults(cfg.Timeout)

	logger.Info("loaded server config", zap.Any("config", cfg))
	return cfg, nil
}

// setDefaults sets default values for server connection settings.
func (c *ConnectionConfig) setDefaults(timeout TimeoutConfig) {
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		// WriteTimeout should exceed RequestTimeout so the middleware can
		// still send its timeout response.
		if timeout.Enabled != nil && *timeout.Enabled && timeout.RequestTimeout > 0 {
			c.WriteTimeout = timeout.RequestTimeout + 10*time.Second
		} else {
			c.WriteTimeout = 40 * time.Second
		}
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.MaxHeaderBytes == 0 {
		c.MaxHeaderBytes = 1 << 20 // 1 MB
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func (c *TimeoutConfig) setDefaults() {
	if c.Enabled == nil {
		c.Enabled = boolPtr(true)
	}
	if *c.Enabled && c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
}

func (c *RateLimitConfig) setDefaults() {
	if c.Enabled == nil {
		c.Enabled = boolPtr(true)
	}
	if !*c.Enabled {
		return
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 1000
	}
	if c.Burst == 0 {
		c.Burst = 100
	}
}
