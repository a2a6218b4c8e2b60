package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// viperOptions holds internal configuration options for the viper module.
type viperOptions struct {
	configPath   *string
	noConfigFile bool
}

// ViperOption is a functional option for configuring the viper module.
type ViperOption func(*viperOptions)

// WithConfigPath sets a direct path to the configuration file, overriding the
// path resolved from AppConfig.
func WithConfigPath(path string) ViperOption {
	return func(o *viperOptions) {
		o.configPath = &path
	}
}

// WithoutConfigFile disables loading of any config file. Viper remains
// available for DI with environment-variable configuration only.
func WithoutConfigFile() ViperOption {
	return func(o *viperOptions) {
		o.noConfigFile = true
	}
}

// NewViperModule creates an fx module providing a *viper.Viper bound to the
// resolved config file with automatic environment variable overrides.
func NewViperModule(opts ...ViperOption) fx.Option {
	o := &viperOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return fx.Module("viper",
		fx.Provide(func(conf AppConfig) (*viper.Viper, error) {
			return newViper(resolveConfigPath(o, conf))
		}),
		fx.Invoke(logViperConfig),
	)
}

func resolveConfigPath(o *viperOptions, conf AppConfig) string {
	if o.noConfigFile {
		return ""
	}
	if o.configPath != nil {
		return *o.configPath
	}
	return conf.ConfigFile
}

func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// No config file configured: env-only instance
	if configFile == "" {
		return v, nil
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file [%s] does not exist: %w", configFile, err)
	}

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file [%s]: %w", configFile, err)
	}

	return v, nil
}

func logViperConfig(logger *zap.Logger, v *viper.Viper) {
	logger.Info("Configuration loaded successfully",
		zap.String("configFile", v.ConfigFileUsed()),
		zap.Int("settingsCount", len(v.AllSettings())),
	)
}
