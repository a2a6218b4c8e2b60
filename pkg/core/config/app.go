// Package config loads the application's identity and configuration sources:
// optional .env files, required environment variables, and the viper-backed
// config file the rest of the chassis reads its sections from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Environment variable names
const (
	envAppEnv            = "APP_ENV"
	envAppServiceName    = "APP_SERVICE_NAME"
	envAppServiceVersion = "APP_SERVICE_VERSION"
	envConfigFile        = "CONFIG_FILE"
	envConfigDir         = "CONFIG_DIR"
	envConfigName        = "CONFIG_NAME"
)

const defaultConfigDir = "./configs"

// Sentinel values used in committed env files. A variable still carrying one
// of these at startup means the deployment environment never supplied it.
const (
	sentinelChangeMe = "CHANGE_ME"
	sentinelInherit  = "INHERIT_FROM_ENVIRONMENT"
)

// AppConfig represents the core application metadata and configuration paths,
// loaded from environment variables.
type AppConfig struct {
	// ConfigFile is the full path to the config file
	ConfigFile string
	// ServiceName is the name of the service
	ServiceName string
	// ServiceVersion is the version of the service
	ServiceVersion string
	// Environment is the deployment environment (e.g., "local", "staging", "pro")
	Environment string
}

// appConfigOptions holds internal configuration for the app config module.
type appConfigOptions struct {
	static *AppConfig
}

// AppConfigOption is a functional option for configuring the module.
type AppConfigOption func(*appConfigOptions)

// WithAppConfig provides a static AppConfig (useful for tests).
// When set, the AppConfig will not be loaded from environment variables.
func WithAppConfig(cfg AppConfig) AppConfigOption {
	return func(o *appConfigOptions) {
		o.static = &cfg
	}
}

// NewAppConfigModule creates a new fx module for application configuration.
//
// Required environment variables:
//   - APP_ENV: Environment name (e.g., "local", "staging", "pro")
//   - APP_SERVICE_NAME: Service name
//   - APP_SERVICE_VERSION: Service version
//
// Optional environment variables:
//   - CONFIG_FILE: Full path to config file (default: ./configs/config.{env}.yaml)
//   - CONFIG_DIR / CONFIG_NAME: components of the default config file path
func NewAppConfigModule(opts ...AppConfigOption) fx.Option {
	o := &appConfigOptions{}
	for _, opt := range opts {
		opt(o)
	}

	provider := newAppConfig
	if o.static != nil {
		static := *o.static
		provider = func() (AppConfig, error) { return static, nil }
	}

	return fx.Module("appconfig",
		fx.Provide(provider),
		fx.Invoke(func(logger *zap.Logger, conf AppConfig) {
			logger.Info("Loaded application configuration",
				zap.String("service", conf.ServiceName),
				zap.String("version", conf.ServiceVersion),
				zap.String("environment", conf.Environment),
				zap.String("configFile", conf.ConfigFile),
			)
		}),
	)
}

// newAppConfig creates a new AppConfig by reading environment variables.
// It loads .env and .env.{environment} files if present, then rejects any
// variable from those files that still carries a sentinel value.
func newAppConfig() (AppConfig, error) {
	// Load .env file if exists - silently ignore if file doesn't exist
	_ = godotenv.Load()

	env := os.Getenv(envAppEnv)
	if env == "" {
		env = "local"
	}

	// Environment-specific overlay, also optional.
	envFile := ".env." + strings.ToLower(env)
	_ = godotenv.Load(envFile)

	if err := checkSentinels(".env", envFile); err != nil {
		return AppConfig{}, err
	}

	serviceName := os.Getenv(envAppServiceName)
	if serviceName == "" {
		return AppConfig{}, fmt.Errorf("%s is required", envAppServiceName)
	}

	serviceVersion := os.Getenv(envAppServiceVersion)
	if serviceVersion == "" {
		return AppConfig{}, fmt.Errorf("%s is required", envAppServiceVersion)
	}

	configFile := os.Getenv(envConfigFile)
	if configFile == "" {
		configDir := os.Getenv(envConfigDir)
		if configDir == "" {
			configDir = defaultConfigDir
		}

		configName := os.Getenv(envConfigName)
		if configName == "" {
			configName = "config." + strings.ToLower(env)
		}

		configFile = filepath.Join(configDir, configName+".yaml")
	}

	return AppConfig{
		ConfigFile:     configFile,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    env,
	}, nil
}

// checkSentinels scans the variables declared in the given env files and
// fails when the effective value of any of them is still a placeholder.
func checkSentinels(files ...string) error {
	var offending []string

	for _, file := range files {
		declared, err := godotenv.Read(file)
		if err != nil {
			continue // env files are optional
		}
		for key := range declared {
			switch os.Getenv(key) {
			case sentinelChangeMe, sentinelInherit:
				offending = append(offending, key)
			}
		}
	}

	if len(offending) > 0 {
		sort.Strings(offending)
		return fmt.Errorf("environment variables still set to a placeholder value: %s",
			strings.Join(offending, ", "))
	}
	return nil
}
