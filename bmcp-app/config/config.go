package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	apisrv "github.com/compose-network/bmcp/server/api"
	"github.com/compose-network/bmcp/x/chains"
)

// Config holds the complete application configuration
type Config struct {
	API        apisrv.Config    `mapstructure:"api"        yaml:"api"`
	Metrics    MetricsConfig    `mapstructure:"metrics"    yaml:"metrics"`
	Log        LogConfig        `mapstructure:"log"        yaml:"log"`
	Chains     ChainsConfig     `mapstructure:"chains"     yaml:"chains"`
	Limits     LimitsConfig     `mapstructure:"limits"     yaml:"limits"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `mapstructure:"path"    yaml:"path"    env:"METRICS_PATH"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  env:"LOG_LEVEL"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty" env:"LOG_PRETTY"`
}

// ChainsConfig selects the chain metadata source. Built-in entries, the
// registry file and inline entries are merged in that order.
type ChainsConfig struct {
	IncludeDefaults bool           `mapstructure:"include_defaults" yaml:"include_defaults" env:"CHAINS_INCLUDE_DEFAULTS"`
	RegistryFile    string         `mapstructure:"registry_file"    yaml:"registry_file"    env:"CHAINS_REGISTRY_FILE"`
	Entries         []chains.Entry `mapstructure:"entries"          yaml:"entries"`
}

// LimitsConfig holds decode concurrency limits
type LimitsConfig struct {
	DecodeWorkers int `mapstructure:"decode_workers" yaml:"decode_workers" env:"LIMITS_DECODE_WORKERS"`
}

// ValidationConfig holds the validator knobs that are not wire constants
type ValidationConfig struct {
	CheckDeadline bool `mapstructure:"check_deadline" yaml:"check_deadline" env:"VALIDATION_CHECK_DEADLINE"`
}

// Load loads configuration from file and environment. An empty path uses
// defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("api.listen_addr", d.API.ListenAddr)
	v.SetDefault("api.read_header_timeout", d.API.ReadHeaderTimeout.String())
	v.SetDefault("api.read_timeout", d.API.ReadTimeout.String())
	v.SetDefault("api.write_timeout", d.API.WriteTimeout.String())
	v.SetDefault("api.idle_timeout", d.API.IdleTimeout.String())
	v.SetDefault("api.shutdown_timeout", d.API.ShutdownTimeout.String())
	v.SetDefault("api.max_header_bytes", d.API.MaxHeaderBytes)
	v.SetDefault("api.max_body_bytes", d.API.MaxBodyBytes)
	v.SetDefault("api.cors_origins", []string{})

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)

	v.SetDefault("chains.include_defaults", d.Chains.IncludeDefaults)
	v.SetDefault("chains.registry_file", "")

	v.SetDefault("limits.decode_workers", d.Limits.DecodeWorkers)

	v.SetDefault("validation.check_deadline", d.Validation.CheckDeadline)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.validateMetrics(); err != nil {
		return err
	}
	if err := c.validateChains(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / when metrics enabled, got %q", c.Metrics.Path)
	}
	return nil
}

func (c *Config) validateChains() error {
	if !c.Chains.IncludeDefaults && strings.TrimSpace(c.Chains.RegistryFile) == "" && len(c.Chains.Entries) == 0 {
		return fmt.Errorf("chains: no source configured, enable include_defaults or set registry_file or entries")
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Limits.DecodeWorkers <= 0 {
		return fmt.Errorf("limits.decode_workers must be positive, got %d", c.Limits.DecodeWorkers)
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		API: apisrv.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
		Chains: ChainsConfig{
			IncludeDefaults: true,
		},
		Limits: LimitsConfig{
			DecodeWorkers: 8,
		},
		Validation: ValidationConfig{
			CheckDeadline: false,
		},
	}
}
