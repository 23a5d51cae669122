// Package config loads wavinspect settings from defaults, an optional
// config file and WAVINSPECT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	keyColor            = "color"
	keyOffsets          = "offsets"
	keyWorkers          = "workers"
	keyLogLevel         = "log_level"
	keyRequireExtension = "require_extension"

	envPrefix     = "WAVINSPECT"
	envConfigFile = "WAVINSPECT_CONFIG"
)

var (
	errInvalidColor   = errors.New("invalid color mode")
	errInvalidWorkers = errors.New("workers must be positive")
)

// Config holds the settings of a wavinspect run.
type Config struct {
	Color            string `mapstructure:"color"`
	Offsets          bool   `mapstructure:"offsets"`
	Workers          int    `mapstructure:"workers"`
	LogLevel         string `mapstructure:"log_level"`
	RequireExtension bool   `mapstructure:"require_extension"`
}

// Load reads the configuration. file may be empty, in which case the
// WAVINSPECT_CONFIG environment variable is consulted; without either only
// defaults and environment variables apply.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault(keyColor, ColorAuto)
	v.SetDefault(keyOffsets, true)
	v.SetDefault(keyWorkers, 4)
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyRequireExtension, true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		file = os.Getenv(envConfigFile)
	}

	if file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: %q", errInvalidColor, c.Color)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: %d", errInvalidWorkers, c.Workers)
	}

	return nil
}
