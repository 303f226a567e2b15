// Package config loads declbridge configuration from declbridge.toml files
// and DECLBRIDGE_* environment variables, in that precedence order.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/declbridge/declbridge/errors"
)

// Config is the declbridge tool configuration.
type Config struct {
	// RootPath is the canonical import path of the runtime package generated
	// code references. Overridable for forks and vendored copies.
	RootPath string `mapstructure:"root_path"`

	// GeneratedFile is the per-package file name Generate writes.
	GeneratedFile string `mapstructure:"generated_file"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig configures logger output.
type LogConfig struct {
	JSON bool `mapstructure:"json"` // JSON structured output instead of console
}

// ConfigFileName is the project-level configuration file.
const ConfigFileName = "declbridge.toml"

var (
	globalConfig  *Config
	viperInstance *viper.Viper
)

// SetDefaults applies the default value for every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root_path", "github.com/declbridge/declbridge")
	v.SetDefault("generated_file", "declbridge_gen.go")
	v.SetDefault("log.json", false)
}

// Load reads the configuration, caching the result for subsequent calls.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path, bypassing the
// cache and environment binding.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}
	return &config, nil
}

// Reset clears the cached configuration (useful for testing).
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// GetViper returns the Viper instance for advanced configuration access.
func GetViper() *viper.Viper {
	return initViper()
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvPrefix("DECLBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configPath := findProjectConfig(); configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		// A malformed file falls back to defaults plus environment.
		_ = v.ReadInConfig()
	}

	viperInstance = v
	return v
}

// findProjectConfig walks up the directory tree looking for declbridge.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
