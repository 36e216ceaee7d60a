// This file defines the configuration structure for the application.
package config

import (
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Library struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"library"`
	Scan struct {
		Workers int `mapstructure:"workers"`
	} `mapstructure:"scan"`
	Watch struct {
		Debounce time.Duration `mapstructure:"debounce"`
	} `mapstructure:"watch"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "console" or "json"
	} `mapstructure:"log"`
	Cover struct {
		Width  uint `mapstructure:"width"`
		Height uint `mapstructure:"height"`
	} `mapstructure:"cover"`
	Output struct {
		Pretty bool `mapstructure:"pretty"`
	} `mapstructure:"output"`
}

// New returns a Viper instance that looks for "config.yml" in the current
// directory, honours MANGO_ environment overrides and carries the defaults.
// Callers may bind command-line flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")    // or "yaml"
	v.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "MANGO_" prefix.
	// e.g., MANGO_LIBRARY_PATH will override the `library.path` key.
	v.SetEnvPrefix("MANGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	v.SetDefault("library.path", "./library")
	v.SetDefault("scan.workers", runtime.NumCPU())
	v.SetDefault("watch.debounce", 2*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("cover.width", 200)
	v.SetDefault("cover.height", 300)
	v.SetDefault("output.pretty", false)

	return v
}

// Load reads the configuration file, if there is one, and unmarshals the
// merged settings into a Config struct.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; ignore error and use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.Scan.Workers < 1 {
		config.Scan.Workers = 1
	}

	return &config, nil
}
