// Package config loads the chirp configuration from defaults, an optional
// config file, and CHIRP_-prefixed environment variables, in that order of
// precedence (lowest to highest).
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DataPaths holds the data directory and file path configuration.
// These paths can be overridden via environment variables.
type DataPaths struct {
	// DataDir is the base data directory (CHIRP_DATA_PATHS_DATA_DIR,
	// default: ./data)
	DataDir string `mapstructure:"data_dir" validate:"required"`
	// SnapshotPath is the snapshot file path (CHIRP_DATA_PATHS_SNAPSHOT_PATH,
	// default: ${DataDir}/chirp.snapshot)
	SnapshotPath string `mapstructure:"snapshot_path"`
}

// Config holds all configuration for the chirp process.
type Config struct {
	// DataPaths holds the data directory configuration
	DataPaths DataPaths `mapstructure:"data_paths"`

	// SeedDemo controls whether an empty store gets the demo accounts on
	// first start
	SeedDemo bool `mapstructure:"seed_demo"`

	Logging struct {
		// Level is the minimum log level: debug, info, warn, or error
		Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	} `mapstructure:"logging"`
}

// GetDataDir returns the base data directory.
func (c *Config) GetDataDir() string {
	if c.DataPaths.DataDir == "" {
		return "./data"
	}
	return c.DataPaths.DataDir
}

// GetSnapshotPath returns the snapshot file path, derived from the data
// directory unless explicitly overridden.
func (c *Config) GetSnapshotPath() string {
	if c.DataPaths.SnapshotPath != "" {
		return c.DataPaths.SnapshotPath
	}
	return filepath.Join(c.GetDataDir(), "chirp.snapshot")
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("data_paths.data_dir", "./data")
	viper.SetDefault("data_paths.snapshot_path", "") // Empty = derive from data_dir
	viper.SetDefault("seed_demo", true)
	viper.SetDefault("logging.level", "info")
}

// LoadConfig loads the configuration. When configFile is empty the usual
// search paths are tried; a missing config file is fine, everything has a
// default.
func LoadConfig(configFile string) (*Config, error) {
	viper.Reset()
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("chirp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.chirp")
		viper.AddConfigPath("/etc/chirp/")
	}

	viper.SetEnvPrefix("CHIRP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); configFile != "" || !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
