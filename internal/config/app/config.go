// Package app provides application-level configuration management.
package app

import (
	"errors"
	"fmt"
)

// Config represents application-specific configuration settings.
type Config struct {
	// Name is the name of the application
	Name string `yaml:"name"`
	// Version is the version of the application
	Version string `yaml:"version"`
	// Environment is the application environment (development, staging, production)
	Environment string `yaml:"environment"`
	// Debug indicates whether debug mode is enabled
	Debug bool `yaml:"debug"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("application name must be specified")
	}

	switch c.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}
}

// New creates a new application configuration with defaults.
func New() *Config {
	return &Config{
		Name:        "pricefeed",
		Version:     "0.1.0",
		Environment: "development",
		Debug:       false,
	}
}
