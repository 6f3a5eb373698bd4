// Package server provides HTTP server configuration management.
package server

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultAddress         = ":8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Config represents HTTP server configuration settings.
type Config struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.New("server address must be specified")
	}
	return nil
}

// LoadFromViper loads server configuration from Viper.
func LoadFromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Address:         v.GetString("server.address"),
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		IdleTimeout:     v.GetDuration("server.idle_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
	}
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return cfg
}
