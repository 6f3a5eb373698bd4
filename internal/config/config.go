// Package config provides configuration management for the pricefeed
// application. It handles loading, validation, and access to configuration
// values from YAML files and environment variables via Viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/sammenlign/pricefeed/internal/config/app"
	dbconfig "github.com/sammenlign/pricefeed/internal/config/database"
	"github.com/sammenlign/pricefeed/internal/config/elasticsearch"
	"github.com/sammenlign/pricefeed/internal/config/ingest"
	"github.com/sammenlign/pricefeed/internal/config/providers"
	redisconfig "github.com/sammenlign/pricefeed/internal/config/redis"
	"github.com/sammenlign/pricefeed/internal/config/server"
	"github.com/sammenlign/pricefeed/internal/logger"
)

// Interface defines the interface for configuration management.
type Interface interface {
	// GetAppConfig returns the application configuration.
	GetAppConfig() *app.Config
	// GetServerConfig returns the HTTP server configuration.
	GetServerConfig() *server.Config
	// GetDatabaseConfig returns the database configuration.
	GetDatabaseConfig() *dbconfig.Config
	// GetElasticsearchConfig returns the Elasticsearch configuration.
	GetElasticsearchConfig() *elasticsearch.Config
	// GetRedisConfig returns the Redis configuration.
	GetRedisConfig() *redisconfig.Config
	// GetIngestConfig returns the ingestion pipeline configuration.
	GetIngestConfig() *ingest.Config
	// GetProvidersConfig returns the provider catalogue.
	GetProvidersConfig() *providers.Config
	// GetLoggerConfig returns the logger configuration.
	GetLoggerConfig() *logger.Config
	// Validate validates the configuration.
	Validate() error
}

// Ensure Config implements Interface
var _ Interface = (*Config)(nil)

// Config represents the application configuration.
type Config struct {
	App           *app.Config           `yaml:"app"`
	Server        *server.Config        `yaml:"server"`
	Database      *dbconfig.Config      `yaml:"database"`
	Elasticsearch *elasticsearch.Config `yaml:"elasticsearch"`
	Redis         *redisconfig.Config   `yaml:"redis"`
	Ingest        *ingest.Config        `yaml:"ingest"`
	Providers     *providers.Config     `yaml:"providers"`
	Logger        *logger.Config        `yaml:"logger"`
}

// Load builds the full configuration from the global Viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom builds the full configuration from the given Viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	appCfg := app.New()
	if name := v.GetString("app.name"); name != "" {
		appCfg.Name = name
	}
	if env := v.GetString("app.environment"); env != "" {
		appCfg.Environment = env
	}
	appCfg.Debug = v.GetBool("app.debug")

	providerCfg, err := providers.LoadFromViper(v)
	if err != nil {
		return nil, err
	}

	logCfg := &logger.Config{
		Level:       v.GetString("logger.level"),
		Encoding:    v.GetString("logger.encoding"),
		Development: appCfg.Environment == "development",
	}

	cfg := &Config{
		App:           appCfg,
		Server:        server.LoadFromViper(v),
		Database:      dbconfig.LoadFromViper(v),
		Elasticsearch: elasticsearch.LoadFromViper(v),
		Redis:         redisconfig.LoadFromViper(v),
		Ingest:        ingest.LoadFromViper(v),
		Providers:     providerCfg,
		Logger:        logCfg,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Elasticsearch.Validate(); err != nil {
		return fmt.Errorf("elasticsearch: %w", err)
	}
	if err := c.Ingest.Validate(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if err := c.Providers.Validate(); err != nil {
		return fmt.Errorf("providers: %w", err)
	}
	return nil
}

// GetAppConfig returns the application configuration.
func (c *Config) GetAppConfig() *app.Config { return c.App }

// GetServerConfig returns the HTTP server configuration.
func (c *Config) GetServerConfig() *server.Config { return c.Server }

// GetDatabaseConfig returns the database configuration.
func (c *Config) GetDatabaseConfig() *dbconfig.Config { return c.Database }

// GetElasticsearchConfig returns the Elasticsearch configuration.
func (c *Config) GetElasticsearchConfig() *elasticsearch.Config { return c.Elasticsearch }

// GetRedisConfig returns the Redis configuration.
func (c *Config) GetRedisConfig() *redisconfig.Config { return c.Redis }

// GetIngestConfig returns the ingestion pipeline configuration.
func (c *Config) GetIngestConfig() *ingest.Config { return c.Ingest }

// GetProvidersConfig returns the provider catalogue.
func (c *Config) GetProvidersConfig() *providers.Config { return c.Providers }

// GetLoggerConfig returns the logger configuration.
func (c *Config) GetLoggerConfig() *logger.Config { return c.Logger }
