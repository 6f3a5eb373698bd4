// Package redis provides Redis configuration management.
package redis

import (
	"os"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultURL      = "redis://localhost:6379/0"
	DefaultClickKey = "pricefeed:clicks"
)

// Config represents Redis configuration settings. Redis backs the
// fire-and-forget affiliate click sink.
type Config struct {
	URL      string `yaml:"url" env:"REDIS_URL"`
	ClickKey string `yaml:"click_key"`
}

// LoadFromViper loads Redis configuration from Viper and environment
// variables. Environment variables take precedence.
func LoadFromViper(v *viper.Viper) *Config {
	url := v.GetString("redis.url")
	if env := os.Getenv("REDIS_URL"); env != "" {
		url = env
	}
	if url == "" {
		url = DefaultURL
	}

	key := v.GetString("redis.click_key")
	if key == "" {
		key = DefaultClickKey
	}

	return &Config{URL: url, ClickKey: key}
}
