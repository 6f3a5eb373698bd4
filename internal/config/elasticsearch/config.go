// Package elasticsearch provides Elasticsearch configuration management.
package elasticsearch

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultAddresses = "http://127.0.0.1:9200"
	DefaultIndex     = "pricefeed-errors"
)

// Config represents Elasticsearch configuration settings. The error log
// sink is the only Elasticsearch consumer.
type Config struct {
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	APIKey    string   `yaml:"api_key"`
	Index     string   `yaml:"index"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Addresses) == 0 {
		return errors.New("elasticsearch addresses must be specified")
	}
	if c.Index == "" {
		return errors.New("elasticsearch index must be specified")
	}
	return nil
}

// LoadFromViper loads Elasticsearch configuration from Viper and environment
// variables. Environment variables take precedence.
func LoadFromViper(v *viper.Viper) *Config {
	addresses := v.GetStringSlice("elasticsearch.addresses")
	if env := os.Getenv("ELASTICSEARCH_HOSTS"); env != "" {
		addresses = strings.Split(env, ",")
	}
	if len(addresses) == 0 {
		addresses = []string{DefaultAddresses}
	}

	index := v.GetString("elasticsearch.index")
	if index == "" {
		index = DefaultIndex
	}

	cfg := &Config{
		Addresses: addresses,
		Username:  v.GetString("elasticsearch.username"),
		Password:  v.GetString("elasticsearch.password"),
		APIKey:    v.GetString("elasticsearch.api_key"),
		Index:     index,
	}
	if pw := os.Getenv("ELASTICSEARCH_PASSWORD"); pw != "" {
		cfg.Password = pw
	}
	if key := os.Getenv("ELASTICSEARCH_API_KEY"); key != "" {
		cfg.APIKey = key
	}

	return cfg
}
