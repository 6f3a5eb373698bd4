// Package providers provides the configured provider catalogue: which
// upstreams are refreshed and where their pricing endpoints live.
package providers

import (
	"fmt"

	"github.com/spf13/viper"
)

// Provider describes one configured upstream pricing source.
type Provider struct {
	// ID is the stable provider identifier used as the cache key.
	ID string `mapstructure:"id" yaml:"id"`
	// Name is the display name of the provider.
	Name string `mapstructure:"name" yaml:"name"`
	// Category is the product vertical (mobile, electricity, insurance, loan).
	Category string `mapstructure:"category" yaml:"category"`
	// Endpoint is the URL the fetch adapter pulls pricing from.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// Config holds the provider catalogue.
type Config struct {
	Providers []Provider `mapstructure:"providers" yaml:"providers"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.ID == "" || p.Name == "" {
			return fmt.Errorf("provider %d: id and name must be specified", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate provider id: %s", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// ByID returns the provider with the given ID, or nil.
func (c *Config) ByID(id string) *Provider {
	for i := range c.Providers {
		if c.Providers[i].ID == id {
			return &c.Providers[i]
		}
	}
	return nil
}

// LoadFromViper loads the provider catalogue from Viper.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.UnmarshalKey("providers", &cfg.Providers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal providers: %w", err)
	}
	return &cfg, nil
}
