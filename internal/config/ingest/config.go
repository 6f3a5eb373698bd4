// Package ingest provides configuration for the price-ingestion pipeline:
// retry policy, cache freshness windows, and the background refresh loop.
package ingest

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultMaxAttempts     = 3
	DefaultBackoffBase     = 2 * time.Second
	DefaultBackoffJitter   = 1 * time.Second
	DefaultFetchTimeout    = 15 * time.Second
	DefaultStaleAfter      = 5 * time.Minute
	DefaultExpireAfter     = 30 * time.Minute
	DefaultRefreshInterval = 5 * time.Minute
	DefaultConcurrency     = 4
	DefaultStaleRunningAge = 10 * time.Minute
)

// Config represents ingestion pipeline configuration settings.
type Config struct {
	// MaxAttempts is the number of fetch attempts per refresh.
	MaxAttempts int `yaml:"max_attempts"`
	// BackoffBase is the base delay multiplied by the attempt number.
	BackoffBase time.Duration `yaml:"backoff_base"`
	// BackoffJitter is the upper bound of the uniform random jitter.
	BackoffJitter time.Duration `yaml:"backoff_jitter"`
	// FetchTimeout bounds a single fetch attempt.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// StaleAfter is the cache staleness window.
	StaleAfter time.Duration `yaml:"stale_after"`
	// ExpireAfter is the cache eviction window.
	ExpireAfter time.Duration `yaml:"expire_after"`
	// RefreshInterval is the background refresh loop interval.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// Concurrency bounds how many providers refresh at once.
	Concurrency int `yaml:"concurrency"`
	// StaleRunningAge is the age past which a running job is surfaced
	// as a stale-running anomaly.
	StaleRunningAge time.Duration `yaml:"stale_running_age"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return errors.New("max_attempts must be at least 1")
	}
	if c.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	if c.ExpireAfter < c.StaleAfter {
		return errors.New("expire_after must not be shorter than stale_after")
	}
	return nil
}

// LoadFromViper loads ingestion configuration from Viper.
func LoadFromViper(v *viper.Viper) *Config {
	cfg := &Config{
		MaxAttempts:     v.GetInt("ingest.max_attempts"),
		BackoffBase:     v.GetDuration("ingest.backoff_base"),
		BackoffJitter:   v.GetDuration("ingest.backoff_jitter"),
		FetchTimeout:    v.GetDuration("ingest.fetch_timeout"),
		StaleAfter:      v.GetDuration("ingest.stale_after"),
		ExpireAfter:     v.GetDuration("ingest.expire_after"),
		RefreshInterval: v.GetDuration("ingest.refresh_interval"),
		Concurrency:     v.GetInt("ingest.concurrency"),
		StaleRunningAge: v.GetDuration("ingest.stale_running_age"),
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	if cfg.BackoffJitter == 0 {
		cfg.BackoffJitter = DefaultBackoffJitter
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.StaleAfter == 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	if cfg.ExpireAfter == 0 {
		cfg.ExpireAfter = DefaultExpireAfter
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.StaleRunningAge == 0 {
		cfg.StaleRunningAge = DefaultStaleRunningAge
	}
	return cfg
}
