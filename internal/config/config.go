package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultURL is the base URL used when neither a flag nor ZANATA_URL is given.
const DefaultURL = "http://localhost:8080/zanata"

// Config holds environment defaults for a zanatactl run. Flags and args files
// override these per invocation.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"production"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"warn"`

	// Server
	URL         string        `envconfig:"ZANATA_URL" default:"http://localhost:8080/zanata"`
	Username    string        `envconfig:"ZANATA_USERNAME"`
	Token       string        `envconfig:"ZANATA_TOKEN"` // API key, never logged
	HTTPTimeout time.Duration `envconfig:"ZANATA_HTTP_TIMEOUT" default:"0s"`

	// Optional node_exporter textfile the run's metrics are written to
	MetricsTextfile string `envconfig:"ZANATA_METRICS_TEXTFILE"`
}

// Development reports whether human-readable console logging is wanted.
func (c *Config) Development() bool {
	return c.Environment == "development"
}

// MetricsEnabled returns true if a metrics textfile is configured.
func (c *Config) MetricsEnabled() bool {
	return c.MetricsTextfile != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.HTTPTimeout < 0 {
		return nil, fmt.Errorf("loading config: ZANATA_HTTP_TIMEOUT must not be negative")
	}
	return &cfg, nil
}
