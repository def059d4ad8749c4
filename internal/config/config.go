// Package config loads runtime configuration from the environment.
// Credentials are injected here and nowhere else; they are never
// hard-coded and never written to logs.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

// Environment variables. KRAKEN_API_KEY / KRAKEN_PRIVATE_KEY are only
// required for private endpoints.
const (
	EnvAPIKey       = "KRAKEN_API_KEY"
	EnvPrivateKey   = "KRAKEN_PRIVATE_KEY"
	EnvBaseURL      = "KRAKEN_API_URL"
	EnvHTTPTimeout  = "KRAKEN_HTTP_TIMEOUT"
	EnvSlackWebhook = "SLACK_WEBHOOK"
	EnvLogLevel     = "LOG_LEVEL"
)

const defaultHTTPTimeout = 15 * time.Second

// Config is the process configuration.
type Config struct {
	APIKey       string
	PrivateKey   string
	BaseURL      string
	HTTPTimeout  time.Duration
	SlackWebhook string
	LogLevel     string
}

// FromEnv reads the configuration from the environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:       os.Getenv(EnvAPIKey),
		PrivateKey:   os.Getenv(EnvPrivateKey),
		BaseURL:      os.Getenv(EnvBaseURL),
		SlackWebhook: os.Getenv(EnvSlackWebhook),
		LogLevel:     os.Getenv(EnvLogLevel),
		HTTPTimeout:  defaultHTTPTimeout,
	}

	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", EnvHTTPTimeout)
		}
		if d <= 0 {
			return nil, errors.Errorf("%s must be positive", EnvHTTPTimeout)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}

// HasCredentials reports whether both halves of the key pair are set.
func (c *Config) HasCredentials() bool {
	return c.APIKey != "" && c.PrivateKey != ""
}
