package taxapi

import (
	"errors"
	"fmt"
	"strings"
)

// Operating modes selecting the upstream environment
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// Per-mode default base URLs
const (
	productionBaseURL  = "https://api.marketplacetax.com/v1"
	developmentBaseURL = "https://api.sandbox.marketplacetax.com/v1"
)

// DefaultTimeoutSeconds bounds every upstream call. There is no retry
// policy; a timeout immediately triggers the caller's fallback path.
const DefaultTimeoutSeconds = 10

// Config holds the tax API client configuration
type Config struct {
	Mode           string `mapstructure:"mode"`
	BaseURL        string `mapstructure:"base_url"` // overrides the per-mode default when set
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Validate checks the configuration for required values
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeProduction, ModeDevelopment:
	case "":
		return errors.New("taxapi: mode is required")
	default:
		return fmt.Errorf("taxapi: unknown mode %q", c.Mode)
	}
	if c.APIKey == "" {
		return errors.New("taxapi: api key is required")
	}
	if c.TimeoutSeconds < 0 {
		return errors.New("taxapi: timeout cannot be negative")
	}
	return nil
}

// ResolveBaseURL returns the effective base URL for the configured mode
func (c *Config) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Mode == ModeDevelopment {
		return developmentBaseURL
	}
	return productionBaseURL
}
