// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProviderRedPill = "redpill"
	ProviderOpenAI  = "openai"
)

type Config struct {
	Provider string
	APIKey   string
	BaseURL  string

	Timeout time.Duration

	// Model list caching; zero TTL disables it
	ModelsCacheTTL time.Duration
	ModelsCacheKey string
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderRedPill, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown completion provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("COMPLETION_API_KEY is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("COMPLETION_BASE_URL is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("COMPLETION_BASE_URL must be an http(s) URL")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderRedPill,
		BaseURL:        "https://api.red-pill.ai/v1",
		Timeout:        120 * time.Second,
		ModelsCacheTTL: 10 * time.Minute,
		ModelsCacheKey: "chatnest:models",
	}
}
