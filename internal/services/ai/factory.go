// File: internal/services/ai/factory.go
package ai

import "net/http"

// NewProvider builds the completion provider selected by config.Provider.
func NewProvider(config *Config, logger Logger) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(config, logger), nil
	default:
		return NewRedPillProvider(config, &http.Client{Timeout: config.Timeout}, logger), nil
	}
}
