// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	// Retention
	MaxChatsPerUser int // oldest chat is evicted once a user exceeds this

	// New chat defaults
	PlaceholderName string
	DefaultModel    string

	// Naming after the first reply
	NameLength int    // runes of the reply kept in the chat name
	NameSuffix string // appended to the truncated reply

	// Performance Configuration
	CompletionTimeout time.Duration
}

func (c *Config) Validate() error {
	if c.MaxChatsPerUser <= 0 {
		return fmt.Errorf("max_chats_per_user must be positive")
	}
	if c.PlaceholderName == "" {
		return fmt.Errorf("placeholder_name is required")
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("default_model is required")
	}
	if c.NameLength <= 0 {
		return fmt.Errorf("name_length must be positive")
	}
	if c.CompletionTimeout <= 0 {
		return fmt.Errorf("completion_timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		MaxChatsPerUser:   30,
		PlaceholderName:   "New Chat",
		DefaultModel:      "gpt-3.5-turbo",
		NameLength:        30,
		NameSuffix:        "...",
		CompletionTimeout: 120 * time.Second,
	}
}
