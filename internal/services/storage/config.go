// File: internal/services/storage/config.go
package storage

import (
	"fmt"
	"strings"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool

	// PublicURL overrides the base used to build attachment URLs, e.g. a CDN.
	PublicURL string
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required")
	}
	if strings.Contains(c.Endpoint, "/") && !strings.HasPrefix(c.Endpoint, "http") {
		return fmt.Errorf("S3_ENDPOINT must be host[:port]")
	}
	if c.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Endpoint: "localhost:9000",
		Bucket:   "chatnest-attachments",
		Region:   "us-east-1",
	}
}
