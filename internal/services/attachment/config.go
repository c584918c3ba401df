// File: internal/services/attachment/config.go
package attachment

import "fmt"

type Config struct {
	MaxAttachmentsPerUser int
	MaxFilenameLength     int
}

func (c *Config) Validate() error {
	if c.MaxAttachmentsPerUser <= 0 {
		return fmt.Errorf("max_attachments_per_user must be positive")
	}
	if c.MaxFilenameLength <= 0 {
		return fmt.Errorf("max_filename_length must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		MaxAttachmentsPerUser: 10,
		MaxFilenameLength:     200,
	}
}
