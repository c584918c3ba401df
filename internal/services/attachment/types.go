// File: internal/services/attachment/types.go
package attachment

import "context"

// Logger defines the logging interface used by the attachment service
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// BlobWriter is the part of object storage uploads need.
type BlobWriter interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	URL(key string) string
}

type UploadRequest struct {
	UserID      uint
	Filename    string
	ContentType string
	Data        []byte
}
