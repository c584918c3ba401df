// File: internal/services/chat/types.go
package chat

import "context"

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// BlobReader fetches attachment bytes from object storage.
type BlobReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// SendMessageRequest carries one user turn. An empty Model means the chat's
// own model.
type SendMessageRequest struct {
	ChatID        uint
	UserID        uint
	Content       string
	Model         string
	AttachmentIDs []uint
}
