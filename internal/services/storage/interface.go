// File: internal/services/storage/interface.go
package storage

import "context"

// Provider stores attachment blobs under opaque keys.
type Provider interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	URL(key string) string
	EnsureBucket(ctx context.Context) error
}
