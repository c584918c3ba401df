// File: internal/services/storage/minio_provider.go
package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioProvider stores blobs in any S3 compatible bucket.
type MinioProvider struct {
	config *Config
	client *minio.Client
}

func NewMinioProvider(config *Config) (*MinioProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, &StorageError{Type: ErrTypeConfig, Operation: "config", Message: "invalid configuration", Cause: err}
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(config.Endpoint, "http://"), "https://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, &StorageError{Type: ErrTypeConfig, Operation: "connect", Message: "failed to create client", Cause: err}
	}

	return &MinioProvider{config: config, client: client}, nil
}

func (p *MinioProvider) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.config.Bucket)
	if err != nil {
		return &StorageError{Type: ErrTypeProvider, Operation: "bucket_exists", Key: p.config.Bucket, Message: "bucket lookup failed", Cause: err}
	}
	if exists {
		return nil
	}

	err = p.client.MakeBucket(ctx, p.config.Bucket, minio.MakeBucketOptions{Region: p.config.Region})
	if err != nil {
		return &StorageError{Type: ErrTypeProvider, Operation: "make_bucket", Key: p.config.Bucket, Message: "bucket creation failed", Cause: err}
	}
	return nil
}

func (p *MinioProvider) Put(ctx context.Context, key, contentType string, data []byte) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := p.client.PutObject(ctx, p.config.Bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return &StorageError{Type: ErrTypeProvider, Operation: "put", Key: key, Message: "upload failed", Cause: err}
	}
	return nil
}

func (p *MinioProvider) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := p.client.GetObject(ctx, p.config.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, p.getError(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, p.getError(key, err)
	}
	return data, nil
}

func (p *MinioProvider) getError(key string, err error) error {
	errType := ErrTypeProvider
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		errType = ErrTypeNotFound
	}
	return &StorageError{Type: errType, Operation: "get", Key: key, Message: "download failed", Cause: err}
}

// URL returns the address the object is reachable at. Without a configured
// public base it is the path-style endpoint URL.
func (p *MinioProvider) URL(key string) string {
	escaped := escapeKey(key)
	if p.config.PublicURL != "" {
		return strings.TrimRight(p.config.PublicURL, "/") + "/" + escaped
	}

	scheme := "http"
	if p.config.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + p.client.EndpointURL().Host + "/" + p.config.Bucket + "/" + escaped
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
