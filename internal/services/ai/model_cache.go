// File: internal/services/ai/model_cache.go
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore is the slice of Redis the model cache needs.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ErrCacheMiss is returned by a CacheStore when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore adapts a go-redis client. A nil client yields a nil store.
func NewRedisStore(rdb *redis.Client) CacheStore {
	if rdb == nil {
		return nil
	}
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedModelLister serves the model list from the cache and refills it from
// the provider on a miss. Cache failures fall through to the provider.
type CachedModelLister struct {
	lister ModelLister
	store  CacheStore
	key    string
	ttl    time.Duration
	logger Logger
}

func NewCachedModelLister(lister ModelLister, store CacheStore, config *Config, logger Logger) *CachedModelLister {
	return &CachedModelLister{
		lister: lister,
		store:  store,
		key:    config.ModelsCacheKey,
		ttl:    config.ModelsCacheTTL,
		logger: logger,
	}
}

func (c *CachedModelLister) ListModels(ctx context.Context) ([]Model, error) {
	if c.store == nil || c.ttl <= 0 {
		return c.lister.ListModels(ctx)
	}

	raw, err := c.store.Get(ctx, c.key)
	switch {
	case err == nil:
		var models []Model
		if jsonErr := json.Unmarshal([]byte(raw), &models); jsonErr == nil {
			return models, nil
		}
		c.logger.Warn("Discarding undecodable model cache entry", "key", c.key)
	case errors.Is(err, ErrCacheMiss):
	default:
		c.logger.Warn("Model cache read failed", "error", err)
	}

	models, err := c.lister.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(models); err == nil {
		if err := c.store.Set(ctx, c.key, string(encoded), c.ttl); err != nil {
			c.logger.Warn("Model cache write failed", "error", err)
		}
	}
	return models, nil
}
