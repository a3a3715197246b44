package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-redis/redis/v8"
)

// CacheRepository stores raw API payloads. A miss is not an error:
// Get returns nil bytes.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type cacheRepository struct {
	client *redis.Client
}

func NewCacheRepository(client *redis.Client) CacheRepository {
	return &cacheRepository{client: client}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Ключ не найден - это не ошибка
	}
	return val, err
}

func (r *cacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case string, []byte:
		return r.client.Set(ctx, key, v, expiration).Err()
	default:
		jsonData, err := json.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "failed to marshal value")
		}
		return r.client.Set(ctx, key, jsonData, expiration).Err()
	}
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// noopCacheRepository is used when Redis is disabled
type noopCacheRepository struct{}

func NewNoopCacheRepository() CacheRepository {
	return noopCacheRepository{}
}

func (noopCacheRepository) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (noopCacheRepository) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (noopCacheRepository) Delete(context.Context, string) error { return nil }
