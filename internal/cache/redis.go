package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisShared adapts a go-redis client to the Shared interface, the way the
// teacher's internal/cache.go wraps *redis.Client behind GetTiered/SetTiered.
type RedisShared struct {
	client *redis.Client
}

// NewRedisShared wraps an already-connected redis client.
func NewRedisShared(client *redis.Client) *RedisShared {
	return &RedisShared{client: client}
}

// NewRedisClient builds a redis client from a URI and password, matching
// the connect-timeout guidance in SPEC_FULL.md §5.
func NewRedisClient(uri, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         uri,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	})
}

func (r *RedisShared) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *RedisShared) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisShared) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
