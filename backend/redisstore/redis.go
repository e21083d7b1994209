// Package redisstore is an expirestore.Backend on top of go-redis.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gigaxel/expirestore"
)

var _ expirestore.Backend = (*RedisStore)(nil)

type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{redisClient: redisClient}
}

// Set writes raw under key. When opts carries a future expiration the key also
// gets a matching Redis TTL, so Redis drops records nobody reads again.
func (r *RedisStore) Set(ctx context.Context, key, raw string, opts expirestore.Options) error {
	expiresAt, err := opts.Expires()
	if err != nil {
		return err
	}
	var ttl time.Duration
	if ms, ok := expiresAt.Get(); ok {
		if d := time.Until(time.UnixMilli(ms)); d > 0 {
			ttl = d
		}
	}
	return r.redisClient.Set(ctx, key, raw, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	raw, err := r.redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", expirestore.ErrKeyNotFound
	}
	return raw, err
}

func (r *RedisStore) Unset(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.redisClient.Del(ctx, keys...).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.redisClient.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.redisClient.Close()
}
