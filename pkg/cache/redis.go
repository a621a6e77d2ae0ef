package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed snapshot store.
func NewRedisStore(opts ...RedisOption) (*RedisStore, error) {
	cfg := &RedisConfig{
		Addr:   "localhost:6379",
		DB:     0,
		Prefix: "sectorpulse",
		TTL:    7 * 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}, nil
}

// Client returns the underlying redis client.
func (rs *RedisStore) Client() *redis.Client {
	return rs.client
}

func (rs *RedisStore) SaveJSON(ctx context.Context, key string, v any) error {
	data, err := wrap(v)
	if err != nil {
		return err
	}
	return rs.client.Set(ctx, rs.wrapKey(key), data, rs.ttl).Err()
}

func (rs *RedisStore) LoadJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := rs.client.Get(ctx, rs.wrapKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	env, err := unwrap(data)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(env.Payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (rs *RedisStore) Fresh(ctx context.Context, key string, maxAge time.Duration) bool {
	data, err := rs.client.Get(ctx, rs.wrapKey(key)).Bytes()
	if err != nil {
		return false
	}

	env, err := unwrap(data)
	if err != nil {
		return false
	}
	return time.Since(env.SavedAt) <= maxAge
}

func (rs *RedisStore) Delete(ctx context.Context, keys ...string) error {
	wrapped := make([]string, len(keys))
	for i, key := range keys {
		wrapped[i] = rs.wrapKey(key)
	}
	return rs.client.Unlink(ctx, wrapped...).Err()
}

// Close closes the Redis connection.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

func (rs *RedisStore) wrapKey(key string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, key)
}
