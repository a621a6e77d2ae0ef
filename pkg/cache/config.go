package cache

import "time"

// RedisOption configures the Redis store.
type RedisOption func(*RedisConfig)

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// WithRedisAddr sets Redis address.
func WithRedisAddr(addr string) RedisOption {
	return func(c *RedisConfig) {
		c.Addr = addr
	}
}

// WithRedisPassword sets Redis password.
func WithRedisPassword(password string) RedisOption {
	return func(c *RedisConfig) {
		c.Password = password
	}
}

// WithRedisDB sets Redis database number.
func WithRedisDB(db int) RedisOption {
	return func(c *RedisConfig) {
		c.DB = db
	}
}

// WithRedisPrefix sets key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisConfig) {
		c.Prefix = prefix
	}
}

// WithRedisTTL sets how long snapshots live in Redis.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(c *RedisConfig) {
		c.TTL = ttl
	}
}

// MemoryOption configures the memory store.
type MemoryOption func(*MemoryConfig)

// MemoryConfig holds memory store configuration.
type MemoryConfig struct {
	MaxSize int
}

// WithMemoryMaxSize sets max number of stored snapshots.
func WithMemoryMaxSize(size int) MemoryOption {
	return func(c *MemoryConfig) {
		c.MaxSize = size
	}
}
