package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces gomt keys in a shared Redis database.
const DefaultRedisPrefix = "gomt:"

// scanBatch is the SCAN COUNT hint used when listing entries.
const scanBatch = 100

// RedisCache is a Redis-backed translation result cache, for sharing
// results between several gomt processes.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	timeout   time.Duration
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379")
	TTL       int           // TTL in seconds (0 = no expiration)
	KeyPrefix string        // Prefix for all keys (default: "gomt:")
	Timeout   time.Duration // Per-operation timeout (default: 2s)
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	c := NewRedisCacheFromClient(redis.NewClient(opts), cfg.TTL, cfg.KeyPrefix)
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}

	if err := c.Ping(); err != nil {
		c.Close()
		return nil, &CacheError{Op: "connect", Cause: err}
	}
	return c, nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisPrefix
	}

	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		timeout:   2 * time.Second,
	}
}

// Get retrieves a value from Redis. Connection errors are treated as a
// cache miss so a Redis outage degrades to uncached translation.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := c.opContext()
	defer cancel()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value in Redis with the configured TTL.
func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := c.opContext()
	defer cancel()

	if err := c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err(); err != nil {
		return &CacheError{Op: "set", Key: key, Cause: err}
	}
	return nil
}

// Entries lists every entry under the key prefix, with the prefix removed.
// Redis expires keys itself, so all returned entries are live. Errors end
// the listing early with what was read so far.
func (c *RedisCache) Entries() map[string]string {
	result := make(map[string]string)
	ctx := context.Background()

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return result
		}

		if len(keys) > 0 {
			vals, err := c.client.MGet(ctx, keys...).Result()
			if err != nil {
				return result
			}
			for i, v := range vals {
				if s, ok := v.(string); ok {
					result[strings.TrimPrefix(keys[i], c.keyPrefix)] = s
				}
			}
		}

		if next == 0 {
			return result
		}
		cursor = next
	}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping() error {
	ctx, cancel := c.opContext()
	defer cancel()
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

// Verify RedisCache implements TranslationCache
var _ TranslationCache = (*RedisCache)(nil)
