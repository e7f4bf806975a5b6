// Package cache provides the two-tier cache in front of analysis storage: a
// small in-process LRU backed by an optional shared Redis tier.
package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/domain"
)

// ResultCache caches serialized analysis responses keyed by
// (content digest, tone, language). Both tiers are best-effort: any failure
// is logged and treated as a miss, the caller falls through to storage.
type ResultCache struct {
	local *lru.Cache[string, string]
	redis *redis.Client
	ttl   time.Duration
	log   *logrus.Logger
}

// NewResultCache builds the cache from configuration. An empty RedisURL
// disables the shared tier; the local LRU is always active.
func NewResultCache(config domain.CacheConfig, logger *logrus.Logger) (*ResultCache, error) {
	size := config.LocalSize
	if size <= 0 {
		size = 512
	}
	local, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating local cache: %w", err)
	}

	ttl := config.DefaultTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	c := &ResultCache{
		local: local,
		ttl:   ttl,
		log:   logger,
	}

	if config.RedisURL != "" {
		opts, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing Redis URL: %w", err)
		}
		opts.PoolSize = config.PoolSize
		opts.PoolTimeout = config.PoolTimeout
		opts.MaxRetries = config.MaxRetries

		client := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connecting to Redis: %w", err)
		}
		c.redis = client

		logger.WithField("ttl", ttl).Info("Redis result cache tier enabled")
	}

	return c, nil
}

// Get returns the cached payload for the key. A local hit skips Redis; a
// Redis hit backfills the local tier.
func (c *ResultCache) Get(ctx context.Context, key string) (string, bool) {
	if payload, ok := c.local.Get(key); ok {
		return payload, true
	}

	if c.redis == nil {
		return "", false
	}

	payload, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.log.WithError(err).Warn("Redis cache get failed, treating as miss")
		return "", false
	}

	c.local.Add(key, payload)
	return payload, true
}

// Set stores the payload in both tiers.
func (c *ResultCache) Set(ctx context.Context, key, payload string) {
	c.local.Add(key, payload)

	if c.redis == nil {
		return
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("Redis cache set failed")
	}
}

// Invalidate drops a key from both tiers.
func (c *ResultCache) Invalidate(ctx context.Context, key string) {
	c.local.Remove(key)
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		c.log.WithError(err).Warn("Redis cache delete failed")
	}
}

// Ping checks the shared tier's health. Always healthy without Redis.
func (c *ResultCache) Ping(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (c *ResultCache) Close() error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Close()
}
