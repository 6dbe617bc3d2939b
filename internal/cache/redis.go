// Package cache is an optional read-through Redis store for analyses of
// identical picks. The gateway runs fine without it.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"betcopilot/gateway/pkg/models"
)

// Config holds Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache stores analyses keyed by a digest of the pick payload
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects and pings Redis
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

// Get returns a cached analysis for an identical pick, if any
func (c *RedisCache) Get(ctx context.Context, pick models.Pick) (*models.Analysis, bool) {
	data, err := c.client.Get(ctx, cacheKey(pick)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("Cache read failed")
		}
		return nil, false
	}

	var analysis models.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		log.Warn().Err(err).Msg("Cached analysis is corrupt, ignoring")
		return nil, false
	}
	return &analysis, true
}

// Set stores an analysis. Failures are logged, never fatal.
func (c *RedisCache) Set(ctx context.Context, pick models.Pick, analysis *models.Analysis) {
	data, err := json.Marshal(analysis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode analysis for cache")
		return
	}

	if err := c.client.Set(ctx, cacheKey(pick), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Cache write failed")
	}
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// cacheKey digests the canonical pick JSON. Identical submissions hash alike;
// any field or leg edit produces a new key.
func cacheKey(pick models.Pick) string {
	payload, _ := json.Marshal(pick)
	sum := sha256.Sum256(payload)
	return "analysis:" + hex.EncodeToString(sum[:])
}
