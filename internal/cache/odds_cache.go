// Package cache provides the Redis-backed market-odds cache shared
// between scheduled pipeline runs.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/config"
	"github.com/yourusername/betbuilder/internal/models"
)

// OddsCache caches a fixture's per-market odds in Redis so a re-run of
// the pipeline (or an overlapping settlement job) does not re-hit the
// provider's quota.
type OddsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewOddsCache creates a new Redis odds cache
func NewOddsCache(cfg *config.RedisConfig, logger *logrus.Logger) *OddsCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &OddsCache{
		client: client,
		ttl:    time.Duration(cfg.TTLMinutes) * time.Minute,
		logger: logger,
	}
}

func oddsKey(fixtureID int64) string {
	return fmt.Sprintf("odds:%d", fixtureID)
}

// Set caches the market odds for a fixture
func (c *OddsCache) Set(ctx context.Context, fixtureID int64, odds map[models.Market]float64) error {
	data, err := json.Marshal(odds)
	if err != nil {
		return fmt.Errorf("failed to marshal odds: %w", err)
	}

	if err := c.client.Set(ctx, oddsKey(fixtureID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set odds in Redis: %w", err)
	}

	return nil
}

// Get retrieves cached odds for a fixture. A cache miss returns nil with
// a nil error; callers fall through to the provider.
func (c *OddsCache) Get(ctx context.Context, fixtureID int64) (map[models.Market]float64, error) {
	data, err := c.client.Get(ctx, oddsKey(fixtureID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get odds from Redis: %w", err)
	}

	var odds map[models.Market]float64
	if err := json.Unmarshal(data, &odds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached odds: %w", err)
	}

	return odds, nil
}

// Invalidate drops the cached odds for a fixture
func (c *OddsCache) Invalidate(ctx context.Context, fixtureID int64) error {
	if err := c.client.Del(ctx, oddsKey(fixtureID)).Err(); err != nil {
		return fmt.Errorf("failed to delete odds from Redis: %w", err)
	}
	return nil
}

// Ping verifies connectivity to Redis
func (c *OddsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *OddsCache) Close() error {
	return c.client.Close()
}
