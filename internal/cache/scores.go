// Package cache keeps computed ESG scores in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/metrics"
	"esg-retrofit-workers/internal/esg"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "esg:scores:"

// ScoreCache stores esg.Scores per property under esg:scores:<propertyId>.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	return &ScoreCache{client: client, ttl: ttl}
}

func Key(propertyID string) string {
	return keyPrefix + propertyID
}

// Get returns the cached scores and whether they were present.
func (c *ScoreCache) Get(ctx context.Context, propertyID string) (*esg.Scores, bool, error) {
	data, err := c.client.Get(ctx, Key(propertyID)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.ESGScoreCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.ESGScoreCacheLookups.WithLabelValues(metrics.CacheError).Inc()
		return nil, false, apperrors.NewCacheFailureError(fmt.Errorf("get %s: %w", Key(propertyID), err))
	}

	var scores esg.Scores
	if err := json.Unmarshal([]byte(data), &scores); err != nil {
		metrics.ESGScoreCacheLookups.WithLabelValues(metrics.CacheError).Inc()
		return nil, false, fmt.Errorf("decode %s: %w", Key(propertyID), err)
	}
	metrics.ESGScoreCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
	return &scores, true, nil
}

func (c *ScoreCache) Set(ctx context.Context, propertyID string, scores esg.Scores) error {
	data, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	if err := c.client.Set(ctx, Key(propertyID), data, c.ttl).Err(); err != nil {
		return apperrors.NewCacheFailureError(fmt.Errorf("set %s: %w", Key(propertyID), err))
	}
	return nil
}

// Invalidate drops cached scores, e.g. after a property's metrics change.
func (c *ScoreCache) Invalidate(ctx context.Context, propertyIDs ...string) error {
	if len(propertyIDs) == 0 {
		return nil
	}
	keys := make([]string, len(propertyIDs))
	for i, id := range propertyIDs {
		keys[i] = Key(id)
	}
	return c.client.Del(ctx, keys...).Err()
}
