// Package redis caches emotion score distributions by text hash so that a
// turn's detect + score pair costs a single inference call.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/paulson-ai/backend/internal/emotion"
	"github.com/paulson-ai/backend/internal/metrics"
	"github.com/paulson-ai/backend/pkg/hash"
	"github.com/paulson-ai/backend/pkg/logger"
)

type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreCache(host string, port int, password string, db int, ttl time.Duration) (*ScoreCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Score cache initialized",
		zap.String("addr", fmt.Sprintf("%s:%d", host, port)),
		zap.Duration("ttl", ttl),
	)

	return &ScoreCache{client: client, ttl: ttl}, nil
}

func (c *ScoreCache) Close() error {
	return c.client.Close()
}

// GetScores reports a cached distribution for the text. Any cache failure is
// a miss; classification never fails because the cache did.
func (c *ScoreCache) GetScores(ctx context.Context, text string) (emotion.Distribution, bool) {
	key := scoreKey(text)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.ScoreCacheMisses.Inc()
		return nil, false
	}
	if err != nil {
		logger.Warn("Score cache read failed", zap.Error(err))
		metrics.ScoreCacheMisses.Inc()
		return nil, false
	}

	var dist emotion.Distribution
	if err := json.Unmarshal(data, &dist); err != nil {
		logger.Warn("Score cache entry unreadable", zap.Error(err))
		metrics.ScoreCacheMisses.Inc()
		return nil, false
	}

	metrics.ScoreCacheHits.Inc()
	logger.Debug("Score cache hit", zap.String("key", key))

	return dist, true
}

func (c *ScoreCache) SetScores(ctx context.Context, text string, dist emotion.Distribution) {
	data, err := json.Marshal(dist)
	if err != nil {
		logger.Warn("Failed to marshal scores for cache", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, scoreKey(text), data, c.ttl).Err(); err != nil {
		logger.Warn("Score cache write failed", zap.Error(err))
	}
}

func scoreKey(text string) string {
	return fmt.Sprintf("scores:%s", hash.Text(text))
}
