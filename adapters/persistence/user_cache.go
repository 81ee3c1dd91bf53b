package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const projectionKeyPrefix = "user:projection:"

func projectionKey(id uuid.UUID) string {
	return projectionKeyPrefix + id.String()
}

type redisProjectionCache struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisProjectionCache(rdb redis.UniversalClient, ttl time.Duration, log logger.Logger) user.ProjectionCache {
	return &redisProjectionCache{rdb: rdb, ttl: ttl, logger: log}
}

func (c *redisProjectionCache) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Projection, error) {
	out := make(map[uuid.UUID]user.Projection, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = projectionKey(id)
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget projections failed: %w", err)
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var p user.Projection
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			c.logger.Warn("Dropping corrupt cached projection", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		out[ids[i]] = p
	}
	return out, nil
}

func (c *redisProjectionCache) SetMany(ctx context.Context, projections []user.Projection) error {
	if len(projections) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for _, p := range projections {
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal projection failed: %w", err)
		}
		pipe.Set(ctx, projectionKey(p.ID), b, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache projections failed: %w", err)
	}
	return nil
}

func (c *redisProjectionCache) Evict(ctx context.Context, id uuid.UUID) error {
	if err := c.rdb.Del(ctx, projectionKey(id)).Err(); err != nil {
		return fmt.Errorf("evict projection failed: %w", err)
	}
	return nil
}
