// Package cache holds the Redis-backed anchor cache. Only anchors for
// closed UTC days are cached; their leaf sets are immutable, so entries
// never need invalidation.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hbuk-xyz/hbuk-server/internal/journal"
)

// sealedAnchorTTL bounds cache growth; a miss just costs a recompute.
const sealedAnchorTTL = 90 * 24 * time.Hour

// RedisAnchorCache implements journal.AnchorCache. All operations are best
// effort: failures are logged and reported as misses.
type RedisAnchorCache struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

// NewRedisAnchorCache wraps an initialized Redis client.
func NewRedisAnchorCache(client *redis.Client, logger *zap.SugaredLogger) *RedisAnchorCache {
	return &RedisAnchorCache{client: client, logger: logger}
}

func (c *RedisAnchorCache) Get(ctx context.Context, date string) (*journal.Anchor, bool) {
	payload, err := c.client.Get(ctx, anchorKey(date)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warnw("anchor cache read failed", "date", date, "error", err)
		return nil, false
	}
	var anchor journal.Anchor
	if err := json.Unmarshal([]byte(payload), &anchor); err != nil {
		c.logger.Warnw("anchor cache entry corrupt", "date", date, "error", err)
		return nil, false
	}
	return &anchor, true
}

func (c *RedisAnchorCache) Set(ctx context.Context, date string, anchor *journal.Anchor) {
	payload, err := json.Marshal(anchor)
	if err != nil {
		c.logger.Warnw("anchor cache marshal failed", "date", date, "error", err)
		return
	}
	if err := c.client.Set(ctx, anchorKey(date), payload, sealedAnchorTTL).Err(); err != nil {
		c.logger.Warnw("anchor cache write failed", "date", date, "error", err)
	}
}

func anchorKey(date string) string {
	return fmt.Sprintf("anchor:%s", date)
}
