package goals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps the computed goal list in Redis so every dashboard load
// does not re-aggregate the half-year. Keyed by period label; a miss or
// any Redis failure just means recomputing.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a goals cache. A zero ttl disables expiry (the
// completion listener still invalidates).
func NewCache(redisClient *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: redisClient, ttl: ttl}
}

func (c *Cache) key(period string) string {
	return fmt.Sprintf("goals:progress:%s", period)
}

// Get retrieves the cached goal list for a period. ok is false on miss
// or error.
func (c *Cache) Get(ctx context.Context, period string) ([]Goal, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, c.key(period)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []Goal
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return out, true
}

// Set stores the goal list for a period.
func (c *Cache) Set(ctx context.Context, period string, goals []Goal) error {
	if c == nil || c.redis == nil {
		return nil
	}
	data, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("goals: marshal cache: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(period), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("goals: set cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached list for a period.
func (c *Cache) Invalidate(ctx context.Context, period string) {
	if c == nil || c.redis == nil {
		return
	}
	c.redis.Del(ctx, c.key(period))
}
