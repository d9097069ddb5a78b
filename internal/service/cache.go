package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventListKey = "events:all"

func eventKey(id string) string { return "event:" + id }

// EventCache is a small read-through cache for catalog responses, backed by
// Redis.  A nil *EventCache (or one built over a nil client) is a valid
// no-op, so the service keeps working when Redis is down at startup.
// Entries carry a short TTL as a backstop for missed invalidations.
type EventCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewEventCache wraps rdb; pass the TTL applied to every entry.
func NewEventCache(rdb *redis.Client, ttl time.Duration) *EventCache {
	if rdb == nil {
		return nil
	}
	return &EventCache{rdb: rdb, ttl: ttl}
}

// Get loads key into v, reporting whether a cached entry was found.  Redis
// errors count as a miss.
func (c *EventCache) Get(ctx context.Context, key string, v any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// Set stores v under key.  Failures are ignored.
func (c *EventCache) Set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

// Drop removes the given keys.  Failures are ignored.
func (c *EventCache) Drop(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}
