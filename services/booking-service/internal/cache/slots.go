package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meetdesk/irevents/services/booking-service/internal/model"
)

// SlotCache is a read-through cache for slot availability lookups, which are
// by far the hottest read on the booking path. Entries are short-lived and
// invalidated after every committed seat change, so a stale read can only
// ever be as old as the TTL. Capacity is never enforced from the cache.
type SlotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

const defaultTTL = 15 * time.Second

// New returns a SlotCache. A nil client disables caching; every method
// degrades to a miss or a no-op.
func New(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *SlotCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SlotCache{rdb: rdb, ttl: ttl, logger: logger}
}

func slotKey(slotID string) string {
	return "booking:slot:" + slotID
}

// Get returns the cached slot, or nil on a miss. Cache errors are logged and
// reported as misses; the database stays the source of truth.
func (c *SlotCache) Get(ctx context.Context, slotID string) *model.Slot {
	if c == nil || c.rdb == nil {
		return nil
	}
	raw, err := c.rdb.Get(ctx, slotKey(slotID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.logger != nil {
			c.logger.Warn("slot cache get failed", "err", err, "slot_id", slotID)
		}
		return nil
	}
	var slot model.Slot
	if err := json.Unmarshal(raw, &slot); err != nil {
		return nil
	}
	return &slot
}

func (c *SlotCache) Set(ctx context.Context, slot model.Slot) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(slot)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, slotKey(slot.ID), raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("slot cache set failed", "err", err, "slot_id", slot.ID)
	}
}

// Invalidate drops the given slots after a committed mutation.
func (c *SlotCache) Invalidate(ctx context.Context, slotIDs ...string) {
	if c == nil || c.rdb == nil || len(slotIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(slotIDs))
	for _, id := range slotIDs {
		keys = append(keys, slotKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil && c.logger != nil {
		c.logger.Warn("slot cache invalidate failed", "err", err)
	}
}

// ReadyCheck pings Redis for the /readyz endpoint.
func ReadyCheck(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if rdb == nil {
			return errors.New("redis not configured")
		}
		return rdb.Ping(ctx).Err()
	}
}
