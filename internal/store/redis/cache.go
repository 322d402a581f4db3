// Package redis holds the availability verdict cache. Verdicts never expire
// by redis TTL: staleness is judged at read time against the caller's max
// age, so an old verdict simply reads as absent without ever being evicted.
package redis

import (
	"context"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	fieldAvailable = "available"
	fieldCheckedAt = "checked_at"
)

// Cache stores one hash per handle: whether it was available and when the
// verdict was produced.
type Cache struct {
	client *goredis.Client
	now    func() time.Time
}

func NewCache(client *goredis.Client) *Cache {
	return &Cache{client: client, now: time.Now}
}

// Get returns a handle's cached verdict. ok is false on a miss, on a verdict
// older than maxAge and on an unparsable entry; err is reserved for transport
// failures so callers can distinguish "unknown" from "redis down".
func (c *Cache) Get(ctx context.Context, handle string, maxAge time.Duration) (available bool, ok bool, err error) {
	fields, err := c.client.HGetAll(ctx, AvailKey(handle)).Result()
	if err != nil {
		return false, false, err
	}
	available, ok = parseVerdict(fields, maxAge, c.now())
	return available, ok, nil
}

// parseVerdict judges a stored verdict hash against maxAge. Stale and
// malformed entries read as absent; nothing is ever deleted.
func parseVerdict(fields map[string]string, maxAge time.Duration, now time.Time) (available bool, ok bool) {
	if len(fields) == 0 {
		return false, false
	}
	checkedAt, err := strconv.ParseInt(fields[fieldCheckedAt], 10, 64)
	if err != nil {
		return false, false
	}
	if now.Sub(time.Unix(checkedAt, 0)) > maxAge {
		return false, false
	}
	return fields[fieldAvailable] == "1", true
}

// Put stores a fresh verdict, overwriting any previous one.
func (c *Cache) Put(ctx context.Context, handle string, available bool) error {
	val := "0"
	if available {
		val = "1"
	}
	return c.client.HSet(ctx, AvailKey(handle),
		fieldAvailable, val,
		fieldCheckedAt, strconv.FormatInt(c.now().Unix(), 10),
	).Err()
}

// Ping reports whether redis is reachable (used by readiness).
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
