// Package cache is a short-TTL read-through cache for rarely-changing lookup
// data (content types, categories). Staleness within the TTL only affects
// facet/browse freshness, never toggle or counter correctness, so writers may
// either invalidate explicitly or just let entries expire.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for the taxonomy lookups.
const (
	KeyContentTypes = "lookup:content_types"
	KeyCategories   = "lookup:categories"
)

// DefaultTTL is how long a populated entry stays fresh.
const DefaultTTL = 5 * time.Minute

// Lookup is a redis-backed read-through cache. It replaces what used to be
// ambient module-level lookup state: one instance is constructed per process
// and handed to whoever needs it.
type Lookup struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewLookup creates a Lookup. ttl defaults to DefaultTTL when non-positive.
func NewLookup(rdb *redis.Client, ttl time.Duration) *Lookup {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Lookup{rdb: rdb, ttl: ttl}
}

// GetOrPopulate unmarshals the cached value for key into dest, or calls load,
// stores its result with the TTL, and unmarshals that. A cache write failure
// is ignored: the freshly loaded value is still returned.
func (c *Lookup) GetOrPopulate(ctx context.Context, key string, dest any, load func(ctx context.Context) (any, error)) error {
	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		if uErr := json.Unmarshal(data, dest); uErr == nil {
			return nil
		}
		// Corrupt entry: drop it and fall through to the loader.
		_ = c.rdb.Del(ctx, key).Err()
	}

	loaded, err := load(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(loaded)
	if err != nil {
		return fmt.Errorf("marshal cache entry %s: %w", key, err)
	}
	_ = c.rdb.Set(ctx, key, payload, c.ttl).Err()
	return json.Unmarshal(payload, dest)
}

// Invalidate drops a key so the next read repopulates from the source.
func (c *Lookup) Invalidate(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}
