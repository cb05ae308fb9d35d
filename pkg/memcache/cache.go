package memcache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is an in-process stand-in for the redis movie cache, used when redis is not configured.
// Values are stored encoded so callers never share mutable state with the cache.
type Cache struct {
	store *gocache.Cache
}

// New builds a cache whose entries default to ttl. Expired entries are swept every 2*ttl.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Cache{store: gocache.New(ttl, 2*ttl)}
}

func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok := c.store.Get(key)
	if !ok {
		return false, nil
	}
	payload, ok := raw.([]byte)
	if !ok {
		c.store.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value under key. A zero ttl uses the cache default.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, payload, ttl)
	return nil
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.store.Delete(key)
	}
	return nil
}

// MovieKey matches the redis key layout so logs read the same for both backends.
func (c *Cache) MovieKey(movieID int64) string {
	return "mr:movie:" + strconv.FormatInt(movieID, 10) + ":row"
}

// Len reports how many entries are held, including expired ones not yet swept.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
