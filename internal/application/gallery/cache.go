package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListingCache stores the latest Listing. Freshness is decided by the caller
// from FetchedAt.
type ListingCache interface {
	Get(ctx context.Context) (*Listing, error)
	Put(ctx context.Context, l Listing) error
}

// MemoryListingCache keeps the listing for the life of the process.
type MemoryListingCache struct {
	mu      sync.RWMutex
	listing *Listing
}

func (c *MemoryListingCache) Get(_ context.Context) (*Listing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.listing == nil {
		return nil, nil
	}
	l := *c.listing
	l.Keys = append([]string(nil), c.listing.Keys...)
	return &l, nil
}

func (c *MemoryListingCache) Put(_ context.Context, l Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l.Keys = append([]string(nil), l.Keys...)
	c.listing = &l
	return nil
}

const listingCacheKey = "gallery:listing"

// RedisListingCache shares one listing across processes. Entries expire after TTL.
type RedisListingCache struct {
	Rdb *redis.Client
	Key string
	TTL time.Duration
}

func NewRedisListingCache(rdb *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{Rdb: rdb, Key: listingCacheKey, TTL: ttl}
}

func (c *RedisListingCache) Get(ctx context.Context) (*Listing, error) {
	raw, err := c.Rdb.Get(ctx, c.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var l Listing
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *RedisListingCache) Put(ctx context.Context, l Listing) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return c.Rdb.Set(ctx, c.Key, raw, c.TTL).Err()
}
