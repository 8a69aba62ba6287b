package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Varun5711/deeplinks/internal/models"
	"github.com/redis/go-redis/v9"
)

const linkKeyPrefix = "link:"

// LinkCache fronts the registry for the redirect path: an in-process LRU
// backed by an optional shared redis tier. Links never change after
// creation, so the only invalidation needed is on delete.
type LinkCache struct {
	l1Cache *LRUCache[*models.Link]
	l2Cache *redis.Client
	l2TTL   time.Duration
}

// NewLinkCache builds a cache; redisClient may be nil for an L1-only cache.
func NewLinkCache(l1Capacity int, redisClient *redis.Client, l2TTL time.Duration) *LinkCache {
	return &LinkCache{
		l1Cache: NewLRUCache[*models.Link](l1Capacity),
		l2Cache: redisClient,
		l2TTL:   l2TTL,
	}
}

func (c *LinkCache) Get(ctx context.Context, shortCode string) (*models.Link, bool) {
	if link, found := c.l1Cache.Get(shortCode); found {
		return link, true
	}

	if c.l2Cache == nil {
		return nil, false
	}

	val, err := c.l2Cache.Get(ctx, linkKeyPrefix+shortCode).Bytes()
	if err != nil {
		return nil, false
	}

	var link models.Link
	if err := json.Unmarshal(val, &link); err != nil {
		return nil, false
	}

	c.l1Cache.Set(shortCode, &link)
	return &link, true
}

func (c *LinkCache) Set(ctx context.Context, link *models.Link) error {
	c.l1Cache.Set(link.ShortCode, link)

	if c.l2Cache == nil {
		return nil
	}

	data, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return c.l2Cache.Set(ctx, linkKeyPrefix+link.ShortCode, data, c.l2TTL).Err()
}

func (c *LinkCache) Delete(ctx context.Context, shortCode string) error {
	c.l1Cache.Delete(shortCode)

	if c.l2Cache == nil {
		return nil
	}
	return c.l2Cache.Del(ctx, linkKeyPrefix+shortCode).Err()
}
