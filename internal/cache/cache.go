package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ProductsKey   = "products:all"
	CategoriesKey = "categories:all"
	BrandsKey     = "brands:all"

	CatalogCacheTTL = 10 * time.Minute
)

// Catalog caches the unfiltered catalog listings as JSON blobs.
type Catalog struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalog(rdb *redis.Client) *Catalog {
	return &Catalog{rdb: rdb, ttl: CatalogCacheTTL}
}

// Get decodes the cached value into dst and reports whether it was a hit.
func (c *Catalog) Get(ctx context.Context, key string, dst any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Redis get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("⚠️ Corrupt cache entry %s: %v", key, err)
		c.rdb.Del(ctx, key)
		return false
	}
	return true
}

func (c *Catalog) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Redis set %s: %v", key, err)
	}
}

func (c *Catalog) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Redis invalidate %v: %v", keys, err)
	}
}
