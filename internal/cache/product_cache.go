package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"asinlookup/internal/lookup"
	"asinlookup/internal/model"
)

const productTTL = 10 * time.Minute

func Connect(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// ProductCache fronts the store with a short-lived Redis cache. The
// freshness decision still runs on the record's last_updated, so the cache
// TTL only bounds how long an operator edit can lag behind a read. Redis
// being down falls back to the store transparently.
type ProductCache struct {
	store lookup.Store
	redis *redis.Client
}

func NewProductCache(store lookup.Store, client *redis.Client) *ProductCache {
	return &ProductCache{store: store, redis: client}
}

func key(asin string) string {
	return "product:" + strings.ToUpper(asin)
}

func (c *ProductCache) GetByASIN(ctx context.Context, asin string) (*model.Product, error) {
	if data, err := c.redis.Get(ctx, key(asin)).Result(); err == nil {
		var p model.Product
		if json.Unmarshal([]byte(data), &p) == nil {
			return &p, nil
		}
	}

	p, err := c.store.GetByASIN(ctx, asin)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		c.redis.Set(ctx, key(asin), data, productTTL)
	}
	return p, nil
}

func (c *ProductCache) Upsert(ctx context.Context, p *model.Product) (*model.Product, error) {
	saved, err := c.store.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	c.redis.Del(ctx, key(saved.ASIN))
	return saved, nil
}

func (c *ProductCache) UpdateEbay(ctx context.Context, asin string, ebay model.EbayContent) (*model.Product, error) {
	saved, err := c.store.UpdateEbay(ctx, asin, ebay)
	if err != nil {
		return nil, err
	}
	c.redis.Del(ctx, key(asin))
	return saved, nil
}

// Invalidate drops a cached record after a collaborator-layer write that
// bypasses the lookup pipeline.
func (c *ProductCache) Invalidate(ctx context.Context, asin string) {
	c.redis.Del(ctx, key(asin))
}
