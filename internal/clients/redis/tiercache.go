package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/halewick/tradeportal-backend/internal/pkg/logger"
	"github.com/halewick/tradeportal-backend/internal/types"
)

// TierCache is a read-through cache for catalog products and their tier
// lists. The cart engine itself never reads the cache; only the catalog
// surface does, so a stale entry can never violate pricing consistency.
type TierCache interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, bool)
	SetProduct(ctx context.Context, product *types.Product)
	Close() error
}

type tierCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewTierCache(log *logger.Logger, addr string, ttl time.Duration) (TierCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &tierCache{
		log: log.With("client", "TierCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(productID uuid.UUID) string {
	return "tiers:product:" + productID.String()
}

func (c *tierCache) GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(productID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Tier cache read failed", "product_id", productID, "error", err)
		}
		return nil, false
	}
	var product types.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		c.log.Warn("Tier cache entry corrupt, dropping", "product_id", productID, "error", err)
		_ = c.rdb.Del(ctx, cacheKey(productID)).Err()
		return nil, false
	}
	return &product, true
}

func (c *tierCache) SetProduct(ctx context.Context, product *types.Product) {
	if product == nil {
		return
	}
	raw, err := json.Marshal(product)
	if err != nil {
		c.log.Warn("Tier cache marshal failed", "product_id", product.ID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(product.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Tier cache write failed", "product_id", product.ID, "error", err)
	}
}

func (c *tierCache) Close() error {
	return c.rdb.Close()
}
