package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uav-store/backend/internal/domain"
)

const featuredProductsKey = "products:featured"

// ProductCache stores the featured product listing.
type ProductCache interface {
	GetFeatured(ctx context.Context) ([]domain.Product, bool, error)
	SetFeatured(ctx context.Context, products []domain.Product) error
	Invalidate(ctx context.Context) error
}

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache builds a Redis-backed cache. A nil client yields a cache
// that never hits.
func NewProductCache(client *redis.Client, ttl time.Duration) ProductCache {
	if client == nil || ttl <= 0 {
		return noopProductCache{}
	}
	return &redisProductCache{client: client, ttl: ttl}
}

func (c *redisProductCache) GetFeatured(ctx context.Context) ([]domain.Product, bool, error) {
	raw, err := c.client.Get(ctx, featuredProductsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read featured products: %w", err)
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, nil
	}
	return products, true, nil
}

func (c *redisProductCache) SetFeatured(ctx context.Context, products []domain.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, featuredProductsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache featured products: %w", err)
	}
	return nil
}

func (c *redisProductCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, featuredProductsKey).Err()
}

type noopProductCache struct{}

func (noopProductCache) GetFeatured(context.Context) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (noopProductCache) SetFeatured(context.Context, []domain.Product) error { return nil }

func (noopProductCache) Invalidate(context.Context) error { return nil }
