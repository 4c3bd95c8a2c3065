package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"farm-shop/models"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const productListPattern = "products_list_*"

type ProductListCache interface {
	Get(ctx context.Context, page, limit int) (*models.ShopPage, error)
	Set(ctx context.Context, page, limit int, shop *models.ShopPage) error
	Invalidate(ctx context.Context) error
}

type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

func productListKey(page, limit int) string {
	return fmt.Sprintf("products_list_p%d_l%d", page, limit)
}

func (c *RedisProductCache) Get(ctx context.Context, page, limit int) (*models.ShopPage, error) {
	data, err := c.client.Get(ctx, productListKey(page, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var shop models.ShopPage
	if err := json.Unmarshal(data, &shop); err != nil {
		return nil, fmt.Errorf("unmarshal product list failed: %w", err)
	}
	return &shop, nil
}

func (c *RedisProductCache) Set(ctx context.Context, page, limit int, shop *models.ShopPage) error {
	data, err := json.Marshal(shop)
	if err != nil {
		return fmt.Errorf("marshal product list failed: %w", err)
	}
	if err := c.client.Set(ctx, productListKey(page, limit), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisProductCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, productListPattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete failed: %w", err)
		}
	}
	return iter.Err()
}

// NopProductCache always misses.
type NopProductCache struct{}

func (NopProductCache) Get(context.Context, int, int) (*models.ShopPage, error) {
	return nil, ErrCacheMiss
}

func (NopProductCache) Set(context.Context, int, int, *models.ShopPage) error { return nil }

func (NopProductCache) Invalidate(context.Context) error { return nil }
