package repositories

import (
	"context"
	"testing"
	"time"

	"farm-shop/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisProductCache(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewRedisProductCache(client, 5*time.Minute)
	ctx := context.Background()

	_, err := cache.Get(ctx, 1, 12)
	assert.ErrorIs(t, err, ErrCacheMiss)

	shop := &models.ShopPage{
		Products:   []models.Product{{ID: 1, Name: "Eggs", Slug: "eggs", Price: decimal.RequireFromString("100")}},
		Categories: []models.Category{{ID: 1, Name: "Poultry", Slug: "poultry"}},
		Meta:       models.NewPaginationMeta(1, 12, 1),
	}
	require.NoError(t, cache.Set(ctx, 1, 12, shop))
	require.NoError(t, cache.Set(ctx, 2, 12, shop))
	assert.Equal(t, 5*time.Minute, mr.TTL("products_list_p1_l12"))

	got, err := cache.Get(ctx, 1, 12)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "Eggs", got.Products[0].Name)
	assert.True(t, got.Products[0].Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, shop.Meta, got.Meta)

	require.NoError(t, mr.Set("session:keep:cart", "{}"))
	require.NoError(t, cache.Invalidate(ctx))

	_, err = cache.Get(ctx, 1, 12)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get(ctx, 2, 12)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.True(t, mr.Exists("session:keep:cart"))
}

func TestNopProductCache(t *testing.T) {
	var cache NopProductCache
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 1, 12, &models.ShopPage{}))
	_, err := cache.Get(ctx, 1, 12)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, cache.Invalidate(ctx))
}
