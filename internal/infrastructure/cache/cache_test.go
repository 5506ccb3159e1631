package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retiros-api/internal/infrastructure/cache"
)

func TestNoopPriceCache_SiempreMiss(t *testing.T) {
	c := cache.NoopPriceCache{}
	require.NoError(t, c.SetPrice(context.Background(), "k", decimal.NewFromInt(1), time.Minute))

	_, found, err := c.GetPrice(context.Background(), "k")

	require.NoError(t, err)
	assert.False(t, found)
}

// Requiere un Redis real: REDIS_ADDR=localhost:6379 go test ./internal/infrastructure/cache/...
func TestRedisPriceCache_IdaYVuelta(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR no definido")
	}
	c := cache.NewRedisPriceCache(addr, os.Getenv("REDIS_PASSWORD"), 0)
	defer c.Close()
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	key := "catalogue:price:test:" + time.Now().Format(time.RFC3339Nano)
	_, found, err := c.GetPrice(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetPrice(ctx, key, decimal.RequireFromString("12.50"), time.Minute))
	price, found, err := c.GetPrice(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, decimal.RequireFromString("12.5").Equal(price))
}
