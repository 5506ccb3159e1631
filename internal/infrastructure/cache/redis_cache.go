package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/application/ports"
)

var _ ports.PriceCache = (*RedisPriceCache)(nil)

// RedisPriceCache guarda precios como texto decimal con TTL.
type RedisPriceCache struct {
	client *redis.Client
}

// NewRedisPriceCache crea el cliente; no conecta hasta el primer comando (usar Ping).
func NewRedisPriceCache(addr string, password string, db int) *RedisPriceCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisPriceCache{client: client}
}

func (c *RedisPriceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisPriceCache) Close() error {
	return c.client.Close()
}

func (c *RedisPriceCache) GetPrice(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	price, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("precio en caché inválido %q: %w", key, err)
	}
	return price, true, nil
}

func (c *RedisPriceCache) SetPrice(ctx context.Context, key string, price decimal.Decimal, ttl time.Duration) error {
	return c.client.Set(ctx, key, price.String(), ttl).Err()
}
