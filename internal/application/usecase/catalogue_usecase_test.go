package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retiros-api/internal/application/usecase"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/infrastructure/memory"
)

// mapCache caché en memoria que cuenta accesos; failGet simula Redis caído.
type mapCache struct {
	values  map[string]decimal.Decimal
	gets    int
	sets    int
	ttl     time.Duration
	failGet bool
}

func (c *mapCache) GetPrice(_ context.Context, key string) (decimal.Decimal, bool, error) {
	c.gets++
	if c.failGet {
		return decimal.Zero, false, errors.New("redis caído")
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *mapCache) SetPrice(_ context.Context, key string, price decimal.Decimal, ttl time.Duration) error {
	c.sets++
	c.ttl = ttl
	c.values[key] = price
	return nil
}

func TestCatalogueUseCase_CacheaPrecio(t *testing.T) {
	cache := &mapCache{values: map[string]decimal.Decimal{}}
	uc := usecase.NewCatalogueUseCase(memory.NewSeeded().Catalogue(), cache, time.Minute, zerolog.Nop())

	first, err := uc.PriceAt(context.Background(), "P100", "2025-05-01")
	require.NoError(t, err)
	second, err := uc.PriceAt(context.Background(), "P100", "2025-05-01")
	require.NoError(t, err)

	assert.True(t, dec("12").Equal(first.Price))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, time.Minute, cache.ttl)
	assert.Contains(t, cache.values, usecase.PriceKey("P100", "2025-05-01"))
}

func TestCatalogueUseCase_CacheCaidaNoCortaLaConsulta(t *testing.T) {
	cache := &mapCache{values: map[string]decimal.Decimal{}, failGet: true}
	uc := usecase.NewCatalogueUseCase(memory.NewSeeded().Catalogue(), cache, time.Minute, zerolog.Nop())

	resp, err := uc.PriceAt(context.Background(), "P200", "2025-05-01")

	require.NoError(t, err)
	assert.True(t, dec("30").Equal(resp.Price))
}

func TestCatalogueUseCase_Errores(t *testing.T) {
	uc := usecase.NewCatalogueUseCase(memory.NewSeeded().Catalogue(), &mapCache{values: map[string]decimal.Decimal{}}, time.Minute, zerolog.Nop())

	_, err := uc.PriceAt(context.Background(), "P100", "01-05-2025")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.PriceAt(context.Background(), "P999", "2025-05-01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
