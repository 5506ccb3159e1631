// Package cache implementa la caché de precios de catálogo: Redis cuando está configurado y un
// noop cuando no (o cuando Redis no responde al arrancar).
package cache

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/application/ports"
)

var _ ports.PriceCache = NoopPriceCache{}

// NoopPriceCache nunca encuentra nada y descarta las escrituras.
type NoopPriceCache struct{}

func (NoopPriceCache) GetPrice(_ context.Context, _ string) (decimal.Decimal, bool, error) {
	return decimal.Zero, false, nil
}

func (NoopPriceCache) SetPrice(_ context.Context, _ string, _ decimal.Decimal, _ time.Duration) error {
	return nil
}
