package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceCache caché de precios de catálogo (Redis o noop). Un miss devuelve found=false sin error.
type PriceCache interface {
	GetPrice(ctx context.Context, key string) (price decimal.Decimal, found bool, err error)
	SetPrice(ctx context.Context, key string, price decimal.Decimal, ttl time.Duration) error
}
