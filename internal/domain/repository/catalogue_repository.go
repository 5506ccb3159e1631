package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogueRepository precios de catálogo del proveedor (pedido directo).
type CatalogueRepository interface {
	// PriceAt devuelve el precio vigente a la fecha: el de mayor effective_from <= asOf.
	// domain.ErrNotFound si el producto no tiene precio vigente.
	PriceAt(ctx context.Context, productCode string, asOf time.Time) (decimal.Decimal, error)
}
