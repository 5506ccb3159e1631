package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

var _ repository.CatalogueRepository = (*CatalogueRepo)(nil)

// CatalogueRepo precios de catálogo del proveedor.
type CatalogueRepo struct {
	q Querier
}

// NewCatalogueRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogueRepository(q Querier) *CatalogueRepo {
	return &CatalogueRepo{q: q}
}

// PriceAt precio con mayor effective_from <= asOf.
func (r *CatalogueRepo) PriceAt(ctx context.Context, productCode string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT price FROM catalogue_prices
		WHERE product_code = $1 AND effective_from <= $2
		ORDER BY effective_from DESC
		LIMIT 1`
	var price decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productCode, asOf).Scan(&price); err != nil {
		return decimal.Zero, notFound("catalogue price", err)
	}
	return price, nil
}
