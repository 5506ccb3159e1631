package repository

import (
	"context"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// ProductRepository productos que pueden aparecer en un retiro.
type ProductRepository interface {
	// ListWithdrawable devuelve los productos ordenados por código; InStock indica si hay algún lote con stock.
	ListWithdrawable(ctx context.Context) ([]entity.WithdrawableProduct, error)
}
