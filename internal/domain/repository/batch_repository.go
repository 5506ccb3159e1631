package repository

import (
	"context"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// BatchRepository define el puerto de lotes retirables (producto + dueño + vencimiento).
// GetForUpdate y UpdateQty se usan dentro de la transacción del retiro.
type BatchRepository interface {
	ListByProduct(ctx context.Context, productCode string) ([]entity.Batch, error)
	// GetForUpdate bloquea el lote (SELECT FOR UPDATE). domain.ErrNotFound si no existe.
	GetForUpdate(ctx context.Context, key entity.AllocationKey) (*entity.Batch, error)
	UpdateQty(ctx context.Context, key entity.AllocationKey, availableQty int) error
}
