package inventory

import (
	"context"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del retiro: saldo, stock y registro se confirman juntos o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		accountRepo repository.AccountRepository,
		batchRepo repository.BatchRepository,
		withdrawalRepo repository.WithdrawalRepository,
	) error) error
}

// ReceiptRenderer genera el comprobante PDF de un retiro.
type ReceiptRenderer interface {
	Render(w *entity.Withdrawal) ([]byte, error)
}
