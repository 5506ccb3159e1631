package repository

import (
	"context"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// WithdrawalRepository retiros confirmados y sus líneas.
type WithdrawalRepository interface {
	// Create inserta cabecera y líneas (dentro de la transacción del retiro).
	Create(ctx context.Context, w *entity.Withdrawal) error
	GetByID(ctx context.Context, id string) (*entity.Withdrawal, error)
}
