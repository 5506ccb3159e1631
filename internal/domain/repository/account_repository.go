package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// AccountRepository saldo en efectivo por distribuidor.
type AccountRepository interface {
	Get(ctx context.Context, distributorCode string) (*entity.Account, error)
	// GetForUpdate bloquea la cuenta (SELECT FOR UPDATE) dentro de la transacción del retiro.
	GetForUpdate(ctx context.Context, distributorCode string) (*entity.Account, error)
	UpdateBalance(ctx context.Context, distributorCode string, balance decimal.Decimal) error
}

// DistributorRepository distribuidores registrados.
type DistributorRepository interface {
	List(ctx context.Context) ([]entity.Distributor, error)
	Get(ctx context.Context, code string) (*entity.Distributor, error)
}
