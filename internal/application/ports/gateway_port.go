package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// CartStore define el puerto de salida hacia el carrito remoto (un registro por distribuidor).
// Cualquier adaptador (HTTP, fake de tests) debe implementarlo; el motor de sincronización solo
// conoce este contrato. Todos los métodos respetan la cancelación del ctx.
type CartStore interface {
	GetCart(ctx context.Context, distributorCode string) (entity.CartState, error)
	// UpsertCart persiste { items, selectedDistributor } y devuelve los valores canónicos del servidor.
	UpsertCart(ctx context.Context, distributorCode string, lines []entity.CartLine, selectedDistributor string) (entity.CartState, error)
	ClearCart(ctx context.Context, distributorCode string) error
}

// InventoryGateway consultas de inventario, catálogo y cuentas usadas por la sesión de retiro.
type InventoryGateway interface {
	ListWithdrawableProducts(ctx context.Context) ([]entity.WithdrawableProduct, error)
	ListBatchesForProduct(ctx context.Context, productCode string) ([]entity.Batch, error)
	GetDirectOrderPrice(ctx context.Context, productCode string, asOf time.Time) (decimal.Decimal, error)
	ListDistributors(ctx context.Context) ([]entity.Distributor, error)
	GetAccountBalance(ctx context.Context, distributorCode string) (decimal.Decimal, error)
}

// WithdrawalGateway registra retiros en el servidor.
type WithdrawalGateway interface {
	SubmitWithdrawal(ctx context.Context, w *entity.Withdrawal) (entity.WithdrawalReceipt, error)
}

// Gateway agrupa todas las operaciones remotas de la sesión.
type Gateway interface {
	CartStore
	InventoryGateway
	WithdrawalGateway
}
