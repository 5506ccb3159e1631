package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

// WithdrawUseCase registra retiros de forma transaccional: bloquea la cuenta y los lotes
// (SELECT FOR UPDATE), revalida fondos y stock, descuenta y guarda el retiro con Commit/Rollback.
type WithdrawUseCase struct {
	txRunner     TxRunner
	distributors repository.DistributorRepository
	log          zerolog.Logger
}

// NewWithdrawUseCase construye el caso de uso.
func NewWithdrawUseCase(txRunner TxRunner, distributors repository.DistributorRepository, log zerolog.Logger) *WithdrawUseCase {
	return &WithdrawUseCase{
		txRunner:     txRunner,
		distributors: distributors,
		log:          log.With().Str("component", "withdraw").Logger(),
	}
}

// Withdraw valida el payload, recalcula los totales y ejecuta el retiro en una transacción.
func (uc *WithdrawUseCase) Withdraw(ctx context.Context, in dto.WithdrawRequest) (*dto.WithdrawResponse, error) {
	w := in.ToEntity()
	if err := validateWithdrawal(w); err != nil {
		return nil, err
	}
	if _, err := uc.distributors.Get(ctx, w.DistributorCode); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("distribuidor %s no existe", w.DistributorCode)
		}
		return nil, err
	}
	if err := recomputeTotals(w, in); err != nil {
		return nil, err
	}

	w.ID = uuid.New().String()
	w.CreatedAt = time.Now()

	err := uc.txRunner.Run(ctx, func(
		accountRepo repository.AccountRepository,
		batchRepo repository.BatchRepository,
		withdrawalRepo repository.WithdrawalRepository,
	) error {
		// Bloquea la cuenta del que retira y revalida fondos
		acc, err := accountRepo.GetForUpdate(ctx, w.DistributorCode)
		if err != nil {
			return err
		}
		if w.RequiredCash.GreaterThan(acc.Balance) {
			return &domain.InsufficientFundsError{Required: w.RequiredCash, Available: acc.Balance}
		}

		// Bloquea cada lote propio y descuenta; el pedido directo no toca stock
		for _, owned := range ownedQuantities(w.Lines) {
			key, qty := owned.key, owned.qty
			batch, err := batchRepo.GetForUpdate(ctx, key)
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: lote %s inexistente", domain.ErrInsufficientStock, key)
			}
			if err != nil {
				return err
			}
			if batch.AvailableQty < qty {
				return fmt.Errorf("%w: lote %s tiene %d, se piden %d", domain.ErrInsufficientStock, key, batch.AvailableQty, qty)
			}
			if err := batchRepo.UpdateQty(ctx, key, batch.AvailableQty-qty); err != nil {
				return err
			}
		}

		if err := accountRepo.UpdateBalance(ctx, w.DistributorCode, acc.Balance.Sub(w.RequiredCash)); err != nil {
			return err
		}
		return withdrawalRepo.Create(ctx, w)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("distributor", w.DistributorCode).Msg("retiro rechazado")
		return nil, err
	}

	uc.log.Info().Str("withdrawal_id", w.ID).Str("distributor", w.DistributorCode).
		Int("units", w.TotalUnits).Str("amount", w.TotalAmount.StringFixed(2)).Msg("retiro registrado")
	return &dto.WithdrawResponse{
		ID:      w.ID,
		Message: fmt.Sprintf("Retiro %s registrado: %d unidades por %s", w.ID, w.TotalUnits, w.TotalAmount.StringFixed(2)),
	}, nil
}

func validateWithdrawal(w *entity.Withdrawal) error {
	if w.DistributorCode == "" {
		return domain.NewValidationError("no hay distribuidor seleccionado")
	}
	if len(w.Lines) == 0 {
		return domain.NewValidationError("el retiro no tiene productos")
	}
	for i, l := range w.Lines {
		switch {
		case l.ProductCode == "":
			return domain.NewValidationError("producto %d: productCode es obligatorio", i)
		case l.Qty <= 0:
			return domain.NewValidationError("producto %d: qty debe ser mayor que cero", i)
		case l.Total.IsNegative():
			return domain.NewValidationError("producto %d: total no puede ser negativo", i)
		case (l.OwnerCode == "") != (l.ExpiryDate == ""):
			return domain.NewValidationError("producto %d: distributorCode y expiryDate van juntos", i)
		}
	}
	return nil
}

// recomputeTotals recalcula unidades, monto y efectivo requerido desde las líneas y rechaza
// cabeceras que no coinciden. El requiredCash por línea es su aporte.
func recomputeTotals(w *entity.Withdrawal, in dto.WithdrawRequest) error {
	units, amount, required := 0, decimal.Zero, decimal.Zero
	for i := range w.Lines {
		l := &w.Lines[i]
		units += l.Qty
		amount = amount.Add(l.Total)
		l.RequiredCash = decimal.Zero
		if l.OwnerCode != w.DistributorCode {
			l.RequiredCash = l.Total
			required = required.Add(l.Total)
		}
	}
	if units != in.TotalUnits || !amount.Equal(in.TotalAmt) || !required.Equal(in.RequiredCash) {
		return domain.NewValidationError("totales inconsistentes: unidades %d, monto %s, efectivo requerido %s",
			units, amount.StringFixed(2), required.StringFixed(2))
	}
	w.TotalUnits, w.TotalAmount, w.RequiredCash = units, amount, required
	return nil
}

type ownedQty struct {
	key entity.AllocationKey
	qty int
}

// ownedQuantities suma la cantidad pedida por lote propio (las líneas repetidas se acumulan),
// ordenada por clave para que los bloqueos se tomen siempre en el mismo orden.
func ownedQuantities(lines []entity.WithdrawalLine) []ownedQty {
	sums := make(map[entity.AllocationKey]int, len(lines))
	for _, l := range lines {
		if l.IsDirectOrder() {
			continue
		}
		sums[entity.AllocationKey{ProductCode: l.ProductCode, OwnerCode: l.OwnerCode, ExpiryDate: l.ExpiryDate}] += l.Qty
	}
	out := make([]ownedQty, 0, len(sums))
	for k, q := range sums {
		out = append(out, ownedQty{key: k, qty: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key.String() < out[j].key.String() })
	return out
}
