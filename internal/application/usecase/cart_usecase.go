package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/cart"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

// CartUseCase carrito persistido del lado servidor: un registro por distribuidor.
type CartUseCase struct {
	repo repository.CartRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(repo repository.CartRepository) *CartUseCase {
	return &CartUseCase{repo: repo}
}

// Get devuelve el carrito con totales y efectivo requerido calculados.
func (uc *CartUseCase) Get(ctx context.Context, ownerCode string) (*dto.CartResponse, error) {
	if ownerCode == "" {
		return nil, domain.NewValidationError("distributorCode es obligatorio")
	}
	rec, err := uc.repo.Get(ctx, ownerCode)
	if err != nil {
		return nil, err
	}
	state := cart.Recalculate(entity.CartState{Lines: cart.Merge(rec.Lines, nil), DistributorCode: rec.SelectedDistributor})
	resp := dto.CartResponseFromState(state)
	return &resp, nil
}

// Upsert reemplaza el carrito con los items recibidos. Recalcula el total de cada línea, los
// totales y el efectivo requerido; colapsa líneas repetidas por clave.
func (uc *CartUseCase) Upsert(ctx context.Context, ownerCode string, in dto.UpsertCartRequest) (*dto.CartResponse, error) {
	if ownerCode == "" {
		return nil, domain.NewValidationError("distributorCode es obligatorio")
	}
	lines := dto.CartItemsFromDTO(in.Items)
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	state := cart.Recalculate(entity.CartState{Lines: cart.Merge(lines, nil), DistributorCode: in.Distributor()})
	rec := &entity.CartRecord{
		OwnerCode:           ownerCode,
		Lines:               state.Lines,
		SelectedDistributor: state.DistributorCode,
		UpdatedAt:           time.Now(),
	}
	if err := uc.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	resp := dto.CartResponseFromState(state)
	return &resp, nil
}

// Clear elimina el carrito del distribuidor.
func (uc *CartUseCase) Clear(ctx context.Context, ownerCode string) error {
	if ownerCode == "" {
		return domain.NewValidationError("distributorCode es obligatorio")
	}
	return uc.repo.Delete(ctx, ownerCode)
}

func validateLines(lines []entity.CartLine) error {
	for i, l := range lines {
		switch {
		case l.ProductCode == "":
			return domain.NewValidationError("item %d: productCode es obligatorio", i)
		case l.Qty <= 0:
			return domain.NewValidationError("item %d: qty debe ser mayor que cero", i)
		case l.Price.IsNegative():
			return domain.NewValidationError("item %d: price no puede ser negativo", i)
		case (l.OwnerCode == "") != (l.ExpiryDate == ""):
			return domain.NewValidationError("item %d: ownerCode y expiryDate van juntos (ambos null en pedido directo)", i)
		}
		if l.ExpiryDate != "" {
			if _, err := time.Parse(entity.ExpiryLayout, l.ExpiryDate); err != nil {
				return domain.NewValidationError("item %d: expiryDate inválida %q", i, l.ExpiryDate)
			}
		}
	}
	return nil
}
