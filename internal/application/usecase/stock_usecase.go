package usecase

import (
	"context"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

// StockUseCase consultas de inventario retirable.
type StockUseCase struct {
	products repository.ProductRepository
	batches  repository.BatchRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(products repository.ProductRepository, batches repository.BatchRepository) *StockUseCase {
	return &StockUseCase{products: products, batches: batches}
}

// ListWithdrawableProducts lista los productos que pueden retirarse.
func (uc *StockUseCase) ListWithdrawableProducts(ctx context.Context) ([]dto.WithdrawableProductDTO, error) {
	list, err := uc.products.ListWithdrawable(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ProductsToDTO(list), nil
}

// ListBatches lotes del producto con cantidad disponible, ordenados por vencimiento.
func (uc *StockUseCase) ListBatches(ctx context.Context, productCode string) ([]dto.BatchDTO, error) {
	if productCode == "" {
		return nil, domain.NewValidationError("productCode es obligatorio")
	}
	list, err := uc.batches.ListByProduct(ctx, productCode)
	if err != nil {
		return nil, err
	}
	available := make([]entity.Batch, 0, len(list))
	for _, b := range list {
		if b.AvailableQty > 0 {
			available = append(available, b)
		}
	}
	return dto.BatchesToDTO(available), nil
}
