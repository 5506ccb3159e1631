package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

// ReceiptUseCase consulta de retiros registrados y su comprobante PDF.
type ReceiptUseCase struct {
	repo     repository.WithdrawalRepository
	renderer ReceiptRenderer
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(repo repository.WithdrawalRepository, renderer ReceiptRenderer) *ReceiptUseCase {
	return &ReceiptUseCase{repo: repo, renderer: renderer}
}

// Get devuelve el retiro con sus líneas.
func (uc *ReceiptUseCase) Get(ctx context.Context, id string) (*dto.WithdrawalDetailResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.WithdrawalToDetail(w)
	return &resp, nil
}

// PDF genera el comprobante del retiro.
func (uc *ReceiptUseCase) PDF(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.renderer.Render(w)
	if err != nil {
		return nil, fmt.Errorf("generar comprobante %s: %w", id, err)
	}
	return pdf, nil
}
