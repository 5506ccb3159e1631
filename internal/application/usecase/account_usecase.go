package usecase

import (
	"context"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

// AccountUseCase saldos y distribuidores.
type AccountUseCase struct {
	accounts     repository.AccountRepository
	distributors repository.DistributorRepository
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(accounts repository.AccountRepository, distributors repository.DistributorRepository) *AccountUseCase {
	return &AccountUseCase{accounts: accounts, distributors: distributors}
}

// Balance saldo disponible del distribuidor.
func (uc *AccountUseCase) Balance(ctx context.Context, distributorCode string) (*dto.AccountBalanceResponse, error) {
	if distributorCode == "" {
		return nil, domain.NewValidationError("distributorCode es obligatorio")
	}
	acc, err := uc.accounts.Get(ctx, distributorCode)
	if err != nil {
		return nil, err
	}
	return &dto.AccountBalanceResponse{DistributorCode: acc.DistributorCode, Balance: acc.Balance}, nil
}

// ListDistributors lista los distribuidores.
func (uc *AccountUseCase) ListDistributors(ctx context.Context) ([]dto.DistributorDTO, error) {
	list, err := uc.distributors.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.DistributorsToDTO(list), nil
}
