// Package bootstrap arma el grafo de dependencias del servidor para PostgreSQL o memoria.
package bootstrap

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/retiros-api/internal/application/inventory"
	"github.com/jhoicas/retiros-api/internal/application/ports"
	"github.com/jhoicas/retiros-api/internal/application/usecase"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
	"github.com/jhoicas/retiros-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/retiros-api/internal/infrastructure/pdf"
	"github.com/jhoicas/retiros-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retiros-api/internal/interfaces/http"
)

// Repositories adaptadores de persistencia que consume el servidor.
type Repositories struct {
	Carts        repository.CartRepository
	Batches      repository.BatchRepository
	Products     repository.ProductRepository
	Catalogue    repository.CatalogueRepository
	Accounts     repository.AccountRepository
	Distributors repository.DistributorRepository
	Withdrawals  repository.WithdrawalRepository
	Tx           inventory.TxRunner
}

// Memory repositorios sobre el store en memoria.
func Memory(s *memory.Store) Repositories {
	return Repositories{
		Carts:        s.Carts(),
		Batches:      s.Batches(),
		Products:     s.Products(),
		Catalogue:    s.Catalogue(),
		Accounts:     s.Accounts(),
		Distributors: s.Distributors(),
		Withdrawals:  s.Withdrawals(),
		Tx:           memory.NewTxRunner(s),
	}
}

// Postgres repositorios sobre el pool.
func Postgres(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Carts:        postgres.NewCartRepository(pool),
		Batches:      postgres.NewBatchRepository(pool),
		Products:     postgres.NewProductRepository(pool),
		Catalogue:    postgres.NewCatalogueRepository(pool),
		Accounts:     postgres.NewAccountRepository(pool),
		Distributors: postgres.NewDistributorRepository(pool),
		Withdrawals:  postgres.NewWithdrawalRepository(pool),
		Tx:           postgres.NewTxRunner(pool),
	}
}

// RouterDeps construye los casos de uso sobre los repositorios.
func RouterDeps(r Repositories, cache ports.PriceCache, priceTTL time.Duration, log zerolog.Logger) httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		CartUC:      usecase.NewCartUseCase(r.Carts),
		StockUC:     usecase.NewStockUseCase(r.Products, r.Batches),
		CatalogueUC: usecase.NewCatalogueUseCase(r.Catalogue, cache, priceTTL, log),
		AccountUC:   usecase.NewAccountUseCase(r.Accounts, r.Distributors),
		Withdraw:    inventory.NewWithdrawUseCase(r.Tx, r.Distributors, log),
		Receipt:     inventory.NewReceiptUseCase(r.Withdrawals, infrapdf.NewReceiptGenerator()),
		Log:         log,
	}
}
