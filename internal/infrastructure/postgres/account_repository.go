package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

var (
	_ repository.AccountRepository     = (*AccountRepo)(nil)
	_ repository.DistributorRepository = (*DistributorRepo)(nil)
)

// AccountRepo saldos en efectivo (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

func (r *AccountRepo) get(ctx context.Context, distributorCode, suffix string) (*entity.Account, error) {
	query := `SELECT distributor_code, balance, updated_at FROM accounts WHERE distributor_code = $1` + suffix
	var a entity.Account
	if err := r.q.QueryRow(ctx, query, distributorCode).Scan(&a.DistributorCode, &a.Balance, &a.UpdatedAt); err != nil {
		return nil, notFound("get account", err)
	}
	return &a, nil
}

func (r *AccountRepo) Get(ctx context.Context, distributorCode string) (*entity.Account, error) {
	return r.get(ctx, distributorCode, "")
}

// GetForUpdate bloquea la cuenta (SELECT FOR UPDATE).
func (r *AccountRepo) GetForUpdate(ctx context.Context, distributorCode string) (*entity.Account, error) {
	return r.get(ctx, distributorCode, " FOR UPDATE")
}

func (r *AccountRepo) UpdateBalance(ctx context.Context, distributorCode string, balance decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE accounts SET balance = $2, updated_at = now() WHERE distributor_code = $1`,
		distributorCode, balance)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("update balance", pgx.ErrNoRows)
	}
	return nil
}

// DistributorRepo distribuidores registrados.
type DistributorRepo struct {
	q Querier
}

// NewDistributorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDistributorRepository(q Querier) *DistributorRepo {
	return &DistributorRepo{q: q}
}

func (r *DistributorRepo) List(ctx context.Context) ([]entity.Distributor, error) {
	rows, err := r.q.Query(ctx, `SELECT code, name FROM distributors ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list distributors: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Distributor, 0)
	for rows.Next() {
		var d entity.Distributor
		if err := rows.Scan(&d.Code, &d.Name); err != nil {
			return nil, fmt.Errorf("scan distributor: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DistributorRepo) Get(ctx context.Context, code string) (*entity.Distributor, error) {
	var d entity.Distributor
	if err := r.q.QueryRow(ctx, `SELECT code, name FROM distributors WHERE code = $1`, code).Scan(&d.Code, &d.Name); err != nil {
		return nil, notFound("get distributor", err)
	}
	return &d, nil
}
