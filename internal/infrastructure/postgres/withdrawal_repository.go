package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

var _ repository.WithdrawalRepository = (*WithdrawalRepo)(nil)

// WithdrawalRepo retiros confirmados (usable con pool o tx).
type WithdrawalRepo struct {
	q Querier
}

// NewWithdrawalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWithdrawalRepository(q Querier) *WithdrawalRepo {
	return &WithdrawalRepo{q: q}
}

// Create persiste cabecera y líneas. Llamar dentro de la tx del retiro.
func (r *WithdrawalRepo) Create(ctx context.Context, w *entity.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (id, withdraw_by, distributor_code, total_amount, total_units, required_cash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.WithdrawBy, w.DistributorCode, w.TotalAmount, w.TotalUnits, w.RequiredCash, w.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("withdrawal %s: %w", w.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert withdrawal: %w", err)
	}

	lineQuery := `
		INSERT INTO withdrawal_lines (withdrawal_id, line_no, product_code, owner_code, expiry_date, qty, total, required_cash,
		                              offer_catalogue_price, price_after_expiry, price_after_distributor_discount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i, l := range w.Lines {
		expiry, err := expiryParam(l.ExpiryDate)
		if err != nil {
			return err
		}
		_, err = r.q.Exec(ctx, lineQuery,
			w.ID, i+1, l.ProductCode, nullIfEmpty(l.OwnerCode), expiry, l.Qty, l.Total, l.RequiredCash,
			l.Pricing.OfferCataloguePrice, l.Pricing.PriceAfterExpiry, l.Pricing.PriceAfterDistributorDiscount,
		)
		if err != nil {
			return fmt.Errorf("insert withdrawal line %d: %w", i+1, err)
		}
	}
	return nil
}

// GetByID obtiene el retiro con sus líneas en el orden original.
func (r *WithdrawalRepo) GetByID(ctx context.Context, id string) (*entity.Withdrawal, error) {
	query := `
		SELECT id::text, withdraw_by, distributor_code, total_amount, total_units, required_cash, created_at
		FROM withdrawals WHERE id::text = $1`
	var w entity.Withdrawal
	err := r.q.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.WithdrawBy, &w.DistributorCode, &w.TotalAmount, &w.TotalUnits, &w.RequiredCash, &w.CreatedAt,
	)
	if err != nil {
		return nil, notFound("get withdrawal", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_code, COALESCE(owner_code, ''), expiry_date, qty, total, required_cash,
		       offer_catalogue_price, price_after_expiry, price_after_distributor_discount
		FROM withdrawal_lines WHERE withdrawal_id = $1::uuid
		ORDER BY line_no`, w.ID)
	if err != nil {
		return nil, fmt.Errorf("list withdrawal lines: %w", err)
	}
	defer rows.Close()

	w.Lines = make([]entity.WithdrawalLine, 0)
	for rows.Next() {
		var l entity.WithdrawalLine
		var expiry *time.Time
		if err := rows.Scan(
			&l.ProductCode, &l.OwnerCode, &expiry, &l.Qty, &l.Total, &l.RequiredCash,
			&l.Pricing.OfferCataloguePrice, &l.Pricing.PriceAfterExpiry, &l.Pricing.PriceAfterDistributorDiscount,
		); err != nil {
			return nil, fmt.Errorf("scan withdrawal line: %w", err)
		}
		l.ExpiryDate = expiryString(expiry)
		w.Lines = append(w.Lines, l)
	}
	return &w, rows.Err()
}
