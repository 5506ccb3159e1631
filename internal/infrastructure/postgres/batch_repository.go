package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

var (
	_ repository.BatchRepository   = (*BatchRepo)(nil)
	_ repository.ProductRepository = (*ProductRepo)(nil)
)

const batchColumns = `product_code, owner_code, expiry_date, unit_price, available_qty,
	offer_catalogue_price, price_after_expiry, price_after_distributor_discount, updated_at`

// BatchRepo lotes retirables (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var expiry time.Time
	err := row.Scan(
		&b.ProductCode, &b.OwnerCode, &expiry, &b.UnitPrice, &b.AvailableQty,
		&b.Pricing.OfferCataloguePrice, &b.Pricing.PriceAfterExpiry, &b.Pricing.PriceAfterDistributorDiscount,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.ExpiryDate = expiry.Format(entity.ExpiryLayout)
	return &b, nil
}

// ListByProduct lotes del producto ordenados por vencimiento y dueño.
func (r *BatchRepo) ListByProduct(ctx context.Context, productCode string) ([]entity.Batch, error) {
	query := `SELECT ` + batchColumns + `
		FROM batches WHERE product_code = $1
		ORDER BY expiry_date, owner_code`
	rows, err := r.q.Query(ctx, query, productCode)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(ctx context.Context, key entity.AllocationKey) (*entity.Batch, error) {
	expiry, err := expiryParam(key.ExpiryDate)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + batchColumns + `
		FROM batches WHERE product_code = $1 AND owner_code = $2 AND expiry_date = $3
		FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(ctx, query, key.ProductCode, key.OwnerCode, expiry))
	if err != nil {
		return nil, notFound("get batch for update", err)
	}
	return b, nil
}

// UpdateQty fija la cantidad disponible del lote.
func (r *BatchRepo) UpdateQty(ctx context.Context, key entity.AllocationKey, availableQty int) error {
	expiry, err := expiryParam(key.ExpiryDate)
	if err != nil {
		return err
	}
	query := `
		UPDATE batches SET available_qty = $4, updated_at = now()
		WHERE product_code = $1 AND owner_code = $2 AND expiry_date = $3`
	tag, err := r.q.Exec(ctx, query, key.ProductCode, key.OwnerCode, expiry, availableQty)
	if err != nil {
		return fmt.Errorf("update batch qty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("update batch qty", pgx.ErrNoRows)
	}
	return nil
}

// ProductRepo productos retirables.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// ListWithdrawable productos ordenados por código; InStock si algún lote tiene unidades.
func (r *ProductRepo) ListWithdrawable(ctx context.Context) ([]entity.WithdrawableProduct, error) {
	query := `
		SELECT p.code, p.name,
		       EXISTS (SELECT 1 FROM batches b WHERE b.product_code = p.code AND b.available_qty > 0)
		FROM products p
		ORDER BY p.code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]entity.WithdrawableProduct, 0)
	for rows.Next() {
		var p entity.WithdrawableProduct
		if err := rows.Scan(&p.Code, &p.Name, &p.InStock); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
