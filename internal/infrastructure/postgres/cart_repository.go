package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carrito por distribuidor; las líneas se guardan como JSONB.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// cartLineRow forma persistida de una línea; mismos nombres que el contrato HTTP.
type cartLineRow struct {
	ProductCode                   string           `json:"productCode"`
	OwnerCode                     string           `json:"ownerCode,omitempty"`
	ExpiryDate                    string           `json:"expiryDate,omitempty"`
	Qty                           int              `json:"qty"`
	Price                         decimal.Decimal  `json:"price"`
	Total                         decimal.Decimal  `json:"total"`
	OfferCataloguePrice           *decimal.Decimal `json:"offerCataloguePrice,omitempty"`
	PriceAfterExpiry              *decimal.Decimal `json:"priceAfterExpiry,omitempty"`
	PriceAfterDistributorDiscount *decimal.Decimal `json:"priceAfterDistributorDiscount,omitempty"`
}

func encodeLines(lines []entity.CartLine) ([]byte, error) {
	rows := make([]cartLineRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, cartLineRow{
			ProductCode:                   l.ProductCode,
			OwnerCode:                     l.OwnerCode,
			ExpiryDate:                    l.ExpiryDate,
			Qty:                           l.Qty,
			Price:                         l.Price,
			Total:                         l.Total,
			OfferCataloguePrice:           l.Pricing.OfferCataloguePrice,
			PriceAfterExpiry:              l.Pricing.PriceAfterExpiry,
			PriceAfterDistributorDiscount: l.Pricing.PriceAfterDistributorDiscount,
		})
	}
	return json.Marshal(rows)
}

func decodeLines(raw []byte) ([]entity.CartLine, error) {
	var rows []cartLineRow
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, err
		}
	}
	lines := make([]entity.CartLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, entity.CartLine{
			ProductCode: r.ProductCode,
			OwnerCode:   r.OwnerCode,
			ExpiryDate:  r.ExpiryDate,
			Qty:         r.Qty,
			Price:       r.Price,
			Total:       r.Total,
			Pricing: entity.PricingMetadata{
				OfferCataloguePrice:           r.OfferCataloguePrice,
				PriceAfterExpiry:              r.PriceAfterExpiry,
				PriceAfterDistributorDiscount: r.PriceAfterDistributorDiscount,
			},
		})
	}
	return lines, nil
}

// Get devuelve el carrito; si no existe, un registro vacío.
func (r *CartRepo) Get(ctx context.Context, ownerCode string) (*entity.CartRecord, error) {
	query := `
		SELECT lines, COALESCE(selected_distributor, ''), updated_at
		FROM carts WHERE owner_code = $1`
	rec := entity.CartRecord{OwnerCode: ownerCode}
	var raw []byte
	err := r.q.QueryRow(ctx, query, ownerCode).Scan(&raw, &rec.SelectedDistributor, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			rec.Lines = []entity.CartLine{}
			return &rec, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if rec.Lines, err = decodeLines(raw); err != nil {
		return nil, fmt.Errorf("decode cart lines: %w", err)
	}
	return &rec, nil
}

// Save reemplaza el carrito completo (upsert por owner_code).
func (r *CartRepo) Save(ctx context.Context, record *entity.CartRecord) error {
	raw, err := encodeLines(record.Lines)
	if err != nil {
		return fmt.Errorf("encode cart lines: %w", err)
	}
	query := `
		INSERT INTO carts (owner_code, lines, selected_distributor, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner_code)
		DO UPDATE SET lines = EXCLUDED.lines, selected_distributor = EXCLUDED.selected_distributor, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, record.OwnerCode, raw, nullIfEmpty(record.SelectedDistributor)); err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}
	return nil
}

// Delete borra el carrito; no falla si no existe.
func (r *CartRepo) Delete(ctx context.Context, ownerCode string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM carts WHERE owner_code = $1`, ownerCode); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
