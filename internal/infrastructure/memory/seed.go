package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// NewSeeded crea un store con datos de demostración: tres distribuidores con saldo, productos con
// y sin stock, lotes de varios dueños y vencimientos, y precios de catálogo.
func NewSeeded() *Store {
	s := New()

	s.PutDistributor("D001", "Distribuidora Norte", decimal.NewFromInt(500))
	s.PutDistributor("D002", "Distribuidora Sur", decimal.NewFromInt(150))
	s.PutDistributor("D003", "Distribuidora Centro", decimal.NewFromInt(40))

	s.PutProduct("P100", "Crema hidratante 50ml")
	s.PutProduct("P200", "Perfume floral 30ml")
	s.PutProduct("P300", "Labial mate rojo")

	offer := decimal.RequireFromString("8.50")
	s.PutBatch(entity.Batch{ProductCode: "P100", OwnerCode: "D001", ExpiryDate: "2026-03-31", UnitPrice: decimal.NewFromInt(10), AvailableQty: 12,
		Pricing: entity.PricingMetadata{OfferCataloguePrice: &offer}})
	s.PutBatch(entity.Batch{ProductCode: "P100", OwnerCode: "D002", ExpiryDate: "2025-12-31", UnitPrice: decimal.RequireFromString("9.50"), AvailableQty: 4})
	s.PutBatch(entity.Batch{ProductCode: "P200", OwnerCode: "D003", ExpiryDate: "2027-01-15", UnitPrice: decimal.NewFromInt(25), AvailableQty: 3})
	s.PutBatch(entity.Batch{ProductCode: "P300", OwnerCode: "D001", ExpiryDate: "2025-06-30", UnitPrice: decimal.NewFromInt(6), AvailableQty: 0})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.PutPrice("P100", from, decimal.NewFromInt(12))
	s.PutPrice("P200", from, decimal.NewFromInt(30))
	s.PutPrice("P300", from, decimal.RequireFromString("7.25"))
	return s
}
