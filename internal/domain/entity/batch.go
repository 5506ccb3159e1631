package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpiryLayout formato de las fechas de vencimiento en lotes, líneas y claves.
const ExpiryLayout = "2006-01-02"

// Batch lote retirable tal como lo entrega el inventario: producto + distribuidor dueño + vencimiento.
// Los lotes del inventario siempre tienen dueño; el pedido directo se modela aparte (DirectOrderBatch).
type Batch struct {
	ProductCode  string
	OwnerCode    string
	ExpiryDate   string // YYYY-MM-DD
	UnitPrice    decimal.Decimal
	AvailableQty int
	Pricing      PricingMetadata
	UpdatedAt    time.Time
}

// Key devuelve la clave de asignación del lote.
func (b Batch) Key() AllocationKey {
	return AllocationKey{ProductCode: b.ProductCode, OwnerCode: b.OwnerCode, ExpiryDate: b.ExpiryDate}
}

// PricingMetadata precios informativos del catálogo que viajan sin cambios hasta el retiro.
// El motor no los calcula ni los interpreta.
type PricingMetadata struct {
	OfferCataloguePrice           *decimal.Decimal
	PriceAfterExpiry              *decimal.Decimal
	PriceAfterDistributorDiscount *decimal.Decimal
}

// WithdrawableProduct producto que puede aparecer en un retiro. InStock=false indica que solo
// es posible pedirlo directo al proveedor.
type WithdrawableProduct struct {
	Code    string
	Name    string
	InStock bool
}

// Distributor distribuidor que puede retirar o ser dueño de lotes.
type Distributor struct {
	Code string
	Name string
}

// Account saldo en efectivo de un distribuidor.
type Account struct {
	DistributorCode string
	Balance         decimal.Decimal
	UpdatedAt       time.Time
}
