package entity

import "github.com/shopspring/decimal"

// AllocationKey identidad compuesta (producto, dueño, vencimiento) de un lote y de una línea del carrito.
// OwnerCode y ExpiryDate vacíos identifican el pedido directo del producto.
type AllocationKey struct {
	ProductCode string
	OwnerCode   string
	ExpiryDate  string
}

// IsDirectOrder indica si la clave corresponde al pedido directo (sin dueño ni vencimiento).
func (k AllocationKey) IsDirectOrder() bool {
	return k.OwnerCode == "" && k.ExpiryDate == ""
}

func (k AllocationKey) String() string {
	owner, expiry := k.OwnerCode, k.ExpiryDate
	if owner == "" {
		owner = "-"
	}
	if expiry == "" {
		expiry = "-"
	}
	return k.ProductCode + "|" + owner + "|" + expiry
}

// AllocationOption opción asignable al elegir un producto: un lote propio o el pedido directo.
// La interfaz es cerrada (isAllocationOption) para que solo existan esas dos variantes.
type AllocationOption interface {
	Key() AllocationKey
	Price() decimal.Decimal
	// Remaining devuelve la cantidad todavía asignable; bounded=false para el pedido directo.
	Remaining() (qty int, bounded bool)
	Metadata() PricingMetadata
	isAllocationOption()
}

// OwnedBatch lote con stock propio de un distribuidor, con lo ya comprometido en el carrito descontado.
type OwnedBatch struct {
	Batch        Batch
	RemainingQty int
}

func (o OwnedBatch) Key() AllocationKey        { return o.Batch.Key() }
func (o OwnedBatch) Price() decimal.Decimal    { return o.Batch.UnitPrice }
func (o OwnedBatch) Remaining() (int, bool)    { return o.RemainingQty, true }
func (o OwnedBatch) Metadata() PricingMetadata { return o.Batch.Pricing }
func (OwnedBatch) isAllocationOption()         {}

// DirectOrderBatch pedido directo al proveedor: sin dueño, sin vencimiento y sin límite de cantidad.
type DirectOrderBatch struct {
	ProductCode string
	UnitPrice   decimal.Decimal
}

func (d DirectOrderBatch) Key() AllocationKey      { return AllocationKey{ProductCode: d.ProductCode} }
func (d DirectOrderBatch) Price() decimal.Decimal  { return d.UnitPrice }
func (DirectOrderBatch) Remaining() (int, bool)    { return 0, false }
func (DirectOrderBatch) Metadata() PricingMetadata { return PricingMetadata{} }
func (DirectOrderBatch) isAllocationOption()       {}

// Selection cantidad confirmada por el usuario sobre una opción; entrada del merge del carrito.
type Selection struct {
	ProductCode string
	OwnerCode   string
	ExpiryDate  string
	Qty         int
	Price       decimal.Decimal
	Pricing     PricingMetadata
}

// Key devuelve la clave de asignación de la selección.
func (s Selection) Key() AllocationKey {
	return AllocationKey{ProductCode: s.ProductCode, OwnerCode: s.OwnerCode, ExpiryDate: s.ExpiryDate}
}
