package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine asignación comprometida dentro del carrito. Total = Qty * Price se recalcula en cada
// mutación; nunca se conserva un total viejo.
type CartLine struct {
	ProductCode string
	OwnerCode   string // vacío = pedido directo
	ExpiryDate  string // vacío = pedido directo
	Qty         int
	Price       decimal.Decimal
	Total       decimal.Decimal
	Pricing     PricingMetadata
}

// Key devuelve la clave de asignación de la línea.
func (l CartLine) Key() AllocationKey {
	return AllocationKey{ProductCode: l.ProductCode, OwnerCode: l.OwnerCode, ExpiryDate: l.ExpiryDate}
}

// CartState estado canónico del carrito en la sesión del cliente.
// TotalUnits = Σ Qty y TotalAmount = Σ Total después de cada mutación y de cada sincronización.
type CartState struct {
	Lines           []CartLine
	TotalUnits      int
	TotalAmount     decimal.Decimal
	RequiredCash    decimal.Decimal
	DistributorCode string // distribuidor que retira (selectedDistributor)
}

// Clone copia el estado sin compartir el slice de líneas.
func (s CartState) Clone() CartState {
	out := s
	if s.Lines != nil {
		out.Lines = make([]CartLine, len(s.Lines))
		copy(out.Lines, s.Lines)
	}
	return out
}

// IsEmpty indica si el carrito no tiene líneas.
func (s CartState) IsEmpty() bool {
	return len(s.Lines) == 0
}

// CartRecord registro del carrito persistido en el servidor: uno por distribuidor dueño de la sesión.
type CartRecord struct {
	OwnerCode           string
	Lines               []CartLine
	SelectedDistributor string
	UpdatedAt           time.Time
}
