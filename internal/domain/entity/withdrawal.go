package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal retiro confirmado: debita el efectivo del distribuidor que retira y descuenta los lotes propios.
type Withdrawal struct {
	ID              string
	WithdrawBy      int
	DistributorCode string // quien retira
	TotalAmount     decimal.Decimal
	TotalUnits      int
	RequiredCash    decimal.Decimal
	Lines           []WithdrawalLine
	CreatedAt       time.Time
}

// WithdrawalLine línea del retiro. OwnerCode es el dueño del lote (vacío = pedido directo).
type WithdrawalLine struct {
	ProductCode  string
	ExpiryDate   string
	OwnerCode    string
	Qty          int
	Total        decimal.Decimal
	RequiredCash decimal.Decimal
	Pricing      PricingMetadata
}

// IsDirectOrder indica si la línea se pide al proveedor en lugar de salir de un lote propio.
func (l WithdrawalLine) IsDirectOrder() bool {
	return l.OwnerCode == "" && l.ExpiryDate == ""
}

// WithdrawalReceipt respuesta del servidor al registrar un retiro.
type WithdrawalReceipt struct {
	ID      string
	Message string
}
