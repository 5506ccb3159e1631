package cart

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// LineTotal qty * price.
func LineTotal(qty int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// Totals suma unidades y montos de las líneas.
func Totals(lines []entity.CartLine) (units int, amount decimal.Decimal) {
	amount = decimal.Zero
	for _, l := range lines {
		units += l.Qty
		amount = amount.Add(l.Total)
	}
	return units, amount
}

// RequiredCash efectivo que debe tener el distribuidor que retira: el total de las líneas que
// no son de su propio stock. Sin distribuidor seleccionado se exige el total completo.
func RequiredCash(lines []entity.CartLine, withdrawer string) decimal.Decimal {
	required := decimal.Zero
	for _, l := range lines {
		if withdrawer != "" && l.OwnerCode == withdrawer {
			continue
		}
		required = required.Add(l.Total)
	}
	return required
}

// Recalculate recalcula el total de cada línea, los totales del carrito y el efectivo requerido.
// Devuelve un estado nuevo; no modifica el recibido.
func Recalculate(state entity.CartState) entity.CartState {
	out := state.Clone()
	for i := range out.Lines {
		out.Lines[i].Total = LineTotal(out.Lines[i].Qty, out.Lines[i].Price)
	}
	out.TotalUnits, out.TotalAmount = Totals(out.Lines)
	out.RequiredCash = RequiredCash(out.Lines, out.DistributorCode)
	return out
}

// Empty estado vacío: sin líneas, totales en cero y sin distribuidor.
func Empty() entity.CartState {
	return entity.CartState{
		Lines:        []entity.CartLine{},
		TotalAmount:  decimal.Zero,
		RequiredCash: decimal.Zero,
	}
}

// Normalize colapsa líneas duplicadas y recalcula totales de línea y del carrito, conservando
// el efectivo requerido informado (valor canónico del servidor).
func Normalize(state entity.CartState) entity.CartState {
	out := state.Clone()
	out.Lines = Merge(state.Lines, nil)
	out.TotalUnits, out.TotalAmount = Totals(out.Lines)
	return out
}
