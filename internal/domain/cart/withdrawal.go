package cart

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// BuildWithdrawal arma el retiro a partir del carrito. El requiredCash de cada línea es su aporte
// al efectivo requerido: el total si no es stock propio del que retira, cero si lo es.
func BuildWithdrawal(state entity.CartState, withdrawBy int) *entity.Withdrawal {
	lines := make([]entity.WithdrawalLine, 0, len(state.Lines))
	for _, l := range state.Lines {
		required := l.Total
		if state.DistributorCode != "" && l.OwnerCode == state.DistributorCode {
			required = decimal.Zero
		}
		lines = append(lines, entity.WithdrawalLine{
			ProductCode:  l.ProductCode,
			ExpiryDate:   l.ExpiryDate,
			OwnerCode:    l.OwnerCode,
			Qty:          l.Qty,
			Total:        l.Total,
			RequiredCash: required,
			Pricing:      l.Pricing,
		})
	}
	return &entity.Withdrawal{
		WithdrawBy:      withdrawBy,
		DistributorCode: state.DistributorCode,
		TotalAmount:     state.TotalAmount,
		TotalUnits:      state.TotalUnits,
		RequiredCash:    state.RequiredCash,
		Lines:           lines,
	}
}
