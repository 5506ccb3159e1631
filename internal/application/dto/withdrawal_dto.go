package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// WithdrawRequest body para POST /api/withdraws. distributorCode es quien retira.
type WithdrawRequest struct {
	TotalAmt        decimal.Decimal      `json:"totalAmt"`
	TotalUnits      int                  `json:"totalUnits"`
	WithdrawBy      int                  `json:"withdrawBy"`
	RequiredCash    decimal.Decimal      `json:"requiredCash"`
	DistributorCode string               `json:"distributorCode"`
	Products        []WithdrawProductDTO `json:"products"`
}

// WithdrawProductDTO línea del retiro. distributorCode es el dueño del lote (null en pedido directo).
type WithdrawProductDTO struct {
	ProductCode     string          `json:"productCode"`
	ExpiryDate      *string         `json:"expiryDate"`
	DistributorCode *string         `json:"distributorCode"`
	Qty             int             `json:"qty"`
	Total           decimal.Decimal `json:"total"`
	RequiredCash    decimal.Decimal `json:"requiredCash"`
	PricingDTO
}

// WithdrawResponse respuesta de POST /api/withdraws.
type WithdrawResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// WithdrawalDetailResponse respuesta de GET /api/withdraws/:id.
type WithdrawalDetailResponse struct {
	ID              string               `json:"id"`
	WithdrawBy      int                  `json:"withdrawBy"`
	DistributorCode string               `json:"distributorCode"`
	TotalAmount     decimal.Decimal      `json:"totalAmount"`
	TotalUnits      int                  `json:"totalUnits"`
	RequiredCash    decimal.Decimal      `json:"requiredCash"`
	Products        []WithdrawProductDTO `json:"products"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// NewWithdrawRequest arma el payload del retiro a partir del carrito y del distribuidor que retira.
func NewWithdrawRequest(w *entity.Withdrawal) WithdrawRequest {
	return WithdrawRequest{
		TotalAmt:        w.TotalAmount,
		TotalUnits:      w.TotalUnits,
		WithdrawBy:      w.WithdrawBy,
		RequiredCash:    w.RequiredCash,
		DistributorCode: w.DistributorCode,
		Products:        withdrawLinesToDTO(w.Lines),
	}
}

// ToEntity convierte el request en un retiro sin ID (lo asigna el caso de uso).
func (r WithdrawRequest) ToEntity() *entity.Withdrawal {
	lines := make([]entity.WithdrawalLine, 0, len(r.Products))
	for _, p := range r.Products {
		lines = append(lines, entity.WithdrawalLine{
			ProductCode:  p.ProductCode,
			ExpiryDate:   deref(p.ExpiryDate),
			OwnerCode:    deref(p.DistributorCode),
			Qty:          p.Qty,
			Total:        p.Total,
			RequiredCash: p.RequiredCash,
			Pricing:      p.PricingDTO.ToEntity(),
		})
	}
	return &entity.Withdrawal{
		WithdrawBy:      r.WithdrawBy,
		DistributorCode: r.DistributorCode,
		TotalAmount:     r.TotalAmt,
		TotalUnits:      r.TotalUnits,
		RequiredCash:    r.RequiredCash,
		Lines:           lines,
	}
}

// WithdrawalToDetail arma la respuesta de consulta de un retiro.
func WithdrawalToDetail(w *entity.Withdrawal) WithdrawalDetailResponse {
	return WithdrawalDetailResponse{
		ID:              w.ID,
		WithdrawBy:      w.WithdrawBy,
		DistributorCode: w.DistributorCode,
		TotalAmount:     w.TotalAmount,
		TotalUnits:      w.TotalUnits,
		RequiredCash:    w.RequiredCash,
		Products:        withdrawLinesToDTO(w.Lines),
		CreatedAt:       w.CreatedAt,
	}
}

func withdrawLinesToDTO(lines []entity.WithdrawalLine) []WithdrawProductDTO {
	out := make([]WithdrawProductDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, WithdrawProductDTO{
			ProductCode:     l.ProductCode,
			ExpiryDate:      optional(l.ExpiryDate),
			DistributorCode: optional(l.OwnerCode),
			Qty:             l.Qty,
			Total:           l.Total,
			RequiredCash:    l.RequiredCash,
			PricingDTO:      PricingToDTO(l.Pricing),
		})
	}
	return out
}
