package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// CartItemDTO línea del carrito. ownerCode y expiryDate son null en el pedido directo.
type CartItemDTO struct {
	ProductCode string          `json:"productCode"`
	OwnerCode   *string         `json:"ownerCode"`
	ExpiryDate  *string         `json:"expiryDate"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	PricingDTO
}

// UpsertCartRequest body para POST /api/cart/add.
type UpsertCartRequest struct {
	Items               []CartItemDTO `json:"items"`
	SelectedDistributor *string       `json:"selectedDistributor"`
}

// CartResponse carrito canónico devuelto por GET /api/cart/get y POST /api/cart/add.
type CartResponse struct {
	Items               []CartItemDTO   `json:"items"`
	TotalUnits          int             `json:"totalUnits"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	RequiredCash        decimal.Decimal `json:"requiredCash"`
	SelectedDistributor *string         `json:"selectedDistributor"`
}

// CartItemsToDTO mapea líneas a DTO; nunca devuelve nil para que items serialice como [].
func CartItemsToDTO(lines []entity.CartLine) []CartItemDTO {
	out := make([]CartItemDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, CartItemDTO{
			ProductCode: l.ProductCode,
			OwnerCode:   optional(l.OwnerCode),
			ExpiryDate:  optional(l.ExpiryDate),
			Qty:         l.Qty,
			Price:       l.Price,
			Total:       l.Total,
			PricingDTO:  PricingToDTO(l.Pricing),
		})
	}
	return out
}

// CartItemsFromDTO mapea los items recibidos a líneas de dominio (totales tal como llegan).
func CartItemsFromDTO(items []CartItemDTO) []entity.CartLine {
	out := make([]entity.CartLine, 0, len(items))
	for _, it := range items {
		out = append(out, entity.CartLine{
			ProductCode: it.ProductCode,
			OwnerCode:   deref(it.OwnerCode),
			ExpiryDate:  deref(it.ExpiryDate),
			Qty:         it.Qty,
			Price:       it.Price,
			Total:       it.Total,
			Pricing:     it.PricingDTO.ToEntity(),
		})
	}
	return out
}

// NewUpsertCartRequest arma el payload de sincronización { items, selectedDistributor }.
func NewUpsertCartRequest(lines []entity.CartLine, distributorCode string) UpsertCartRequest {
	return UpsertCartRequest{Items: CartItemsToDTO(lines), SelectedDistributor: optional(distributorCode)}
}

// CartResponseFromState arma la respuesta a partir del estado calculado.
func CartResponseFromState(s entity.CartState) CartResponse {
	return CartResponse{
		Items:               CartItemsToDTO(s.Lines),
		TotalUnits:          s.TotalUnits,
		TotalAmount:         s.TotalAmount,
		RequiredCash:        s.RequiredCash,
		SelectedDistributor: optional(s.DistributorCode),
	}
}

// ToState convierte la respuesta del servidor en estado de dominio.
func (r CartResponse) ToState() entity.CartState {
	return entity.CartState{
		Lines:           CartItemsFromDTO(r.Items),
		TotalUnits:      r.TotalUnits,
		TotalAmount:     r.TotalAmount,
		RequiredCash:    r.RequiredCash,
		DistributorCode: deref(r.SelectedDistributor),
	}
}

// Distributor devuelve el distribuidor seleccionado ("" si viene null).
func (r UpsertCartRequest) Distributor() string { return deref(r.SelectedDistributor) }
