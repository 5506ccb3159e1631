package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// WithdrawableProductDTO elemento de GET /api/inventory/withdrawableProducts.
type WithdrawableProductDTO struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	InStock bool   `json:"inStock"`
}

// BatchDTO lote agrupado de GET /api/inventory/grouped/:productCode. distributorCode es el dueño.
type BatchDTO struct {
	ProductCode     string          `json:"productCode"`
	DistributorCode string          `json:"distributorCode"`
	ExpiryDate      string          `json:"expiryDate"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalQty        int             `json:"totalQty"`
	PricingDTO
}

// DistributorDTO elemento de GET /api/distributors.
type DistributorDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// AccountBalanceResponse respuesta de GET /api/accounts/:distributorCode.
type AccountBalanceResponse struct {
	DistributorCode string          `json:"distributorCode"`
	Balance         decimal.Decimal `json:"balance"`
}

// CataloguePriceResponse respuesta de GET /api/catalogues/price-by-product/:date/:productCode.
type CataloguePriceResponse struct {
	ProductCode string          `json:"productCode"`
	Date        string          `json:"date"`
	Price       decimal.Decimal `json:"price"`
}

// ProductsToDTO mapea productos retirables.
func ProductsToDTO(products []entity.WithdrawableProduct) []WithdrawableProductDTO {
	out := make([]WithdrawableProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, WithdrawableProductDTO{Code: p.Code, Name: p.Name, InStock: p.InStock})
	}
	return out
}

// ToEntity producto de dominio.
func (p WithdrawableProductDTO) ToEntity() entity.WithdrawableProduct {
	return entity.WithdrawableProduct{Code: p.Code, Name: p.Name, InStock: p.InStock}
}

// BatchesToDTO mapea lotes.
func BatchesToDTO(batches []entity.Batch) []BatchDTO {
	out := make([]BatchDTO, 0, len(batches))
	for _, b := range batches {
		out = append(out, BatchDTO{
			ProductCode:     b.ProductCode,
			DistributorCode: b.OwnerCode,
			ExpiryDate:      b.ExpiryDate,
			UnitPrice:       b.UnitPrice,
			TotalQty:        b.AvailableQty,
			PricingDTO:      PricingToDTO(b.Pricing),
		})
	}
	return out
}

// ToEntity lote de dominio.
func (b BatchDTO) ToEntity() entity.Batch {
	return entity.Batch{
		ProductCode:  b.ProductCode,
		OwnerCode:    b.DistributorCode,
		ExpiryDate:   b.ExpiryDate,
		UnitPrice:    b.UnitPrice,
		AvailableQty: b.TotalQty,
		Pricing:      b.PricingDTO.ToEntity(),
	}
}

// DistributorsToDTO mapea distribuidores.
func DistributorsToDTO(ds []entity.Distributor) []DistributorDTO {
	out := make([]DistributorDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, DistributorDTO{Code: d.Code, Name: d.Name})
	}
	return out
}
