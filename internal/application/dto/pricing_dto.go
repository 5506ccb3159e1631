package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// PricingDTO precios informativos del catálogo; se omiten cuando no vienen.
type PricingDTO struct {
	OfferCataloguePrice           *decimal.Decimal `json:"offerCataloguePrice,omitempty"`
	PriceAfterExpiry              *decimal.Decimal `json:"priceAfterExpiry,omitempty"`
	PriceAfterDistributorDiscount *decimal.Decimal `json:"priceAfterDistributorDiscount,omitempty"`
}

// PricingToDTO copia los metadatos de precio.
func PricingToDTO(p entity.PricingMetadata) PricingDTO {
	return PricingDTO{
		OfferCataloguePrice:           p.OfferCataloguePrice,
		PriceAfterExpiry:              p.PriceAfterExpiry,
		PriceAfterDistributorDiscount: p.PriceAfterDistributorDiscount,
	}
}

// ToEntity devuelve los metadatos de dominio.
func (p PricingDTO) ToEntity() entity.PricingMetadata {
	return entity.PricingMetadata{
		OfferCataloguePrice:           p.OfferCataloguePrice,
		PriceAfterExpiry:              p.PriceAfterExpiry,
		PriceAfterDistributorDiscount: p.PriceAfterDistributorDiscount,
	}
}
