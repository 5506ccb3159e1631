package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/application/ports"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

// CatalogueUseCase precio de pedido directo vigente a una fecha, con caché delante del repositorio.
type CatalogueUseCase struct {
	repo  repository.CatalogueRepository
	cache ports.PriceCache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCatalogueUseCase construye el caso de uso. cache no puede ser nil (usar el noop).
func NewCatalogueUseCase(repo repository.CatalogueRepository, cache ports.PriceCache, ttl time.Duration, log zerolog.Logger) *CatalogueUseCase {
	return &CatalogueUseCase{repo: repo, cache: cache, ttl: ttl, log: log.With().Str("component", "catalogue").Logger()}
}

// PriceKey clave de caché del precio de un producto a una fecha.
func PriceKey(productCode, date string) string {
	return fmt.Sprintf("catalogue:price:%s:%s", productCode, date)
}

// PriceAt devuelve el precio del producto vigente en date (YYYY-MM-DD). Los errores de la caché
// se registran y no cortan la consulta.
func (uc *CatalogueUseCase) PriceAt(ctx context.Context, productCode, date string) (*dto.CataloguePriceResponse, error) {
	if productCode == "" {
		return nil, domain.NewValidationError("productCode es obligatorio")
	}
	asOf, err := time.Parse(entity.ExpiryLayout, date)
	if err != nil {
		return nil, domain.NewValidationError("fecha inválida %q (YYYY-MM-DD)", date)
	}

	key := PriceKey(productCode, date)
	price, found, err := uc.cache.GetPrice(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("caché de precios no disponible")
	}
	if !found {
		price, err = uc.repo.PriceAt(ctx, productCode, asOf)
		if err != nil {
			return nil, err
		}
		if err := uc.cache.SetPrice(ctx, key, price, uc.ttl); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el precio en caché")
		}
	}
	return &dto.CataloguePriceResponse{ProductCode: productCode, Date: date, Price: price}, nil
}
