package repository

import (
	"context"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// CartRepository define el puerto del carrito persistido: un único registro por distribuidor dueño.
type CartRepository interface {
	// Get devuelve el carrito del distribuidor; si no existe devuelve un registro vacío (sin error).
	Get(ctx context.Context, ownerCode string) (*entity.CartRecord, error)
	// Save reemplaza el registro completo (upsert por ownerCode).
	Save(ctx context.Context, record *entity.CartRecord) error
	// Delete elimina el registro; borrar un carrito inexistente no es error.
	Delete(ctx context.Context, ownerCode string) error
}
