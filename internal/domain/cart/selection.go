package cart

import (
	"sort"

	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// BuildSelections convierte las cantidades elegidas por opción (índice de la opción → cantidad)
// en selecciones listas para el merge, en el orden de las opciones.
//
// Bloquea (ValidationError) índices inexistentes, cantidades negativas, cantidades mayores al
// remanente de un lote propio y el caso en que todas las cantidades son cero.
func BuildSelections(options []entity.AllocationOption, quantities map[int]int) ([]entity.Selection, error) {
	indexes := make([]int, 0, len(quantities))
	for i := range quantities {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	selections := make([]entity.Selection, 0, len(indexes))
	for _, i := range indexes {
		qty := quantities[i]
		if i < 0 || i >= len(options) {
			return nil, domain.NewValidationError("opción %d inexistente", i)
		}
		if qty < 0 {
			return nil, domain.NewValidationError("cantidad negativa para %s", options[i].Key())
		}
		if remaining, bounded := options[i].Remaining(); bounded && qty > remaining {
			return nil, domain.NewValidationError("la cantidad %d supera lo disponible (%d) para %s", qty, remaining, options[i].Key())
		}
		if qty == 0 {
			continue
		}
		selections = append(selections, SelectionFor(options[i], qty))
	}
	if len(selections) == 0 {
		return nil, domain.NewValidationError("no hay cantidades seleccionadas")
	}
	return selections, nil
}

// SelectionFor arma la selección de qty unidades sobre una opción.
func SelectionFor(option entity.AllocationOption, qty int) entity.Selection {
	key := option.Key()
	return entity.Selection{
		ProductCode: key.ProductCode,
		OwnerCode:   key.OwnerCode,
		ExpiryDate:  key.ExpiryDate,
		Qty:         qty,
		Price:       option.Price(),
		Pricing:     option.Metadata(),
	}
}

// CheckRemaining verifica que cada selección sobre un lote propio siga cabiendo en el remanente
// actual (opciones recién resueltas). El pedido directo no tiene tope.
func CheckRemaining(selections []entity.Selection, options []entity.AllocationOption) error {
	remaining := make(map[entity.AllocationKey]int, len(options))
	for _, o := range options {
		if qty, bounded := o.Remaining(); bounded {
			remaining[o.Key()] = qty
		}
	}
	for _, s := range selections {
		if s.Key().IsDirectOrder() {
			continue
		}
		if s.Qty > remaining[s.Key()] {
			return domain.NewValidationError("la cantidad %d supera lo disponible (%d) para %s", s.Qty, remaining[s.Key()], s.Key())
		}
	}
	return nil
}
