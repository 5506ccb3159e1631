package cart

import "github.com/jhoicas/retiros-api/internal/domain/entity"

// Merge incorpora selecciones confirmadas a las líneas del carrito sin mutar la entrada.
//
// Si ya existe una línea con la misma clave se acumula (qty = existente + seleccionada) y se
// recalcula el total con el precio de la línea existente; si no, se agrega al final.
// Varias selecciones con la misma clave se aplican todas, en orden. Las selecciones con
// cantidad <= 0 se ignoran. Líneas de entrada duplicadas colapsan sobre la primera aparición.
func Merge(lines []entity.CartLine, selections []entity.Selection) []entity.CartLine {
	out := make([]entity.CartLine, 0, len(lines)+len(selections))
	index := make(map[entity.AllocationKey]int, len(lines)+len(selections))

	accumulate := func(key entity.AllocationKey, line entity.CartLine) {
		if i, ok := index[key]; ok {
			existing := out[i]
			existing.Qty += line.Qty
			existing.Total = LineTotal(existing.Qty, existing.Price)
			out[i] = existing
			return
		}
		line.Total = LineTotal(line.Qty, line.Price)
		index[key] = len(out)
		out = append(out, line)
	}

	for _, l := range lines {
		accumulate(l.Key(), l)
	}
	for _, s := range selections {
		if s.Qty <= 0 {
			continue
		}
		accumulate(s.Key(), entity.CartLine{
			ProductCode: s.ProductCode,
			OwnerCode:   s.OwnerCode,
			ExpiryDate:  s.ExpiryDate,
			Qty:         s.Qty,
			Price:       s.Price,
			Pricing:     s.Pricing,
		})
	}
	return out
}
