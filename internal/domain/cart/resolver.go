// Package cart contiene la lógica pura del carrito de retiros: resolución de lotes asignables,
// merge de selecciones, totales y el reducer de comandos. No hace I/O ni guarda estado.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// Resolve devuelve las opciones asignables de un producto: los lotes propios con remanente
// positivo (en el orden recibido) y, siempre al final, exactamente un pedido directo.
//
// remanente = AvailableQty − Σ Qty de las líneas del carrito con la misma clave.
// Lotes de otro producto o sin dueño/vencimiento se ignoran: un lote real nunca puede
// confundirse con el pedido directo.
func Resolve(productCode string, batches []entity.Batch, lines []entity.CartLine, directPrice decimal.Decimal) []entity.AllocationOption {
	quota := QuotaFromLines(lines)

	options := make([]entity.AllocationOption, 0, len(batches)+1)
	for _, b := range batches {
		if b.ProductCode != productCode || b.Key().IsDirectOrder() {
			continue
		}
		remaining := b.AvailableQty - quota.Allocated(b.Key())
		if remaining <= 0 {
			continue
		}
		options = append(options, entity.OwnedBatch{Batch: b, RemainingQty: remaining})
	}

	return append(options, entity.DirectOrderBatch{ProductCode: productCode, UnitPrice: directPrice})
}
