package cart

import "github.com/jhoicas/retiros-api/internal/domain/entity"

// Quota cantidades ya comprometidas en el carrito por clave de asignación (WithdrawalQuota).
// Se deriva siempre de las líneas; no tiene estado propio que limpiar.
type Quota map[entity.AllocationKey]int

// QuotaFromLines suma la cantidad de todas las líneas que comparten clave.
func QuotaFromLines(lines []entity.CartLine) Quota {
	q := make(Quota, len(lines))
	for _, l := range lines {
		q[l.Key()] += l.Qty
	}
	return q
}

// Allocated devuelve lo comprometido para la clave (0 si no hay líneas).
func (q Quota) Allocated(key entity.AllocationKey) int {
	return q[key]
}
