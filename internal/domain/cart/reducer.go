package cart

import (
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// Command mutación con nombre sobre el carrito.
type Command interface {
	Name() string
	apply(state entity.CartState) (entity.CartState, bool, error)
}

// MergeSelections agrega selecciones confirmadas (acumulando por clave).
type MergeSelections struct {
	Selections []entity.Selection
}

// DeleteLine elimina la línea en la posición Index.
type DeleteLine struct {
	Index int
}

// SetDistributor cambia el distribuidor que retira. Código vacío = sin selección.
type SetDistributor struct {
	Code string
}

func (MergeSelections) Name() string { return "merge" }
func (DeleteLine) Name() string      { return "delete" }
func (SetDistributor) Name() string  { return "setDistributor" }

func (c MergeSelections) apply(state entity.CartState) (entity.CartState, bool, error) {
	changed := false
	for _, s := range c.Selections {
		if s.Qty > 0 {
			changed = true
			break
		}
	}
	if !changed {
		return state, false, nil
	}
	state.Lines = Merge(state.Lines, c.Selections)
	return state, true, nil
}

func (c DeleteLine) apply(state entity.CartState) (entity.CartState, bool, error) {
	if c.Index < 0 || c.Index >= len(state.Lines) {
		return state, false, domain.NewValidationError("índice de línea %d fuera de rango (%d líneas)", c.Index, len(state.Lines))
	}
	lines := make([]entity.CartLine, 0, len(state.Lines)-1)
	lines = append(lines, state.Lines[:c.Index]...)
	lines = append(lines, state.Lines[c.Index+1:]...)
	state.Lines = lines
	return state, true, nil
}

func (c SetDistributor) apply(state entity.CartState) (entity.CartState, bool, error) {
	if state.DistributorCode == c.Code {
		return state, false, nil
	}
	state.DistributorCode = c.Code
	return state, true, nil
}

// Reduce aplica el comando y devuelve el estado nuevo con totales recalculados, más si
// hace falta sincronizar con el servidor. El estado recibido nunca se modifica; ante error
// o sin cambios se devuelve tal cual.
func Reduce(state entity.CartState, cmd Command) (entity.CartState, bool, error) {
	next, needsSync, err := cmd.apply(state.Clone())
	if err != nil || !needsSync {
		return state, false, err
	}
	return Recalculate(next), true, nil
}
