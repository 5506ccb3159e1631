package remote

import (
	"fmt"

	"github.com/jhoicas/retiros-api/internal/domain"
)

// APIError rechazo del servidor con un código del contrato (4xx con cuerpo ErrorResponse).
// Hace match con la categoría de dominio correspondiente vía errors.Is.
type APIError struct {
	Op      string
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s: %s", e.Op, e.Status, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch e.Code {
	case "VALIDATION", "INVALID_BODY":
		return target == domain.ErrValidation
	case "INSUFFICIENT_FUNDS":
		return target == domain.ErrInsufficientFunds
	case "INSUFFICIENT_STOCK":
		return target == domain.ErrInsufficientStock
	case "NOT_FOUND":
		return target == domain.ErrNotFound
	}
	return false
}

// known indica si el código corresponde a un rechazo de negocio (no a una falla de transporte).
func known(code string) bool {
	switch code {
	case "VALIDATION", "INVALID_BODY", "INSUFFICIENT_FUNDS", "INSUFFICIENT_STOCK", "NOT_FOUND":
		return true
	}
	return false
}
