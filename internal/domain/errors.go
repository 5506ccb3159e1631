package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Categorías de la taxonomía de retiros; los errores tipados de abajo hacen match con errors.Is.
	ErrValidation        = errors.New("validación")
	ErrInsufficientFunds = errors.New("fondos insuficientes")
	ErrNetwork           = errors.New("error de red")
	ErrPartialCommit     = errors.New("retiro registrado sin limpiar el carrito")

	ErrSessionClosed = errors.New("sesión cerrada")
	ErrNotLoaded     = errors.New("carrito no cargado")
	ErrCartChanged   = errors.New("el carrito cambió mientras se confirmaba el retiro")
)

// ValidationError precondición incumplida antes de tocar la red (distribuidor, cantidades, índices).
type ValidationError struct {
	Message string
}

// NewValidationError construye un ValidationError con formato.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InsufficientFundsError el efectivo requerido supera el disponible del distribuidor.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("fondos insuficientes: requerido %s, disponible %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

// NetworkError falla de transporte o respuesta no exitosa del servidor en una operación remota.
// Status es 0 cuando la petición no obtuvo respuesta HTTP.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// PartialCommitError el retiro quedó registrado en el servidor pero la limpieza del carrito falló.
// El carrito local NO se reinicia: reenviar podría duplicar el retiro.
type PartialCommitError struct {
	WithdrawalID string
	Message      string
	Err          error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("retiro %s registrado pero el carrito no se limpió: %v", e.WithdrawalID, e.Err)
}

func (e *PartialCommitError) Unwrap() error { return e.Err }

func (e *PartialCommitError) Is(target error) bool { return target == ErrPartialCommit }
