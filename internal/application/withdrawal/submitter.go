package withdrawal

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/application/ports"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/cart"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// CartEngine lo que el submitter necesita del motor de carrito.
type CartEngine interface {
	OwnerCode() string
	Checkpoint() (entity.CartState, uint64)
	Loading() bool
	Closed() bool
	RequestContext(ctx context.Context) (context.Context, context.CancelFunc)
	Reset() error
	ResetAt(version uint64) error
}

// Submitter valida y confirma el retiro: registra el retiro y luego limpia el carrito remoto.
// Los dos pasos no son atómicos; si el segundo falla se informa PartialCommitError y el carrito
// queda sin resolver hasta RetryClear.
type Submitter struct {
	engine      CartEngine
	withdrawals ports.WithdrawalGateway
	carts       ports.CartStore
	withdrawBy  int
	log         zerolog.Logger

	mu      sync.Mutex
	pending *entity.WithdrawalReceipt // retiro registrado cuyo carrito no se pudo limpiar
}

// NewSubmitter construye el submitter. withdrawBy es el id numérico de quien registra.
func NewSubmitter(engine CartEngine, withdrawals ports.WithdrawalGateway, carts ports.CartStore, withdrawBy int, log zerolog.Logger) *Submitter {
	return &Submitter{
		engine:      engine,
		withdrawals: withdrawals,
		carts:       carts,
		withdrawBy:  withdrawBy,
		log:         log.With().Str("component", "submitter").Logger(),
	}
}

// Validate aplica las precondiciones en orden; gana el primer fallo.
func (s *Submitter) Validate(state entity.CartState, availableCash decimal.Decimal) error {
	if state.DistributorCode == "" {
		return domain.NewValidationError("no hay distribuidor seleccionado")
	}
	if state.RequiredCash.GreaterThan(availableCash) {
		return &domain.InsufficientFundsError{Required: state.RequiredCash, Available: availableCash}
	}
	if state.IsEmpty() {
		return domain.NewValidationError("el carrito está vacío")
	}
	if s.engine.Loading() {
		return domain.NewValidationError("sincronización en curso: los totales todavía no son definitivos")
	}
	return nil
}

// Submit registra el retiro con el estado actual del carrito y limpia el carrito.
//
//   - precondición incumplida: ValidationError / InsufficientFundsError, sin cambios.
//   - falla el registro: se devuelve el error y el carrito se conserva.
//   - falla la limpieza: PartialCommitError con el id del retiro; el carrito NO se reinicia.
//   - el carrito cambió durante el envío: PartialCommitError que envuelve ErrCartChanged; el
//     estado local con los cambios se conserva hasta RetryClear.
//   - la sesión se cerró durante el envío: ErrSessionClosed, sin tocar el estado.
//   - éxito: el carrito local queda vacío y sin distribuidor.
func (s *Submitter) Submit(ctx context.Context, availableCash decimal.Decimal) (entity.WithdrawalReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.Closed() {
		return entity.WithdrawalReceipt{}, domain.ErrSessionClosed
	}
	if s.pending != nil {
		return entity.WithdrawalReceipt{}, domain.NewValidationError(
			"el retiro %s ya fue registrado: reintente la limpieza del carrito", s.pending.ID)
	}

	state, version := s.engine.Checkpoint()
	if err := s.Validate(state, availableCash); err != nil {
		return entity.WithdrawalReceipt{}, err
	}

	reqCtx, cancel := s.engine.RequestContext(ctx)
	defer cancel()

	receipt, err := s.withdrawals.SubmitWithdrawal(reqCtx, cart.BuildWithdrawal(state, s.withdrawBy))
	if s.engine.Closed() {
		s.log.Warn().Err(err).Str("withdrawal_id", receipt.ID).Msg("sesión cerrada durante el retiro")
		return receipt, domain.ErrSessionClosed
	}
	if err != nil {
		s.log.Warn().Err(err).Str("distributor", state.DistributorCode).Msg("retiro rechazado")
		return entity.WithdrawalReceipt{}, err
	}
	s.log.Info().Str("withdrawal_id", receipt.ID).Str("amount", state.TotalAmount.StringFixed(2)).Msg("retiro registrado")

	err = s.carts.ClearCart(reqCtx, s.engine.OwnerCode())
	if s.engine.Closed() {
		s.log.Warn().Err(err).Str("withdrawal_id", receipt.ID).Msg("sesión cerrada durante la limpieza del carrito")
		return receipt, domain.ErrSessionClosed
	}
	if err != nil {
		return receipt, s.partial(receipt, err, "retiro registrado pero el carrito no se limpió")
	}

	switch err := s.engine.ResetAt(version); {
	case errors.Is(err, domain.ErrCartChanged):
		return receipt, s.partial(receipt, err, "el carrito cambió durante el retiro")
	case err != nil:
		return receipt, err
	}
	return receipt, nil
}

// partial deja el retiro pendiente de limpieza y arma el PartialCommitError.
func (s *Submitter) partial(receipt entity.WithdrawalReceipt, cause error, msg string) error {
	s.pending = &receipt
	s.log.Error().Err(cause).Str("withdrawal_id", receipt.ID).Msg(msg)
	return &domain.PartialCommitError{WithdrawalID: receipt.ID, Message: receipt.Message, Err: cause}
}

// Pending devuelve el retiro que quedó con el carrito sin limpiar, si lo hay.
func (s *Submitter) Pending() (entity.WithdrawalReceipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return entity.WithdrawalReceipt{}, false
	}
	return *s.pending, true
}

// RetryClear reintenta la limpieza tras un PartialCommitError; si tiene éxito reinicia el carrito.
func (s *Submitter) RetryClear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return domain.NewValidationError("no hay retiros pendientes de limpieza")
	}
	reqCtx, cancel := s.engine.RequestContext(ctx)
	defer cancel()
	err := s.carts.ClearCart(reqCtx, s.engine.OwnerCode())
	if s.engine.Closed() {
		return domain.ErrSessionClosed
	}
	if err != nil {
		return &domain.PartialCommitError{WithdrawalID: s.pending.ID, Message: s.pending.Message, Err: err}
	}
	if err := s.engine.Reset(); err != nil {
		return err
	}
	s.log.Info().Str("withdrawal_id", s.pending.ID).Msg("carrito limpiado tras reintento")
	s.pending = nil
	return nil
}
