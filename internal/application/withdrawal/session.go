// Package withdrawal orquesta la pantalla de retiro del cliente: sesión (carga, elección de
// productos, confirmación de cantidades, distribuidor, efectivo disponible) y confirmación del
// retiro.
package withdrawal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/retiros-api/internal/application/cartsync"
	"github.com/jhoicas/retiros-api/internal/application/ports"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/cart"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// Pick resultado de elegir un producto: las opciones asignables y los datos con que se calcularon.
type Pick struct {
	ProductCode string
	Options     []entity.AllocationOption
	Batches     []entity.Batch
	DirectPrice decimal.Decimal
}

// SessionConfig identifica al usuario de la sesión.
type SessionConfig struct {
	OwnerCode  string // distribuidor dueño del carrito
	WithdrawBy int
}

// Session sesión de retiro de un distribuidor.
type Session struct {
	gw        ports.Gateway
	engine    *cartsync.Engine
	submitter *Submitter
	log       zerolog.Logger
	now       func() time.Time

	mu           sync.Mutex
	products     []entity.WithdrawableProduct
	distributors []entity.Distributor
	cash         decimal.Decimal
}

// NewSession construye la sesión sobre el gateway remoto.
func NewSession(gw ports.Gateway, cfg SessionConfig, log zerolog.Logger) *Session {
	engine := cartsync.New(gw, cfg.OwnerCode, log)
	return &Session{
		gw:        gw,
		engine:    engine,
		submitter: NewSubmitter(engine, gw, gw, cfg.WithdrawBy, log),
		log:       log.With().Str("component", "session").Logger(),
		now:       time.Now,
		cash:      decimal.Zero,
	}
}

// Start carga en paralelo el carrito, los productos retirables y los distribuidores; luego el
// efectivo disponible si el carrito ya tenía distribuidor.
func (s *Session) Start(ctx context.Context) error {
	var (
		products     []entity.WithdrawableProduct
		distributors []entity.Distributor
	)
	reqCtx, cancel := s.engine.RequestContext(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(reqCtx)
	g.Go(func() error { return s.engine.Load(gctx) })
	g.Go(func() error {
		var err error
		products, err = s.gw.ListWithdrawableProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		distributors, err = s.gw.ListDistributors(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("iniciar sesión: %w", err)
	}
	if s.engine.Closed() {
		return domain.ErrSessionClosed
	}

	s.mu.Lock()
	s.products = products
	s.distributors = distributors
	s.mu.Unlock()

	if _, err := s.RefreshCash(ctx); err != nil {
		return fmt.Errorf("iniciar sesión: %w", err)
	}
	return nil
}

// Products productos retirables cargados en Start.
func (s *Session) Products() []entity.WithdrawableProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.WithdrawableProduct(nil), s.products...)
}

// Distributors distribuidores cargados en Start.
func (s *Session) Distributors() []entity.Distributor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Distributor(nil), s.distributors...)
}

// State estado actual del carrito.
func (s *Session) State() entity.CartState { return s.engine.State() }

// Loading hay una sincronización en curso.
func (s *Session) Loading() bool { return s.engine.Loading() }

// AvailableCash último efectivo disponible consultado.
func (s *Session) AvailableCash() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cash
}

// PickProduct trae en paralelo los lotes del producto y el precio de pedido directo a hoy y
// resuelve las opciones contra el carrito actual.
func (s *Session) PickProduct(ctx context.Context, productCode string) (Pick, error) {
	if err := s.ready(); err != nil {
		return Pick{}, err
	}
	var (
		batches []entity.Batch
		price   decimal.Decimal
	)
	reqCtx, cancel := s.engine.RequestContext(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(reqCtx)
	g.Go(func() error {
		var err error
		batches, err = s.gw.ListBatchesForProduct(gctx, productCode)
		return err
	})
	g.Go(func() error {
		var err error
		price, err = s.gw.GetDirectOrderPrice(gctx, productCode, s.now())
		return err
	})
	if err := g.Wait(); err != nil {
		return Pick{}, fmt.Errorf("elegir producto %s: %w", productCode, err)
	}
	if s.engine.Closed() {
		return Pick{}, domain.ErrSessionClosed
	}

	return Pick{
		ProductCode: productCode,
		Options:     cart.Resolve(productCode, batches, s.engine.State().Lines, price),
		Batches:     batches,
		DirectPrice: price,
	}, nil
}

// Confirm valida las cantidades elegidas (índice de opción → cantidad), las vuelve a contrastar
// con el carrito actual y las incorpora.
func (s *Session) Confirm(ctx context.Context, pick Pick, quantities map[int]int) (cartsync.Outcome, error) {
	selections, err := cart.BuildSelections(pick.Options, quantities)
	if err != nil {
		return cartsync.SyncSkipped, err
	}
	fresh := cart.Resolve(pick.ProductCode, pick.Batches, s.engine.State().Lines, pick.DirectPrice)
	if err := cart.CheckRemaining(selections, fresh); err != nil {
		return cartsync.SyncSkipped, err
	}
	return s.engine.ApplyMerge(ctx, selections)
}

// DeleteLine elimina una línea del carrito.
func (s *Session) DeleteLine(ctx context.Context, index int) (cartsync.Outcome, error) {
	return s.engine.DeleteLine(ctx, index)
}

// SelectDistributor cambia el distribuidor que retira y refresca su efectivo disponible.
func (s *Session) SelectDistributor(ctx context.Context, code string) (cartsync.Outcome, error) {
	if code != "" && !s.knownDistributor(code) {
		return cartsync.SyncSkipped, domain.NewValidationError("distribuidor %s desconocido", code)
	}
	outcome, err := s.engine.SetDistributor(ctx, code)
	if err != nil {
		return outcome, err
	}
	if _, err := s.RefreshCash(ctx); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// RefreshCash consulta el saldo del distribuidor seleccionado (cero si no hay). Tras Close no
// consulta ni actualiza nada.
func (s *Session) RefreshCash(ctx context.Context) (decimal.Decimal, error) {
	if s.engine.Closed() {
		return decimal.Zero, domain.ErrSessionClosed
	}
	code := s.engine.State().DistributorCode
	cash := decimal.Zero
	if code != "" {
		reqCtx, cancel := s.engine.RequestContext(ctx)
		defer cancel()
		var err error
		cash, err = s.gw.GetAccountBalance(reqCtx, code)
		if s.engine.Closed() {
			return decimal.Zero, domain.ErrSessionClosed
		}
		if err != nil {
			return decimal.Zero, err
		}
	}
	s.mu.Lock()
	s.cash = cash
	s.mu.Unlock()
	return cash, nil
}

// Withdraw confirma el retiro: vacía la cola de sincronización, refresca el efectivo y envía.
func (s *Session) Withdraw(ctx context.Context) (entity.WithdrawalReceipt, error) {
	if _, err := s.engine.Sync(ctx); err != nil {
		return entity.WithdrawalReceipt{}, err
	}
	cash, err := s.RefreshCash(ctx)
	if err != nil {
		return entity.WithdrawalReceipt{}, err
	}
	return s.submitter.Submit(ctx, cash)
}

// RetryClear reintenta la limpieza del carrito tras un retiro parcialmente confirmado.
func (s *Session) RetryClear(ctx context.Context) error {
	return s.submitter.RetryClear(ctx)
}

// Close cancela las peticiones en curso (sincronizaciones, retiro, saldo y catálogos); ninguna
// respuesta posterior modifica la sesión.
func (s *Session) Close() { s.engine.Close() }

func (s *Session) ready() error {
	if !s.engine.Loaded() {
		return domain.ErrNotLoaded
	}
	return nil
}

func (s *Session) knownDistributor(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.distributors {
		if d.Code == code {
			return true
		}
	}
	return false
}
