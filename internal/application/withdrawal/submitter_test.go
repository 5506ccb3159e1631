package withdrawal_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retiros-api/internal/application/cartsync"
	"github.com/jhoicas/retiros-api/internal/application/withdrawal"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/cart"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// setup arma motor + submitter con un carrito inicial ya cargado.
func setup(t *testing.T, distributor string, lines ...entity.CartLine) (*fakeGateway, *cartsync.Engine, *withdrawal.Submitter) {
	t.Helper()
	gw := newFakeGateway()
	gw.record = cart.Recalculate(entity.CartState{Lines: lines, DistributorCode: distributor})

	engine := cartsync.New(gw, "D9", zerolog.Nop())
	t.Cleanup(engine.Close)
	require.NoError(t, engine.Load(context.Background()))
	return gw, engine, withdrawal.NewSubmitter(engine, gw, gw, 7, zerolog.Nop())
}

func ownLine(qty int) entity.CartLine {
	return entity.CartLine{ProductCode: "P1", OwnerCode: "D2", ExpiryDate: "2025-01-01", Qty: qty, Price: dec("10")}
}

// ──────────────────────────────────────────────────────────────────────────────
// Precondiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_SinDistribuidorRechazaSinCambios(t *testing.T) {
	gw, engine, sub := setup(t, "", ownLine(2))
	before := engine.State()

	_, err := sub.Submit(context.Background(), dec("1000"))

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "no hay distribuidor seleccionado")
	assert.Equal(t, before, engine.State())
	assert.Empty(t, gw.submitted)
}

func TestSubmit_DistribuidorSeValidaAntesQueFondos(t *testing.T) {
	_, _, sub := setup(t, "", ownLine(2))

	_, err := sub.Submit(context.Background(), decimal.Zero)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestSubmit_FondosInsuficientes(t *testing.T) {
	gw, engine, sub := setup(t, "D1", ownLine(2))
	before := engine.State()

	_, err := sub.Submit(context.Background(), dec("19.99"))

	var funds *domain.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.True(t, dec("20").Equal(funds.Required))
	assert.True(t, dec("19.99").Equal(funds.Available))
	assert.Equal(t, before, engine.State())
	assert.Empty(t, gw.submitted)
}

func TestSubmit_CarritoVacio(t *testing.T) {
	_, _, sub := setup(t, "D1")

	_, err := sub.Submit(context.Background(), dec("10"))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación en dos pasos
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_FallaRegistroConservaCarrito(t *testing.T) {
	gw, engine, sub := setup(t, "D1", ownLine(2))
	gw.submitErr = netErr("submitWithdrawal")

	_, err := sub.Submit(context.Background(), dec("100"))

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.NotErrorIs(t, err, domain.ErrPartialCommit)
	assert.Len(t, engine.State().Lines, 1)
	assert.Equal(t, 0, gw.clears)
}

func TestSubmit_FallaLimpiezaEsCommitParcial(t *testing.T) {
	gw, engine, sub := setup(t, "D1", ownLine(2))
	gw.clearErrs = 1

	receipt, err := sub.Submit(context.Background(), dec("100"))

	var partial *domain.PartialCommitError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "w-1", partial.WithdrawalID)
	assert.Equal(t, "w-1", receipt.ID)
	assert.Len(t, engine.State().Lines, 1, "el carrito queda sin resolver, no se reinicia")
	assert.Equal(t, "D1", engine.State().DistributorCode)

	pending, ok := sub.Pending()
	require.True(t, ok)
	assert.Equal(t, "w-1", pending.ID)

	// Reenviar podría duplicar el retiro: se bloquea.
	_, err = sub.Submit(context.Background(), dec("100"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, gw.submitted, 1)

	require.NoError(t, sub.RetryClear(context.Background()))
	assert.True(t, engine.State().IsEmpty())
	_, ok = sub.Pending()
	assert.False(t, ok)
}

func TestSubmit_ExitoReiniciaCarrito(t *testing.T) {
	direct := entity.CartLine{ProductCode: "P2", Qty: 1, Price: dec("30")}
	gw, engine, sub := setup(t, "D1", ownLine(2), direct)

	receipt, err := sub.Submit(context.Background(), dec("50"))

	require.NoError(t, err)
	assert.Equal(t, "Retiro w-1 registrado", receipt.Message)
	state := engine.State()
	assert.True(t, state.IsEmpty())
	assert.Empty(t, state.DistributorCode)
	assert.True(t, state.TotalAmount.IsZero())
	assert.Equal(t, 1, gw.clears)

	require.Len(t, gw.submitted, 1)
	w := gw.submitted[0]
	assert.Equal(t, 7, w.WithdrawBy)
	assert.Equal(t, "D1", w.DistributorCode)
	assert.Equal(t, 3, w.TotalUnits)
	assert.True(t, dec("50").Equal(w.RequiredCash))
	require.Len(t, w.Lines, 2)
	assert.Equal(t, "D2", w.Lines[0].OwnerCode)
	assert.True(t, w.Lines[1].IsDirectOrder())
}

func TestRetryClear_SinPendientes(t *testing.T) {
	_, _, sub := setup(t, "D1", ownLine(1))

	assert.ErrorIs(t, sub.RetryClear(context.Background()), domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia con el ciclo de vida del carrito
// ──────────────────────────────────────────────────────────────────────────────

// heldSetup arma motor + submitter sobre un gateway que retiene el registro del retiro.
func heldSetup(t *testing.T, distributor string, lines ...entity.CartLine) (*holdingGateway, *cartsync.Engine, *withdrawal.Submitter) {
	t.Helper()
	gw := newFakeGateway()
	gw.record = cart.Recalculate(entity.CartState{Lines: lines, DistributorCode: distributor})
	held := newHoldingGateway(gw)

	engine := cartsync.New(held, "D9", zerolog.Nop())
	t.Cleanup(engine.Close)
	require.NoError(t, engine.Load(context.Background()))
	return held, engine, withdrawal.NewSubmitter(engine, held, held, 7, zerolog.Nop())
}

func waitClosed(t *testing.T, ch chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s nunca ocurrió", what)
	}
}

func TestSubmit_CerrarSesionCancelaRetiroYNoTocaEstado(t *testing.T) {
	held, engine, sub := heldSetup(t, "D1", ownLine(2))
	before := engine.State()

	result := make(chan error, 1)
	go func() {
		_, err := sub.Submit(context.Background(), dec("100"))
		result <- err
	}()
	waitClosed(t, held.started, "el envío del retiro")

	engine.Close()
	waitClosed(t, held.cancelled, "la cancelación de la petición")
	close(held.release)

	assert.ErrorIs(t, <-result, domain.ErrSessionClosed)
	assert.Equal(t, before, engine.State())
	assert.Equal(t, 0, held.clears)
	_, pending := sub.Pending()
	assert.False(t, pending)
}

func TestSubmit_CambioDuranteElEnvioNoSeDescarta(t *testing.T) {
	held, engine, sub := heldSetup(t, "D1", ownLine(2))

	type result struct {
		receipt entity.WithdrawalReceipt
		err     error
	}
	done := make(chan result, 1)
	go func() {
		receipt, err := sub.Submit(context.Background(), dec("100"))
		done <- result{receipt, err}
	}()
	waitClosed(t, held.started, "el envío del retiro")

	_, err := engine.SetDistributor(context.Background(), "D2")
	require.NoError(t, err)
	close(held.release)

	res := <-done
	var partial *domain.PartialCommitError
	require.ErrorAs(t, res.err, &partial)
	assert.ErrorIs(t, res.err, domain.ErrCartChanged)
	assert.Equal(t, "w-1", res.receipt.ID)

	state := engine.State()
	assert.Equal(t, "D2", state.DistributorCode, "el cambio concurrente se conserva")
	assert.Len(t, state.Lines, 1)
	pending, ok := sub.Pending()
	require.True(t, ok)
	assert.Equal(t, "w-1", pending.ID)

	require.NoError(t, sub.RetryClear(context.Background()))
	assert.True(t, engine.State().IsEmpty())
}

func TestSubmit_SesionCerradaNoEnvia(t *testing.T) {
	gw, engine, sub := setup(t, "D1", ownLine(1))
	engine.Close()

	_, err := sub.Submit(context.Background(), dec("100"))

	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.Empty(t, gw.submitted)
}

func TestRetryClear_TrasCerrarNoReiniciaCarrito(t *testing.T) {
	gw, engine, sub := setup(t, "D1", ownLine(2))
	gw.clearErrs = 1
	_, err := sub.Submit(context.Background(), dec("100"))
	require.ErrorIs(t, err, domain.ErrPartialCommit)
	before := engine.State()

	engine.Close()

	assert.ErrorIs(t, sub.RetryClear(context.Background()), domain.ErrSessionClosed)
	assert.Equal(t, before, engine.State())
}
