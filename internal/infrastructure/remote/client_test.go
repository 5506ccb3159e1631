package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retiros-api/internal/application/cartsync"
	"github.com/jhoicas/retiros-api/internal/application/withdrawal"
	"github.com/jhoicas/retiros-api/internal/bootstrap"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/infrastructure/cache"
	"github.com/jhoicas/retiros-api/internal/infrastructure/memory"
	"github.com/jhoicas/retiros-api/internal/infrastructure/remote"
	httpRouter "github.com/jhoicas/retiros-api/internal/interfaces/http"
)

type env struct {
	store  *memory.Store
	client *remote.Client
}

func newEnv(t *testing.T) env {
	t.Helper()
	store := memory.NewSeeded()
	deps := bootstrap.RouterDeps(bootstrap.Memory(store), cache.NoopPriceCache{}, time.Minute, zerolog.Nop())
	srv := httptest.NewServer(adaptor.FiberApp(httpRouter.NewApp("retiros-e2e", deps)))
	t.Cleanup(srv.Close)
	return env{store: store, client: remote.NewClient(srv.URL+"/", 5*time.Second, zerolog.Nop())}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─────────────────────────────────────────────────────────────────────────────
// Sesión completa contra el servidor real (store en memoria)
// ─────────────────────────────────────────────────────────────────────────────

func TestSesion_RetiroDeExtremoAExtremo(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	s := withdrawal.NewSession(e.client, withdrawal.SessionConfig{OwnerCode: "D001", WithdrawBy: 7}, zerolog.Nop())
	t.Cleanup(s.Close)

	require.NoError(t, s.Start(ctx))
	require.Len(t, s.Products(), 3)
	assert.False(t, s.Products()[2].InStock)
	assert.True(t, s.State().IsEmpty())

	pick, err := s.PickProduct(ctx, "P100")
	require.NoError(t, err)
	require.Len(t, pick.Options, 3)
	assert.Equal(t, "D002", pick.Options[0].Key().OwnerCode)
	assert.True(t, pick.Options[2].Key().IsDirectOrder())
	assert.True(t, dec("12").Equal(pick.Options[2].Price()))

	outcome, err := s.Confirm(ctx, pick, map[int]int{0: 2, 2: 1})
	require.NoError(t, err)
	assert.Equal(t, cartsync.SyncApplied, outcome)

	saved, err := e.client.GetCart(ctx, "D001")
	require.NoError(t, err)
	require.Len(t, saved.Lines, 2)
	assert.True(t, dec("31").Equal(saved.TotalAmount))

	_, err = s.SelectDistributor(ctx, "D001")
	require.NoError(t, err)
	assert.True(t, dec("500").Equal(s.AvailableCash()))
	assert.True(t, dec("31").Equal(s.State().RequiredCash))

	receipt, err := s.Withdraw(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
	assert.Contains(t, receipt.Message, "3 unidades")
	assert.True(t, s.State().IsEmpty())

	after, err := e.client.GetCart(ctx, "D001")
	require.NoError(t, err)
	assert.Empty(t, after.Lines)

	balance, err := e.client.GetAccountBalance(ctx, "D001")
	require.NoError(t, err)
	assert.True(t, dec("469").Equal(balance))

	batches, err := e.client.ListBatchesForProduct(ctx, "P100")
	require.NoError(t, err)
	for _, b := range batches {
		if b.OwnerCode == "D002" {
			assert.Equal(t, 2, b.AvailableQty)
		}
	}
}

func TestSesion_CantidadMayorAlRestanteNoSincroniza(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	s := withdrawal.NewSession(e.client, withdrawal.SessionConfig{OwnerCode: "D001", WithdrawBy: 7}, zerolog.Nop())
	t.Cleanup(s.Close)
	require.NoError(t, s.Start(ctx))

	pick, err := s.PickProduct(ctx, "P100")
	require.NoError(t, err)
	_, err = s.Confirm(ctx, pick, map[int]int{0: 5})

	assert.ErrorIs(t, err, domain.ErrValidation)
	saved, err := e.client.GetCart(ctx, "D001")
	require.NoError(t, err)
	assert.Empty(t, saved.Lines)
}

// ─────────────────────────────────────────────────────────────────────────────
// Traducción de errores
// ─────────────────────────────────────────────────────────────────────────────

func TestClient_RechazosDeNegocio(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.client.GetAccountBalance(ctx, "D999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrNetwork)

	_, err = e.client.SubmitWithdrawal(ctx, &entity.Withdrawal{
		DistributorCode: "D003", TotalUnits: 2, TotalAmount: dec("60"), RequiredCash: dec("60"),
		Lines: []entity.WithdrawalLine{{ProductCode: "P200", Qty: 2, Total: dec("60")}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = e.client.UpsertCart(ctx, "", nil, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestClient_FallaDelServidor_EsErrorDeRed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	client := remote.NewClient(srv.URL, time.Second, zerolog.Nop())

	_, err := client.ListDistributors(context.Background())

	require.ErrorIs(t, err, domain.ErrNetwork)
	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusBadGateway, netErr.Status)
	assert.Equal(t, "listDistributors", netErr.Op)
}

func TestClient_ServidorCaido_EsErrorDeRed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := remote.NewClient(url, time.Second, zerolog.Nop()).ClearCart(context.Background(), "D001")

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_ContextoCancelado(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.client.ListWithdrawableProducts(ctx)

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
}
