package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/bootstrap"
	"github.com/jhoicas/retiros-api/internal/infrastructure/cache"
	"github.com/jhoicas/retiros-api/internal/infrastructure/memory"
	httpRouter "github.com/jhoicas/retiros-api/internal/interfaces/http"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	repos := bootstrap.Memory(memory.NewSeeded())
	deps := bootstrap.RouterDeps(repos, cache.NoopPriceCache{}, time.Minute, zerolog.Nop())
	return httpRouter.NewApp("retiros-test", deps)
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (*httpResponse, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return &httpResponse{Status: resp.StatusCode, ContentType: resp.Header.Get(fiber.HeaderContentType)}, raw
}

type httpResponse struct {
	Status      int
	ContentType string
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func strp(s string) *string { return &s }

// ─────────────────────────────────────────────────────────────────────────────
// Consultas
// ─────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	resp, _ := do(t, newApp(t), fiber.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
}

func TestWithdrawableProducts_MarcaSinStock(t *testing.T) {
	resp, raw := do(t, newApp(t), fiber.MethodGet, "/api/inventory/withdrawableProducts", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)

	products := decode[[]dto.WithdrawableProductDTO](t, raw)
	require.Len(t, products, 3)
	assert.Equal(t, "P100", products[0].Code)
	assert.True(t, products[0].InStock)
	assert.Equal(t, "P300", products[2].Code)
	assert.False(t, products[2].InStock)
}

func TestGrouped_SoloLotesConStock(t *testing.T) {
	app := newApp(t)

	_, raw := do(t, app, fiber.MethodGet, "/api/inventory/grouped/P100", nil)
	batches := decode[[]dto.BatchDTO](t, raw)
	require.Len(t, batches, 2)
	for _, b := range batches {
		assert.Equal(t, "P100", b.ProductCode)
		assert.Positive(t, b.TotalQty)
	}

	_, raw = do(t, app, fiber.MethodGet, "/api/inventory/grouped/P300", nil)
	assert.Empty(t, decode[[]dto.BatchDTO](t, raw))
}

func TestPriceByProduct(t *testing.T) {
	app := newApp(t)

	resp, raw := do(t, app, fiber.MethodGet, "/api/catalogues/price-by-product/2025-05-01/P100", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	price := decode[dto.CataloguePriceResponse](t, raw)
	assert.True(t, price.Price.Equal(decimal.NewFromInt(12)))

	resp, raw = do(t, app, fiber.MethodGet, "/api/catalogues/price-by-product/01-05-2025/P100", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, httpRouter.CodeValidation, decode[dto.ErrorResponse](t, raw).Code)

	resp, _ = do(t, app, fiber.MethodGet, "/api/catalogues/price-by-product/2025-05-01/NOPE", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestDistributorsYSaldo(t *testing.T) {
	app := newApp(t)

	_, raw := do(t, app, fiber.MethodGet, "/api/distributors", nil)
	assert.Len(t, decode[[]dto.DistributorDTO](t, raw), 3)

	resp, raw := do(t, app, fiber.MethodGet, "/api/accounts/D001", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.True(t, decode[dto.AccountBalanceResponse](t, raw).Balance.Equal(decimal.NewFromInt(500)))

	resp, raw = do(t, app, fiber.MethodGet, "/api/accounts/D999", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
	assert.Equal(t, httpRouter.CodeNotFound, decode[dto.ErrorResponse](t, raw).Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Carrito
// ─────────────────────────────────────────────────────────────────────────────

func TestCart_CicloCompleto(t *testing.T) {
	app := newApp(t)

	_, raw := do(t, app, fiber.MethodGet, "/api/cart/get?distributorCode=D001", nil)
	empty := decode[dto.CartResponse](t, raw)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
	assert.Contains(t, string(raw), `"items":[]`)

	in := dto.UpsertCartRequest{
		Items: []dto.CartItemDTO{
			{ProductCode: "P100", OwnerCode: strp("D001"), ExpiryDate: strp("2026-03-31"), Qty: 2, Price: decimal.NewFromInt(10), Total: decimal.NewFromInt(999)},
			{ProductCode: "P100", Qty: 1, Price: decimal.NewFromInt(12)},
		},
		SelectedDistributor: strp("D001"),
	}
	resp, raw := do(t, app, fiber.MethodPost, "/api/cart/add?distributorCode=D001", in)
	require.Equal(t, fiber.StatusOK, resp.Status, string(raw))
	saved := decode[dto.CartResponse](t, raw)
	assert.Equal(t, 3, saved.TotalUnits)
	assert.True(t, saved.Items[0].Total.Equal(decimal.NewFromInt(20)), "el total de línea lo recalcula el servidor")
	assert.True(t, saved.TotalAmount.Equal(decimal.NewFromInt(32)))
	assert.True(t, saved.RequiredCash.Equal(decimal.NewFromInt(12)), "las líneas propias no requieren efectivo")
	assert.Nil(t, saved.Items[1].OwnerCode)

	_, raw = do(t, app, fiber.MethodGet, "/api/cart/get?distributorCode=D001", nil)
	assert.Len(t, decode[dto.CartResponse](t, raw).Items, 2)

	resp, _ = do(t, app, fiber.MethodDelete, "/api/cart/clear?distributorCode=D001", nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	_, raw = do(t, app, fiber.MethodGet, "/api/cart/get?distributorCode=D001", nil)
	assert.Empty(t, decode[dto.CartResponse](t, raw).Items)
}

func TestCart_Errores(t *testing.T) {
	app := newApp(t)

	resp, raw := do(t, app, fiber.MethodGet, "/api/cart/get", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, httpRouter.CodeValidation, decode[dto.ErrorResponse](t, raw).Code)

	resp, raw = do(t, app, fiber.MethodPost, "/api/cart/add?distributorCode=D001", "{no es json")
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, httpRouter.CodeInvalidBody, decode[dto.ErrorResponse](t, raw).Code)

	bad := dto.UpsertCartRequest{Items: []dto.CartItemDTO{{ProductCode: "P100", OwnerCode: strp("D001"), Qty: 1, Price: decimal.NewFromInt(10)}}}
	resp, _ = do(t, app, fiber.MethodPost, "/api/cart/add?distributorCode=D001", bad)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
}

// ─────────────────────────────────────────────────────────────────────────────
// Retiros
// ─────────────────────────────────────────────────────────────────────────────

func withdrawRequest(withdrawer string, products ...dto.WithdrawProductDTO) dto.WithdrawRequest {
	req := dto.WithdrawRequest{WithdrawBy: 7, DistributorCode: withdrawer, Products: products}
	for _, p := range products {
		req.TotalUnits += p.Qty
		req.TotalAmt = req.TotalAmt.Add(p.Total)
		if p.DistributorCode == nil || *p.DistributorCode != withdrawer {
			req.RequiredCash = req.RequiredCash.Add(p.Total)
		}
	}
	return req
}

func TestWithdraw_RegistraYSirveComprobante(t *testing.T) {
	app := newApp(t)

	req := withdrawRequest("D001",
		dto.WithdrawProductDTO{ProductCode: "P100", DistributorCode: strp("D002"), ExpiryDate: strp("2025-12-31"), Qty: 2, Total: decimal.NewFromInt(19)},
		dto.WithdrawProductDTO{ProductCode: "P100", Qty: 1, Total: decimal.NewFromInt(12)},
	)
	resp, raw := do(t, app, fiber.MethodPost, "/api/withdraws", req)
	require.Equal(t, fiber.StatusCreated, resp.Status, string(raw))
	created := decode[dto.WithdrawResponse](t, raw)
	require.NotEmpty(t, created.ID)
	assert.Contains(t, created.Message, "3 unidades")

	_, raw = do(t, app, fiber.MethodGet, "/api/accounts/D001", nil)
	assert.True(t, decode[dto.AccountBalanceResponse](t, raw).Balance.Equal(decimal.NewFromInt(469)))

	resp, raw = do(t, app, fiber.MethodGet, "/api/withdraws/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	detail := decode[dto.WithdrawalDetailResponse](t, raw)
	assert.Len(t, detail.Products, 2)
	assert.True(t, detail.RequiredCash.Equal(decimal.NewFromInt(31)))

	resp, raw = do(t, app, fiber.MethodGet, "/api/withdraws/"+created.ID+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "application/pdf", resp.ContentType)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestWithdraw_FondosInsuficientes_409(t *testing.T) {
	req := withdrawRequest("D003",
		dto.WithdrawProductDTO{ProductCode: "P200", Qty: 2, Total: decimal.NewFromInt(60)},
	)
	resp, raw := do(t, newApp(t), fiber.MethodPost, "/api/withdraws", req)

	assert.Equal(t, fiber.StatusConflict, resp.Status)
	assert.Equal(t, httpRouter.CodeInsufficientFunds, decode[dto.ErrorResponse](t, raw).Code)
}

func TestWithdraw_StockInsuficiente_409(t *testing.T) {
	req := withdrawRequest("D001",
		dto.WithdrawProductDTO{ProductCode: "P200", DistributorCode: strp("D003"), ExpiryDate: strp("2027-01-15"), Qty: 5, Total: decimal.NewFromInt(125)},
	)
	resp, raw := do(t, newApp(t), fiber.MethodPost, "/api/withdraws", req)

	assert.Equal(t, fiber.StatusConflict, resp.Status)
	assert.Equal(t, httpRouter.CodeInsufficientStock, decode[dto.ErrorResponse](t, raw).Code)
}

func TestWithdraw_Inexistente_404(t *testing.T) {
	resp, _ := do(t, newApp(t), fiber.MethodGet, "/api/withdraws/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}
