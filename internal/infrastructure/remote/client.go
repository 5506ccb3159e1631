// Package remote implementa los puertos del cliente de retiros sobre la API HTTP/JSON del servidor.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/application/ports"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

var _ ports.Gateway = (*Client)(nil)

const maxBody = 1 << 20

// Client adaptador HTTP del gateway. Sin reintentos: cada falla se devuelve al llamador.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient construye el cliente. baseURL sin barra final, ej. http://localhost:8080.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "remote").Logger(),
	}
}

// ── Carrito ───────────────────────────────────────────────────────────────────

func cartQuery(distributorCode string) url.Values {
	return url.Values{"distributorCode": {distributorCode}}
}

func (c *Client) GetCart(ctx context.Context, distributorCode string) (entity.CartState, error) {
	var out dto.CartResponse
	if err := c.do(ctx, "getCart", http.MethodGet, "/api/cart/get", cartQuery(distributorCode), nil, &out); err != nil {
		return entity.CartState{}, err
	}
	return out.ToState(), nil
}

func (c *Client) UpsertCart(ctx context.Context, distributorCode string, lines []entity.CartLine, selectedDistributor string) (entity.CartState, error) {
	in := dto.NewUpsertCartRequest(lines, selectedDistributor)
	var out dto.CartResponse
	if err := c.do(ctx, "upsertCart", http.MethodPost, "/api/cart/add", cartQuery(distributorCode), in, &out); err != nil {
		return entity.CartState{}, err
	}
	return out.ToState(), nil
}

func (c *Client) ClearCart(ctx context.Context, distributorCode string) error {
	return c.do(ctx, "clearCart", http.MethodDelete, "/api/cart/clear", cartQuery(distributorCode), nil, nil)
}

// ── Inventario ────────────────────────────────────────────────────────────────

func (c *Client) ListWithdrawableProducts(ctx context.Context) ([]entity.WithdrawableProduct, error) {
	var out []dto.WithdrawableProductDTO
	if err := c.do(ctx, "listWithdrawableProducts", http.MethodGet, "/api/inventory/withdrawableProducts", nil, nil, &out); err != nil {
		return nil, err
	}
	products := make([]entity.WithdrawableProduct, 0, len(out))
	for _, p := range out {
		products = append(products, p.ToEntity())
	}
	return products, nil
}

func (c *Client) ListBatchesForProduct(ctx context.Context, productCode string) ([]entity.Batch, error) {
	var out []dto.BatchDTO
	path := "/api/inventory/grouped/" + url.PathEscape(productCode)
	if err := c.do(ctx, "listBatchesForProduct", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	batches := make([]entity.Batch, 0, len(out))
	for _, b := range out {
		batches = append(batches, b.ToEntity())
	}
	return batches, nil
}

func (c *Client) GetDirectOrderPrice(ctx context.Context, productCode string, asOf time.Time) (decimal.Decimal, error) {
	var out dto.CataloguePriceResponse
	path := "/api/catalogues/price-by-product/" + asOf.Format(entity.ExpiryLayout) + "/" + url.PathEscape(productCode)
	if err := c.do(ctx, "getDirectOrderPrice", http.MethodGet, path, nil, nil, &out); err != nil {
		return decimal.Zero, err
	}
	return out.Price, nil
}

func (c *Client) ListDistributors(ctx context.Context) ([]entity.Distributor, error) {
	var out []dto.DistributorDTO
	if err := c.do(ctx, "listDistributors", http.MethodGet, "/api/distributors", nil, nil, &out); err != nil {
		return nil, err
	}
	ds := make([]entity.Distributor, 0, len(out))
	for _, d := range out {
		ds = append(ds, entity.Distributor{Code: d.Code, Name: d.Name})
	}
	return ds, nil
}

func (c *Client) GetAccountBalance(ctx context.Context, distributorCode string) (decimal.Decimal, error) {
	var out dto.AccountBalanceResponse
	path := "/api/accounts/" + url.PathEscape(distributorCode)
	if err := c.do(ctx, "getAccountBalance", http.MethodGet, path, nil, nil, &out); err != nil {
		return decimal.Zero, err
	}
	return out.Balance, nil
}

// ── Retiros ───────────────────────────────────────────────────────────────────

func (c *Client) SubmitWithdrawal(ctx context.Context, w *entity.Withdrawal) (entity.WithdrawalReceipt, error) {
	var out dto.WithdrawResponse
	if err := c.do(ctx, "submitWithdrawal", http.MethodPost, "/api/withdraws", nil, dto.NewWithdrawRequest(w), &out); err != nil {
		return entity.WithdrawalReceipt{}, err
	}
	return entity.WithdrawalReceipt{ID: out.ID, Message: out.Message}, nil
}

// ── transporte ────────────────────────────────────────────────────────────────

// do ejecuta la petición. Respuestas 2xx se decodifican en out (si no es nil); los rechazos con
// código conocido devuelven *APIError y todo lo demás *domain.NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: serializar request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = errors.Join(ctx.Err(), err)
		}
		c.log.Debug().Err(err).Str("op", op).Msg("petición fallida")
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("leer respuesta: %w", err)}
	}
	c.log.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("respuesta")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e dto.ErrorResponse
		if json.Unmarshal(raw, &e) == nil && known(e.Code) && resp.StatusCode < 500 {
			return &APIError{Op: op, Status: resp.StatusCode, Code: e.Code, Message: e.Message}
		}
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: errors.New(msg)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("deserializar respuesta: %w", err)}
	}
	return nil
}
