package withdrawal_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/cart"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// fakeGateway servidor completo en memoria para probar sesión y submitter sin red.
type fakeGateway struct {
	mu           sync.Mutex
	record       entity.CartState
	products     []entity.WithdrawableProduct
	batches      map[string][]entity.Batch
	prices       map[string]decimal.Decimal
	balances     map[string]decimal.Decimal
	distributors []entity.Distributor

	submitted   []*entity.Withdrawal
	clears      int
	upserts     int
	submitErr   error
	clearErrs   int // cantidad de ClearCart que fallan antes de funcionar
	priceAsOf   time.Time
	balanceHits int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		record: cart.Empty(),
		products: []entity.WithdrawableProduct{
			{Code: "P1", Name: "Crema", InStock: true},
			{Code: "P2", Name: "Perfume", InStock: false},
		},
		batches: map[string][]entity.Batch{
			"P1": {{ProductCode: "P1", OwnerCode: "D1", ExpiryDate: "2025-01-01", AvailableQty: 5, UnitPrice: decimal.NewFromInt(10)}},
		},
		prices:       map[string]decimal.Decimal{"P1": decimal.NewFromInt(12), "P2": decimal.NewFromInt(30)},
		balances:     map[string]decimal.Decimal{"D1": decimal.NewFromInt(100), "D2": decimal.NewFromInt(5)},
		distributors: []entity.Distributor{{Code: "D1", Name: "Ana"}, {Code: "D2", Name: "Luis"}},
	}
}

var errUnavailable = errors.New("servicio no disponible")

func netErr(op string) error { return &domain.NetworkError{Op: op, Status: 503, Err: errUnavailable} }

func (f *fakeGateway) GetCart(_ context.Context, _ string) (entity.CartState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record.Clone(), nil
}

func (f *fakeGateway) UpsertCart(_ context.Context, _ string, lines []entity.CartLine, distributor string) (entity.CartState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.record = cart.Recalculate(entity.CartState{Lines: lines, DistributorCode: distributor})
	return f.record.Clone(), nil
}

func (f *fakeGateway) ClearCart(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErrs > 0 {
		f.clearErrs--
		return netErr("clearCart")
	}
	f.clears++
	f.record = cart.Empty()
	return nil
}

func (f *fakeGateway) ListWithdrawableProducts(context.Context) ([]entity.WithdrawableProduct, error) {
	return f.products, nil
}

func (f *fakeGateway) ListBatchesForProduct(_ context.Context, productCode string) ([]entity.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Batch(nil), f.batches[productCode]...), nil
}

func (f *fakeGateway) GetDirectOrderPrice(_ context.Context, productCode string, asOf time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceAsOf = asOf
	p, ok := f.prices[productCode]
	if !ok {
		return decimal.Zero, &domain.NetworkError{Op: "getDirectOrderPrice", Status: 404, Err: domain.ErrNotFound}
	}
	return p, nil
}

func (f *fakeGateway) ListDistributors(context.Context) ([]entity.Distributor, error) {
	return f.distributors, nil
}

func (f *fakeGateway) GetAccountBalance(_ context.Context, code string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceHits++
	return f.balances[code], nil
}

func (f *fakeGateway) SubmitWithdrawal(_ context.Context, w *entity.Withdrawal) (entity.WithdrawalReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return entity.WithdrawalReceipt{}, f.submitErr
	}
	f.submitted = append(f.submitted, w)
	id := fmt.Sprintf("w-%d", len(f.submitted))
	return entity.WithdrawalReceipt{ID: id, Message: "Retiro " + id + " registrado"}, nil
}

// holdingGateway retiene SubmitWithdrawal hasta que se cierre release. Si el ctx de la petición
// se cancela mientras tanto lo avisa por cancelled y sigue esperando: simula un servidor que ya
// registró el retiro aunque el cliente haya abandonado.
type holdingGateway struct {
	*fakeGateway
	started   chan struct{}
	release   chan struct{}
	cancelled chan struct{}
}

func newHoldingGateway(gw *fakeGateway) *holdingGateway {
	return &holdingGateway{
		fakeGateway: gw,
		started:     make(chan struct{}),
		release:     make(chan struct{}),
		cancelled:   make(chan struct{}),
	}
}

func (h *holdingGateway) SubmitWithdrawal(ctx context.Context, w *entity.Withdrawal) (entity.WithdrawalReceipt, error) {
	close(h.started)
	select {
	case <-h.release:
	case <-ctx.Done():
		close(h.cancelled)
		<-h.release
	}
	return h.fakeGateway.SubmitWithdrawal(context.Background(), w)
}
