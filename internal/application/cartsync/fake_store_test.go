package cartsync_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/retiros-api/internal/domain/cart"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// upsertCall registro de lo que recibió el servidor falso.
type upsertCall struct {
	lines       []entity.CartLine
	distributor string
}

// fakeStore carrito remoto en memoria. Permite retener una llamada concreta, inyectar errores y
// alterar la respuesta canónica para simular cambios del servidor.
type fakeStore struct {
	mu        sync.Mutex
	record    entity.CartState
	calls     []upsertCall
	hold      map[int]chan struct{} // número de llamada (1-based) -> liberación
	started   chan int
	failNext  error
	transform func(entity.CartState) entity.CartState
}

func newFakeStore(initial entity.CartState) *fakeStore {
	return &fakeStore{
		record:  cart.Recalculate(initial),
		hold:    map[int]chan struct{}{},
		started: make(chan int, 16),
	}
}

// holdCall retiene la llamada n hasta que se cierre el canal devuelto.
func (f *fakeStore) holdCall(n int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.hold[n] = ch
	return ch
}

func (f *fakeStore) upserts() []upsertCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upsertCall(nil), f.calls...)
}

func (f *fakeStore) GetCart(ctx context.Context, _ string) (entity.CartState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record.Clone(), nil
}

func (f *fakeStore) UpsertCart(ctx context.Context, _ string, lines []entity.CartLine, distributor string) (entity.CartState, error) {
	f.mu.Lock()
	f.calls = append(f.calls, upsertCall{lines: lines, distributor: distributor})
	n := len(f.calls)
	gate := f.hold[n]
	fail := f.failNext
	f.failNext = nil
	f.mu.Unlock()

	f.started <- n
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return entity.CartState{}, ctx.Err()
		}
	}
	if fail != nil {
		return entity.CartState{}, fail
	}

	state := cart.Recalculate(entity.CartState{Lines: lines, DistributorCode: distributor})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transform != nil {
		state = f.transform(state)
	}
	f.record = state
	return state.Clone(), nil
}

func (f *fakeStore) ClearCart(ctx context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record = cart.Empty()
	return nil
}

var errBoom = errors.New("boom")
