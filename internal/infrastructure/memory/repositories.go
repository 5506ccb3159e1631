package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

var (
	_ repository.CartRepository        = (*CartRepo)(nil)
	_ repository.BatchRepository       = (*BatchRepo)(nil)
	_ repository.ProductRepository     = (*ProductRepo)(nil)
	_ repository.CatalogueRepository   = (*CatalogueRepo)(nil)
	_ repository.AccountRepository     = (*AccountRepo)(nil)
	_ repository.DistributorRepository = (*DistributorRepo)(nil)
	_ repository.WithdrawalRepository  = (*WithdrawalRepo)(nil)
)

// ── Carrito ───────────────────────────────────────────────────────────────────

// CartRepo carritos por distribuidor.
type CartRepo struct{ s *Store }

// Carts devuelve el repositorio de carritos.
func (s *Store) Carts() *CartRepo { return &CartRepo{s: s} }

func (r *CartRepo) Get(_ context.Context, ownerCode string) (*entity.CartRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.carts[ownerCode]
	if !ok {
		return &entity.CartRecord{OwnerCode: ownerCode, Lines: []entity.CartLine{}}, nil
	}
	rec.Lines = cloneLines(rec.Lines)
	return &rec, nil
}

func (r *CartRepo) Save(_ context.Context, record *entity.CartRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec := *record
	rec.Lines = cloneLines(record.Lines)
	r.s.carts[rec.OwnerCode] = rec
	return nil
}

func (r *CartRepo) Delete(_ context.Context, ownerCode string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.carts, ownerCode)
	return nil
}

// ── Lotes y productos ────────────────────────────────────────────────────────

// BatchRepo lotes retirables.
type BatchRepo struct{ s *Store }

// Batches devuelve el repositorio de lotes.
func (s *Store) Batches() *BatchRepo { return &BatchRepo{s: s} }

// ListByProduct lotes del producto ordenados por vencimiento y dueño.
func (r *BatchRepo) ListByProduct(_ context.Context, productCode string) ([]entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Batch, 0)
	for _, b := range r.s.batches {
		if b.ProductCode == productCode {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExpiryDate != out[j].ExpiryDate {
			return out[i].ExpiryDate < out[j].ExpiryDate
		}
		return out[i].OwnerCode < out[j].OwnerCode
	})
	return out, nil
}

// GetForUpdate en memoria el bloqueo lo da el TxRunner.
func (r *BatchRepo) GetForUpdate(_ context.Context, key entity.AllocationKey) (*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.batches[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *BatchRepo) UpdateQty(_ context.Context, key entity.AllocationKey, availableQty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[key]
	if !ok {
		return domain.ErrNotFound
	}
	b.AvailableQty = availableQty
	b.UpdatedAt = time.Now()
	r.s.batches[key] = b
	return nil
}

// ProductRepo productos retirables.
type ProductRepo struct{ s *Store }

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) ListWithdrawable(_ context.Context) ([]entity.WithdrawableProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inStock := map[string]bool{}
	for _, b := range r.s.batches {
		if b.AvailableQty > 0 {
			inStock[b.ProductCode] = true
		}
	}
	out := make([]entity.WithdrawableProduct, 0, len(r.s.products))
	for _, p := range r.s.products {
		p.InStock = inStock[p.Code]
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// CatalogueRepo precios de catálogo.
type CatalogueRepo struct{ s *Store }

// Catalogue devuelve el repositorio de precios.
func (s *Store) Catalogue() *CatalogueRepo { return &CatalogueRepo{s: s} }

func (r *CatalogueRepo) PriceAt(_ context.Context, productCode string, asOf time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	points := r.s.prices[productCode]
	for i := len(points) - 1; i >= 0; i-- {
		if !points[i].from.After(asOf) {
			return points[i].price, nil
		}
	}
	return decimal.Zero, domain.ErrNotFound
}

// ── Cuentas y distribuidores ─────────────────────────────────────────────────

// AccountRepo saldos.
type AccountRepo struct{ s *Store }

// Accounts devuelve el repositorio de cuentas.
func (s *Store) Accounts() *AccountRepo { return &AccountRepo{s: s} }

func (r *AccountRepo) Get(_ context.Context, distributorCode string) (*entity.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	acc, ok := r.s.accounts[distributorCode]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &acc, nil
}

func (r *AccountRepo) GetForUpdate(ctx context.Context, distributorCode string) (*entity.Account, error) {
	return r.Get(ctx, distributorCode)
}

func (r *AccountRepo) UpdateBalance(_ context.Context, distributorCode string, balance decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc, ok := r.s.accounts[distributorCode]
	if !ok {
		return domain.ErrNotFound
	}
	acc.Balance = balance
	acc.UpdatedAt = time.Now()
	r.s.accounts[distributorCode] = acc
	return nil
}

// DistributorRepo distribuidores.
type DistributorRepo struct{ s *Store }

// Distributors devuelve el repositorio de distribuidores.
func (s *Store) Distributors() *DistributorRepo { return &DistributorRepo{s: s} }

func (r *DistributorRepo) List(_ context.Context) ([]entity.Distributor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Distributor, 0, len(r.s.distributors))
	for _, d := range r.s.distributors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *DistributorRepo) Get(_ context.Context, code string) (*entity.Distributor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.distributors[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

// ── Retiros ───────────────────────────────────────────────────────────────────

// WithdrawalRepo retiros confirmados.
type WithdrawalRepo struct{ s *Store }

// Withdrawals devuelve el repositorio de retiros.
func (s *Store) Withdrawals() *WithdrawalRepo { return &WithdrawalRepo{s: s} }

func (r *WithdrawalRepo) Create(_ context.Context, w *entity.Withdrawal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.withdrawals[w.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *w
	cp.Lines = append([]entity.WithdrawalLine(nil), w.Lines...)
	r.s.withdrawals[w.ID] = cp
	return nil
}

func (r *WithdrawalRepo) GetByID(_ context.Context, id string) (*entity.Withdrawal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.withdrawals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	w.Lines = append([]entity.WithdrawalLine(nil), w.Lines...)
	return &w, nil
}
