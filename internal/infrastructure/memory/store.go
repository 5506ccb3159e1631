// Package memory implementa los repositorios sobre mapas en memoria. Se usa cuando no hay
// PostgreSQL configurado (desarrollo, demos) y en los tests de handlers y end-to-end.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

type pricePoint struct {
	from  time.Time
	price decimal.Decimal
}

// Store estado completo del servidor en memoria.
type Store struct {
	mu           sync.RWMutex
	carts        map[string]entity.CartRecord
	batches      map[entity.AllocationKey]entity.Batch
	products     map[string]entity.WithdrawableProduct
	prices       map[string][]pricePoint
	accounts     map[string]entity.Account
	distributors map[string]entity.Distributor
	withdrawals  map[string]entity.Withdrawal

	// txMu serializa las transacciones de retiro (equivalente a los FOR UPDATE de PostgreSQL).
	txMu sync.Mutex
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		carts:        map[string]entity.CartRecord{},
		batches:      map[entity.AllocationKey]entity.Batch{},
		products:     map[string]entity.WithdrawableProduct{},
		prices:       map[string][]pricePoint{},
		accounts:     map[string]entity.Account{},
		distributors: map[string]entity.Distributor{},
		withdrawals:  map[string]entity.Withdrawal{},
	}
}

// PutDistributor registra un distribuidor con su saldo inicial.
func (s *Store) PutDistributor(code, name string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.distributors[code] = entity.Distributor{Code: code, Name: name}
	s.accounts[code] = entity.Account{DistributorCode: code, Balance: balance, UpdatedAt: time.Now()}
}

// PutProduct registra un producto retirable.
func (s *Store) PutProduct(code, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[code] = entity.WithdrawableProduct{Code: code, Name: name}
}

// PutBatch registra o reemplaza un lote.
func (s *Store) PutBatch(b entity.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = time.Now()
	}
	s.batches[b.Key()] = b
}

// PutPrice registra un precio de catálogo vigente desde la fecha indicada.
func (s *Store) PutPrice(productCode string, from time.Time, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	points := append(s.prices[productCode], pricePoint{from: from, price: price})
	sort.Slice(points, func(i, j int) bool { return points[i].from.Before(points[j].from) })
	s.prices[productCode] = points
}

// snapshot copia de las tablas que modifica una transacción de retiro.
type snapshot struct {
	batches     map[entity.AllocationKey]entity.Batch
	accounts    map[string]entity.Account
	withdrawals map[string]entity.Withdrawal
}

func (s *Store) takeSnapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		batches:     make(map[entity.AllocationKey]entity.Batch, len(s.batches)),
		accounts:    make(map[string]entity.Account, len(s.accounts)),
		withdrawals: make(map[string]entity.Withdrawal, len(s.withdrawals)),
	}
	for k, v := range s.batches {
		snap.batches[k] = v
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.withdrawals {
		snap.withdrawals[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = snap.batches
	s.accounts = snap.accounts
	s.withdrawals = snap.withdrawals
}

func cloneLines(lines []entity.CartLine) []entity.CartLine {
	out := make([]entity.CartLine, len(lines))
	copy(out, lines)
	return out
}
