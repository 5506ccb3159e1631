package memory

import (
	"context"

	"github.com/jhoicas/retiros-api/internal/application/inventory"
	"github.com/jhoicas/retiros-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta el retiro en exclusión mutua; si fn falla restaura lotes, cuentas y retiros.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run corre fn con los repositorios del store; error o panic = rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	accountRepo repository.AccountRepository,
	batchRepo repository.BatchRepository,
	withdrawalRepo repository.WithdrawalRepository,
) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	snap := r.s.takeSnapshot()
	committed := false
	defer func() {
		if !committed {
			r.s.restore(snap)
		}
	}()

	if err := fn(r.s.Accounts(), r.s.Batches(), r.s.Withdrawals()); err != nil {
		return err
	}
	committed = true
	return nil
}
