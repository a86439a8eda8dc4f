package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
)

type LedgerRepository struct {
	mu  sync.RWMutex
	txs map[id.ID]*ledger.Transaction
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{txs: make(map[id.ID]*ledger.Transaction)}
}

func (r *LedgerRepository) Insert(_ context.Context, tx *ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[tx.ID]; ok {
		return apperror.NewConflict("transaction already exists")
	}
	cp := *tx
	r.txs[tx.ID] = &cp
	return nil
}

func (r *LedgerRepository) GetByID(_ context.Context, txID id.ID) (*ledger.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.txs[txID]
	if !ok {
		return nil, apperror.NewNotFound("transaction", txID)
	}
	cp := *tx
	return &cp, nil
}

func (r *LedgerRepository) ListByItem(_ context.Context, itemID id.ID, filter ledger.Filter) ([]*ledger.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ledger.Transaction
	for _, tx := range r.txs {
		if tx.ItemID != itemID {
			continue
		}
		if filter.Kind != nil && tx.Kind != *filter.Kind {
			continue
		}
		if filter.BatchID != nil && (tx.BatchID == nil || *tx.BatchID != *filter.BatchID) {
			continue
		}
		if filter.FromDate != nil && tx.TransactionDate.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && tx.TransactionDate.After(*filter.ToDate) {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TransactionDate.After(out[j].TransactionDate)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *LedgerRepository) SumDepletion(_ context.Context, scope ledger.DepletionScope) (types.Quantity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, tx := range r.txs {
		if scope.FarmerID != nil && tx.FarmerID != *scope.FarmerID {
			continue
		}
		if scope.ItemID != nil && tx.ItemID != *scope.ItemID {
			continue
		}
		if scope.BatchID != nil && (tx.BatchID == nil || *tx.BatchID != *scope.BatchID) {
			continue
		}
		if scope.FromDate != nil && tx.TransactionDate.Before(*scope.FromDate) {
			continue
		}
		if scope.ToDate != nil && tx.TransactionDate.After(*scope.ToDate) {
			continue
		}
		total = total.Add(tx.Depletion())
	}
	return total, nil
}
