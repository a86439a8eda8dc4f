// Package memory provides mutex-guarded in-memory implementations of the
// inventory repositories. They back unit tests and single-node deployments
// without Postgres, and enforce the same optimistic versioning semantics
// as the SQL repositories.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
)

type ItemRepository struct {
	mu    sync.RWMutex
	items map[id.ID]*item.StockItem
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[id.ID]*item.StockItem)}
}

func (r *ItemRepository) Create(_ context.Context, it *item.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[it.ID]; ok {
		return apperror.NewConflict("item already exists")
	}
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *ItemRepository) GetByID(_ context.Context, itemID id.ID) (*item.StockItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("stock item", itemID)
	}
	cp := *it
	return &cp, nil
}

func (r *ItemRepository) List(_ context.Context, filter item.ListFilter) ([]*item.StockItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*item.StockItem
	for _, it := range r.items {
		if !matchesItemFilter(it, filter) {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func matchesItemFilter(it *item.StockItem, f item.ListFilter) bool {
	if it.FarmerID != f.FarmerID {
		return false
	}
	if f.FarmID != nil && (it.FarmID == nil || *it.FarmID != *f.FarmID) {
		return false
	}
	if f.BatchID != nil && (it.BatchID == nil || *it.BatchID != *f.BatchID) {
		return false
	}
	if f.Category != nil && it.Category != *f.Category {
		return false
	}
	if f.ExpiringBy != nil {
		if it.ExpiryDate == nil || it.ExpiryDate.After(*f.ExpiringBy) {
			return false
		}
	}
	return true
}

func (r *ItemRepository) UpdatePolicy(_ context.Context, itemID id.ID, expectedVersion int, update item.PolicyUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[itemID]
	if !ok {
		return apperror.NewNotFound("stock item", itemID)
	}
	if it.Version != expectedVersion {
		return apperror.NewConcurrentModification("stock item", itemID)
	}

	rp, oul, ss := update.ReorderPoint, update.OrderUpToLevel, update.SafetyStock
	slt := update.ServiceLevelTarget
	it.ReorderPoint = &rp
	it.OrderUpToLevel = &oul
	it.SafetyStock = &ss
	it.LeadTimeDays = update.LeadTimeDays
	it.ServiceLevelTarget = &slt
	it.Version++
	it.UpdatedAt = nowUTC()
	return nil
}

func (r *ItemRepository) UpdateQuantity(_ context.Context, itemID id.ID, expectedVersion int, quantity types.Quantity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[itemID]
	if !ok {
		return apperror.NewNotFound("stock item", itemID)
	}
	if it.Version != expectedVersion {
		return apperror.NewConcurrentModification("stock item", itemID)
	}

	it.Quantity = quantity
	it.Version++
	it.UpdatedAt = nowUTC()
	return nil
}

func (r *ItemRepository) DeleteByBatch(_ context.Context, batchID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for itemID, it := range r.items {
		if it.BatchID != nil && *it.BatchID == batchID {
			delete(r.items, itemID)
		}
	}
	return nil
}

func (r *ItemRepository) DeleteByFarm(_ context.Context, farmID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for itemID, it := range r.items {
		if it.FarmID != nil && *it.FarmID == farmID {
			delete(r.items, itemID)
		}
	}
	return nil
}
