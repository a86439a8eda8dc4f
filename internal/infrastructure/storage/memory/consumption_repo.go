package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/consumption"
)

type ConsumptionRepository struct {
	mu      sync.RWMutex
	records map[id.ID]*consumption.Record
}

func NewConsumptionRepository() *ConsumptionRepository {
	return &ConsumptionRepository{records: make(map[id.ID]*consumption.Record)}
}

func (r *ConsumptionRepository) Insert(_ context.Context, record *consumption.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; ok {
		return apperror.NewConflict("consumption record already exists")
	}
	cp := *record
	r.records[record.ID] = &cp
	return nil
}

func (r *ConsumptionRepository) GetByID(_ context.Context, recordID id.ID) (*consumption.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[recordID]
	if !ok {
		return nil, apperror.NewNotFound("consumption record", recordID)
	}
	cp := *record
	return &cp, nil
}

func (r *ConsumptionRepository) ListByBatch(_ context.Context, batchID id.ID, filter consumption.Filter) ([]*consumption.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*consumption.Record
	for _, record := range r.records {
		if record.BatchID != batchID {
			continue
		}
		if filter.ItemID != nil && record.ItemID != *filter.ItemID {
			continue
		}
		if filter.FromDate != nil && record.ConsumedOn.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && record.ConsumedOn.After(*filter.ToDate) {
			continue
		}
		cp := *record
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ConsumedOn.After(out[j].ConsumedOn)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *ConsumptionRepository) SumQuantity(_ context.Context, scope consumption.Scope) (types.Quantity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, record := range r.records {
		if !inScope(record, scope) {
			continue
		}
		total = total.Add(record.QuantityUsed)
	}
	return total, nil
}

func (r *ConsumptionRepository) CountDays(_ context.Context, scope consumption.Scope) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	days := make(map[string]struct{})
	for _, record := range r.records {
		if !inScope(record, scope) {
			continue
		}
		days[record.ConsumedOn.Format(time.DateOnly)] = struct{}{}
	}
	return len(days), nil
}

func inScope(record *consumption.Record, scope consumption.Scope) bool {
	if scope.BatchID != nil && record.BatchID != *scope.BatchID {
		return false
	}
	if scope.ItemID != nil && record.ItemID != *scope.ItemID {
		return false
	}
	if scope.FarmerID != nil && record.FarmerID != *scope.FarmerID {
		return false
	}
	if scope.FromDate != nil && record.ConsumedOn.Before(*scope.FromDate) {
		return false
	}
	if scope.ToDate != nil && record.ConsumedOn.After(*scope.ToDate) {
		return false
	}
	return true
}
