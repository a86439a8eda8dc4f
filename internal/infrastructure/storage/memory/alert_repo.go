package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/reconcile"
)

type AlertRepository struct {
	mu     sync.RWMutex
	alerts map[id.ID]*reconcile.Alert
}

func NewAlertRepository() *AlertRepository {
	return &AlertRepository{alerts: make(map[id.ID]*reconcile.Alert)}
}

func (r *AlertRepository) Insert(_ context.Context, alert *reconcile.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[alert.ID]; ok {
		return apperror.NewConflict("alert already exists")
	}
	cp := *alert
	r.alerts[alert.ID] = &cp
	return nil
}

func (r *AlertRepository) GetByID(_ context.Context, alertID id.ID) (*reconcile.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	alert, ok := r.alerts[alertID]
	if !ok {
		return nil, apperror.NewNotFound("alert", alertID)
	}
	cp := *alert
	return &cp, nil
}

func (r *AlertRepository) List(_ context.Context, farmerID id.ID, filter reconcile.AlertFilter) ([]*reconcile.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*reconcile.Alert
	for _, alert := range r.alerts {
		if alert.FarmerID != farmerID {
			continue
		}
		if filter.ItemID != nil && alert.ItemID != *filter.ItemID {
			continue
		}
		if filter.Kind != nil && alert.Kind != *filter.Kind {
			continue
		}
		if filter.Severity != nil && alert.Severity != *filter.Severity {
			continue
		}
		if filter.Resolved != nil && alert.Resolved != *filter.Resolved {
			continue
		}
		cp := *alert
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *AlertRepository) FindUnresolved(_ context.Context, itemID id.ID, kind reconcile.AlertKind) (*reconcile.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, alert := range r.alerts {
		if alert.ItemID == itemID && alert.Kind == kind && !alert.Resolved {
			cp := *alert
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AlertRepository) Update(_ context.Context, alert *reconcile.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[alert.ID]; !ok {
		return apperror.NewNotFound("alert", alert.ID)
	}
	cp := *alert
	r.alerts[alert.ID] = &cp
	return nil
}
