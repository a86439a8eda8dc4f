package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/consumption"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
	"github.com/BINABASS091/fugajiSmart-back/pkg/logger"
)

// highConsumptionFactor flags items whose observed daily usage exceeds the
// planned rate by this multiple.
const highConsumptionFactor = 1.5

// AuditRecorder receives a notification when an alert is resolved.
type AuditRecorder interface {
	RecordAlertResolution(ctx context.Context, alert *Alert) error
}

// Service runs reconciliation between reported consumption and the ledger,
// and maintains the alert lifecycle.
type Service struct {
	alerts      AlertRepository
	items       item.Repository
	consumption consumption.Repository
	ledger      ledger.Repository
	audit       AuditRecorder // optional
}

func NewService(alerts AlertRepository, items item.Repository, consumptionRepo consumption.Repository, ledgerRepo ledger.Repository, audit AuditRecorder) *Service {
	return &Service{
		alerts:      alerts,
		items:       items,
		consumption: consumptionRepo,
		ledger:      ledgerRepo,
		audit:       audit,
	}
}

// Reconcile compares reported consumption with ledger depletion over the
// scope. With no reported consumption the sync is 100% by definition. When
// the scope names a single item and the sync band is below Good, a drift
// alert is raised (idempotently).
func (s *Service) Reconcile(ctx context.Context, scope Scope) (*Report, error) {
	if id.IsNil(scope.FarmerID) {
		return nil, apperror.NewValidation("farmer scope is required")
	}

	if scope.ItemID != nil {
		it, err := s.items.GetByID(ctx, *scope.ItemID)
		if err != nil {
			return nil, err
		}
		if it.FarmerID != scope.FarmerID {
			return nil, apperror.NewNotFound("stock item", *scope.ItemID)
		}
	}

	reported, err := s.consumption.SumQuantity(ctx, consumption.Scope{
		BatchID:  scope.BatchID,
		ItemID:   scope.ItemID,
		FarmerID: &scope.FarmerID,
		FromDate: scope.FromDate,
		ToDate:   scope.ToDate,
	})
	if err != nil {
		return nil, fmt.Errorf("sum reported consumption: %w", err)
	}

	depleted, err := s.ledger.SumDepletion(ctx, ledger.DepletionScope{
		FarmerID: &scope.FarmerID,
		ItemID:   scope.ItemID,
		BatchID:  scope.BatchID,
		FromDate: scope.FromDate,
		ToDate:   scope.ToDate,
	})
	if err != nil {
		return nil, fmt.Errorf("sum ledger depletion: %w", err)
	}

	syncPct := 100.0
	if reported.IsPositive() {
		ratio, _ := depleted.Div(reported).Float64()
		syncPct = ratio * 100
	}

	report := &Report{
		Scope:          scope,
		ReportedTotal:  reported,
		LedgerDepleted: depleted,
		SyncPct:        syncPct,
		Status:         classifySync(syncPct),
		Discrepancy:    reported.Sub(depleted),
		EvaluatedAt:    time.Now().UTC(),
	}

	if report.Status != SyncGood && scope.ItemID != nil {
		severity := SeverityHigh
		if report.Status == SyncCritical {
			severity = SeverityCritical
		}
		msg := fmt.Sprintf("ledger depletion covers %.1f%% of reported consumption", syncPct)
		alert, err := s.raise(ctx, scope.FarmerID, *scope.ItemID, AlertSyncDrift, severity, msg)
		if err != nil {
			return nil, err
		}
		report.Alerts = append(report.Alerts, alert)
	}

	logger.Info(ctx, "reconciliation complete",
		"farmer_id", scope.FarmerID,
		"reported", reported,
		"depleted", depleted,
		"sync_pct", syncPct,
		"status", report.Status,
	)
	return report, nil
}

// EvaluateAlerts derives the item's stock-health conditions and returns the
// matching open alerts. Idempotent: a condition whose unresolved alert
// already exists returns that alert rather than a duplicate, so two calls
// on an unchanged item yield the same open set.
func (s *Service) EvaluateAlerts(ctx context.Context, farmerID, itemID id.ID) ([]*Alert, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.FarmerID != farmerID {
		return nil, apperror.NewNotFound("stock item", itemID)
	}
	return s.evaluateItem(ctx, it)
}

// EvaluateFarmAlerts sweeps every item the farmer owns.
func (s *Service) EvaluateFarmAlerts(ctx context.Context, farmerID id.ID) ([]*Alert, error) {
	items, err := s.items.List(ctx, item.ListFilter{FarmerID: farmerID})
	if err != nil {
		return nil, err
	}

	var raised []*Alert
	for _, it := range items {
		alerts, err := s.evaluateItem(ctx, it)
		if err != nil {
			return nil, err
		}
		raised = append(raised, alerts...)
	}
	return raised, nil
}

func (s *Service) evaluateItem(ctx context.Context, it *item.StockItem) ([]*Alert, error) {
	now := time.Now().UTC()
	var raised []*Alert

	type condition struct {
		kind     AlertKind
		severity Severity
		message  string
	}
	var conditions []condition

	if it.Quantity.IsZero() {
		conditions = append(conditions, condition{
			AlertOutOfStock, SeverityCritical,
			fmt.Sprintf("%s is out of stock", it.Name),
		})
	}

	switch it.EvaluateStatus(now) {
	case item.StatusExpired:
		conditions = append(conditions, condition{
			AlertExpired, SeverityCritical,
			fmt.Sprintf("%s has expired", it.Name),
		})
	case item.StatusNearExpiry:
		days, _ := it.DaysToExpiry(now)
		conditions = append(conditions, condition{
			AlertNearExpiry, SeverityMedium,
			fmt.Sprintf("%s expires in %d days", it.Name, days),
		})
	case item.StatusReorderRequired:
		conditions = append(conditions, condition{
			AlertReorderRequired, SeverityHigh,
			fmt.Sprintf("%s is at or below its reorder point (%s %s left)", it.Name, it.Quantity, it.Unit),
		})
	case item.StatusLowStock:
		conditions = append(conditions, condition{
			AlertLowStock, SeverityMedium,
			fmt.Sprintf("%s is running low (%s %s left)", it.Name, it.Quantity, it.Unit),
		})
	}

	if cond, ok := s.highConsumptionCondition(ctx, it); ok {
		conditions = append(conditions, condition{
			AlertHighConsumption, SeverityHigh, cond,
		})
	}

	for _, c := range conditions {
		alert, err := s.raise(ctx, it.FarmerID, it.ID, c.kind, c.severity, c.message)
		if err != nil {
			return nil, err
		}
		raised = append(raised, alert)
	}
	return raised, nil
}

// highConsumptionCondition checks whether the observed average daily usage
// exceeds the item's planned daily consumption rate by more than the factor.
func (s *Service) highConsumptionCondition(ctx context.Context, it *item.StockItem) (string, bool) {
	if it.DailyConsumptionRate == nil || !it.DailyConsumptionRate.IsPositive() {
		return "", false
	}

	scope := consumption.Scope{ItemID: &it.ID, FarmerID: &it.FarmerID}
	total, err := s.consumption.SumQuantity(ctx, scope)
	if err != nil || !total.IsPositive() {
		return "", false
	}
	days, err := s.consumption.CountDays(ctx, scope)
	if err != nil || days == 0 {
		return "", false
	}

	avgDaily, _ := total.Div(types.NewFromFloat(float64(days))).Float64()
	planned, _ := it.DailyConsumptionRate.Float64()
	if avgDaily <= planned*highConsumptionFactor {
		return "", false
	}
	return fmt.Sprintf("%s usage averages %.2f %s/day against a planned %.2f", it.Name, avgDaily, it.Unit, planned), true
}

// raise inserts an alert unless an unresolved one of the same kind already
// exists for the item, in which case the open alert is returned instead of
// a duplicate.
func (s *Service) raise(ctx context.Context, farmerID, itemID id.ID, kind AlertKind, severity Severity, message string) (*Alert, error) {
	existing, err := s.alerts.FindUnresolved(ctx, itemID, kind)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	alert := &Alert{
		ID:        id.New(),
		ItemID:    itemID,
		FarmerID:  farmerID,
		Kind:      kind,
		Severity:  severity,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.alerts.Insert(ctx, alert); err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}

	logger.Info(ctx, "alert raised",
		"alert_id", alert.ID,
		"item_id", itemID,
		"kind", kind,
		"severity", severity,
	)
	return alert, nil
}

// ListAlerts returns alerts for the farmer.
func (s *Service) ListAlerts(ctx context.Context, farmerID id.ID, filter AlertFilter) ([]*Alert, error) {
	return s.alerts.List(ctx, farmerID, filter)
}

// ResolveAlert marks an alert resolved. Resolving an already-resolved alert
// returns a Conflict error.
func (s *Service) ResolveAlert(ctx context.Context, farmerID, alertID, resolvedBy id.ID, resolution string) (*Alert, error) {
	alert, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.FarmerID != farmerID {
		return nil, apperror.NewNotFound("alert", alertID)
	}
	if alert.Resolved {
		return nil, apperror.NewConflict("alert is already resolved")
	}

	now := time.Now().UTC()
	alert.Resolved = true
	alert.ResolvedAt = &now
	alert.ResolvedBy = &resolvedBy
	if resolution != "" {
		alert.Resolution = &resolution
	}

	if err := s.alerts.Update(ctx, alert); err != nil {
		return nil, fmt.Errorf("update alert: %w", err)
	}

	if s.audit != nil {
		if auditErr := s.audit.RecordAlertResolution(ctx, alert); auditErr != nil {
			logger.Warn(ctx, "audit record failed", "alert_id", alert.ID, "error", auditErr)
		}
	}

	logger.Info(ctx, "alert resolved", "alert_id", alert.ID, "resolved_by", resolvedBy)
	return alert, nil
}
