package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/consumption"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/reconcile"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/memory"
)

type fixture struct {
	alerts       *memory.AlertRepository
	items        *memory.ItemRepository
	consumptions *memory.ConsumptionRepository
	ledgerRepo   *memory.LedgerRepository
	service      *reconcile.Service

	farmerID id.ID
	batchID  id.ID
	item     *item.StockItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		alerts:       memory.NewAlertRepository(),
		items:        memory.NewItemRepository(),
		consumptions: memory.NewConsumptionRepository(),
		ledgerRepo:   memory.NewLedgerRepository(),
		farmerID:     id.New(),
		batchID:      id.New(),
	}
	f.service = reconcile.NewService(f.alerts, f.items, f.consumptions, f.ledgerRepo, nil)

	it := item.New(f.farmerID, "Broiler Starter Feed", item.CategoryFeed, "kg")
	it.Quantity = types.MustDecimal("200")
	require.NoError(t, f.items.Create(ctx, it))
	f.item = it
	return f
}

func (f *fixture) reportConsumption(t *testing.T, quantity string, day time.Time) {
	t.Helper()
	err := f.consumptions.Insert(context.Background(), &consumption.Record{
		ID:           id.New(),
		BatchID:      f.batchID,
		ItemID:       f.item.ID,
		FarmerID:     f.farmerID,
		QuantityUsed: types.MustDecimal(quantity),
		BirdCount:    500,
		ConsumedOn:   day,
		CreatedAt:    day,
	})
	require.NoError(t, err)
}

func (f *fixture) depleteLedger(t *testing.T, quantity string, day time.Time) {
	t.Helper()
	err := f.ledgerRepo.Insert(context.Background(), &ledger.Transaction{
		ID:              id.New(),
		FarmerID:        f.farmerID,
		ItemID:          f.item.ID,
		BatchID:         &f.batchID,
		Kind:            ledger.KindUsage,
		QuantityChange:  types.MustDecimal(quantity).Neg(),
		TransactionDate: day,
		CreatedAt:       day,
	})
	require.NoError(t, err)
}

func TestReconcile_Drift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	f.reportConsumption(t, "60", day)
	f.reportConsumption(t, "40", day.AddDate(0, 0, 1))
	f.depleteLedger(t, "70", day)

	report, err := f.service.Reconcile(ctx, reconcile.Scope{
		FarmerID: f.farmerID,
		ItemID:   &f.item.ID,
	})
	require.NoError(t, err)

	assert.True(t, report.ReportedTotal.Equal(types.MustDecimal("100")))
	assert.True(t, report.LedgerDepleted.Equal(types.MustDecimal("70")))
	assert.InDelta(t, 70.0, report.SyncPct, 0.001)
	assert.Equal(t, reconcile.SyncCritical, report.Status)
	assert.True(t, report.Discrepancy.Equal(types.MustDecimal("30")))

	require.Len(t, report.Alerts, 1)
	alert := report.Alerts[0]
	assert.Equal(t, reconcile.AlertSyncDrift, alert.Kind)
	assert.Equal(t, reconcile.SeverityCritical, alert.Severity)
	assert.Equal(t, f.item.ID, alert.ItemID)
}

func TestReconcile_SyncBands(t *testing.T) {
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		depleted string
		want     reconcile.SyncStatus
		severity reconcile.Severity
	}{
		{"good at 96%", "96", reconcile.SyncGood, ""},
		{"poor at 85%", "85", reconcile.SyncPoor, reconcile.SeverityHigh},
		{"critical below 80%", "50", reconcile.SyncCritical, reconcile.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.reportConsumption(t, "100", day)
			f.depleteLedger(t, tt.depleted, day)

			report, err := f.service.Reconcile(context.Background(), reconcile.Scope{
				FarmerID: f.farmerID,
				ItemID:   &f.item.ID,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Status)

			if tt.want == reconcile.SyncGood {
				assert.Empty(t, report.Alerts)
			} else {
				require.Len(t, report.Alerts, 1)
				assert.Equal(t, tt.severity, report.Alerts[0].Severity)
			}
		})
	}
}

func TestReconcile_NoConsumptionIsGood(t *testing.T) {
	f := newFixture(t)

	report, err := f.service.Reconcile(context.Background(), reconcile.Scope{
		FarmerID: f.farmerID,
		ItemID:   &f.item.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.SyncPct)
	assert.Equal(t, reconcile.SyncGood, report.Status)
	assert.Empty(t, report.Alerts)
}

func TestReconcile_NoAlertWithoutItemScope(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	f.reportConsumption(t, "100", day)

	report, err := f.service.Reconcile(context.Background(), reconcile.Scope{
		FarmerID: f.farmerID,
		BatchID:  &f.batchID,
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.SyncCritical, report.Status)
	assert.Empty(t, report.Alerts, "farm-wide drift stays advisory")
}

func TestReconcile_RequiresFarmer(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Reconcile(context.Background(), reconcile.Scope{})
	require.Error(t, err)
}

func TestReconcile_IgnoresOtherFarmersLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	f.reportConsumption(t, "100", day)

	// A neighbouring farm's usage of its own feed must not pad this
	// farmer's depletion total.
	err := f.ledgerRepo.Insert(ctx, &ledger.Transaction{
		ID:              id.New(),
		FarmerID:        id.New(),
		ItemID:          f.item.ID,
		BatchID:         &f.batchID,
		Kind:            ledger.KindUsage,
		QuantityChange:  types.MustDecimal("95").Neg(),
		TransactionDate: day,
		CreatedAt:       day,
	})
	require.NoError(t, err)

	// Farm-wide and item-scoped runs both stay inside the farmer's rows.
	for _, scope := range []reconcile.Scope{
		{FarmerID: f.farmerID},
		{FarmerID: f.farmerID, ItemID: &f.item.ID},
	} {
		report, err := f.service.Reconcile(ctx, scope)
		require.NoError(t, err)
		assert.True(t, report.LedgerDepleted.IsZero())
		assert.InDelta(t, 0.0, report.SyncPct, 0.001)
		assert.Equal(t, reconcile.SyncCritical, report.Status)
	}
}

func TestReconcile_ForeignItemScope(t *testing.T) {
	f := newFixture(t)

	other := item.New(id.New(), "Grower Mash", item.CategoryFeed, "kg")
	require.NoError(t, f.items.Create(context.Background(), other))

	_, err := f.service.Reconcile(context.Background(), reconcile.Scope{
		FarmerID: f.farmerID,
		ItemID:   &other.ID,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReconcile_AlertIdempotency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	f.reportConsumption(t, "100", day)
	f.depleteLedger(t, "50", day)
	scope := reconcile.Scope{FarmerID: f.farmerID, ItemID: &f.item.ID}

	first, err := f.service.Reconcile(ctx, scope)
	require.NoError(t, err)
	require.Len(t, first.Alerts, 1)

	second, err := f.service.Reconcile(ctx, scope)
	require.NoError(t, err)
	require.Len(t, second.Alerts, 1)
	assert.Equal(t, first.Alerts[0].ID, second.Alerts[0].ID, "open alert returned, not duplicated")

	open, err := f.service.ListAlerts(ctx, f.farmerID, reconcile.AlertFilter{})
	require.NoError(t, err)
	assert.Len(t, open, 1)

	// Resolution re-arms the alert.
	_, err = f.service.ResolveAlert(ctx, f.farmerID, first.Alerts[0].ID, id.New(), "stock counted")
	require.NoError(t, err)

	third, err := f.service.Reconcile(ctx, scope)
	require.NoError(t, err)
	require.Len(t, third.Alerts, 1)
	assert.NotEqual(t, first.Alerts[0].ID, third.Alerts[0].ID)
}

func TestEvaluateAlerts_Conditions(t *testing.T) {
	ctx := context.Background()
	past := time.Now().UTC().AddDate(0, 0, -1)
	soon := time.Now().UTC().AddDate(0, 0, 10)

	tests := []struct {
		name   string
		mutate func(*item.StockItem)
		want   map[reconcile.AlertKind]reconcile.Severity
	}{
		{
			"out of stock also trips reorder",
			func(it *item.StockItem) { it.Quantity = types.Zero() },
			map[reconcile.AlertKind]reconcile.Severity{
				reconcile.AlertOutOfStock:      reconcile.SeverityCritical,
				reconcile.AlertReorderRequired: reconcile.SeverityHigh,
			},
		},
		{
			"expired",
			func(it *item.StockItem) { it.ExpiryDate = &past },
			map[reconcile.AlertKind]reconcile.Severity{
				reconcile.AlertExpired: reconcile.SeverityCritical,
			},
		},
		{
			"near expiry",
			func(it *item.StockItem) { it.ExpiryDate = &soon },
			map[reconcile.AlertKind]reconcile.Severity{
				reconcile.AlertNearExpiry: reconcile.SeverityMedium,
			},
		},
		{
			"reorder required",
			func(it *item.StockItem) { it.Quantity = types.MustDecimal("8") },
			map[reconcile.AlertKind]reconcile.Severity{
				reconcile.AlertReorderRequired: reconcile.SeverityHigh,
			},
		},
		{
			"low stock above policy point",
			func(it *item.StockItem) {
				rp := types.MustDecimal("5")
				it.ReorderPoint = &rp
				it.Quantity = types.MustDecimal("8")
			},
			map[reconcile.AlertKind]reconcile.Severity{
				reconcile.AlertLowStock: reconcile.SeverityMedium,
			},
		},
		{
			"adequate raises nothing",
			func(it *item.StockItem) {},
			map[reconcile.AlertKind]reconcile.Severity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			it := item.New(f.farmerID, "Layer Mash", item.CategoryFeed, "kg")
			it.Quantity = types.MustDecimal("200")
			tt.mutate(it)
			require.NoError(t, f.items.Create(ctx, it))

			raised, err := f.service.EvaluateAlerts(ctx, f.farmerID, it.ID)
			require.NoError(t, err)
			require.Len(t, raised, len(tt.want))
			for _, alert := range raised {
				severity, ok := tt.want[alert.Kind]
				require.True(t, ok, "unexpected alert kind %s", alert.Kind)
				assert.Equal(t, severity, alert.Severity)
			}
		})
	}
}

func TestEvaluateAlerts_HighConsumption(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rate := types.MustDecimal("10")
	it := item.New(f.farmerID, "Broiler Starter Feed", item.CategoryFeed, "kg")
	it.Quantity = types.MustDecimal("200")
	it.DailyConsumptionRate = &rate
	require.NoError(t, f.items.Create(ctx, it))
	f.item = it

	// 20/day observed against a planned 10/day exceeds the 1.5x band.
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	f.reportConsumption(t, "20", day)
	f.reportConsumption(t, "20", day.AddDate(0, 0, 1))

	raised, err := f.service.EvaluateAlerts(ctx, f.farmerID, f.item.ID)
	require.NoError(t, err)
	require.Len(t, raised, 1)
	assert.Equal(t, reconcile.AlertHighConsumption, raised[0].Kind)
	assert.Equal(t, reconcile.SeverityHigh, raised[0].Severity)
}

func TestEvaluateAlerts_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	it := item.New(f.farmerID, "Layer Mash", item.CategoryFeed, "kg")
	it.Quantity = types.MustDecimal("4")
	require.NoError(t, f.items.Create(ctx, it))

	first, err := f.service.EvaluateAlerts(ctx, f.farmerID, it.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.service.EvaluateAlerts(ctx, f.farmerID, it.ID)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)

	open, err := f.service.ListAlerts(ctx, f.farmerID, reconcile.AlertFilter{ItemID: &it.ID})
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestEvaluateAlerts_OwnershipBoundary(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.EvaluateAlerts(context.Background(), id.New(), f.item.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestEvaluateFarmAlerts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	low := item.New(f.farmerID, "Vitamin Premix", item.CategorySupplements, "kg")
	low.Quantity = types.MustDecimal("3")
	require.NoError(t, f.items.Create(ctx, low))

	raised, err := f.service.EvaluateFarmAlerts(ctx, f.farmerID)
	require.NoError(t, err)
	require.Len(t, raised, 1)
	assert.Equal(t, low.ID, raised[0].ItemID)
	assert.Equal(t, reconcile.AlertReorderRequired, raised[0].Kind)
}

func TestResolveAlert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	f.reportConsumption(t, "100", day)
	report, err := f.service.Reconcile(ctx, reconcile.Scope{FarmerID: f.farmerID, ItemID: &f.item.ID})
	require.NoError(t, err)
	require.Len(t, report.Alerts, 1)
	alertID := report.Alerts[0].ID
	resolver := id.New()

	resolved, err := f.service.ResolveAlert(ctx, f.farmerID, alertID, resolver, "recounted")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, resolver, *resolved.ResolvedBy)
	require.NotNil(t, resolved.Resolution)
	assert.Equal(t, "recounted", *resolved.Resolution)

	// Second resolution conflicts.
	_, err = f.service.ResolveAlert(ctx, f.farmerID, alertID, resolver, "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)

	// Foreign farmer cannot see the alert.
	_, err = f.service.ResolveAlert(ctx, id.New(), alertID, resolver, "")
	assert.True(t, apperror.IsNotFound(err))
}

func TestListAlerts_Filter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	f.reportConsumption(t, "100", day)
	report, err := f.service.Reconcile(ctx, reconcile.Scope{FarmerID: f.farmerID, ItemID: &f.item.ID})
	require.NoError(t, err)
	require.Len(t, report.Alerts, 1)

	unresolved := false
	alerts, err := f.service.ListAlerts(ctx, f.farmerID, reconcile.AlertFilter{Resolved: &unresolved})
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	resolvedOnly := true
	alerts, err = f.service.ListAlerts(ctx, f.farmerID, reconcile.AlertFilter{Resolved: &resolvedOnly})
	require.NoError(t, err)
	assert.Empty(t, alerts)

	alerts, err = f.service.ListAlerts(ctx, id.New(), reconcile.AlertFilter{})
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
