package consumption_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/batchdir"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/consumption"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/memory"
)

type fixture struct {
	items      *memory.ItemRepository
	records    *memory.ConsumptionRepository
	ledgerRepo *memory.LedgerRepository
	service    *consumption.Service

	farmerID id.ID
	batch    *batchdir.BatchInfo
	item     *item.StockItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	farmerID := id.New()

	items := memory.NewItemRepository()
	it := item.New(farmerID, "Broiler Starter Feed", item.CategoryFeed, "kg")
	it.Quantity = types.MustDecimal("500")
	it.CostPerUnit = types.MustDecimal("2.50")
	require.NoError(t, items.Create(ctx, it))

	batches := memory.NewBatchDirectory()
	batch := &batchdir.BatchInfo{
		ID:             id.New(),
		FarmID:         id.New(),
		FarmerID:       farmerID,
		Breed:          "Ross 308",
		Quantity:       1000,
		MortalityCount: 40,
	}
	batches.Put(batch)

	ledgerRepo := memory.NewLedgerRepository()
	ledgerSvc := ledger.NewService(ledgerRepo, items, memory.NewTxManager(), nil)

	records := memory.NewConsumptionRepository()
	return &fixture{
		items:      items,
		records:    records,
		ledgerRepo: ledgerRepo,
		service:    consumption.NewService(records, items, ledgerSvc, batches, memory.NewTxManager()),
		farmerID:   farmerID,
		batch:      batch,
		item:       it,
	}
}

func TestRecordUsage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	consumedOn := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	rec, err := f.service.RecordUsage(ctx, f.farmerID, consumption.RecordInput{
		BatchID:      f.batch.ID,
		ItemID:       f.item.ID,
		QuantityUsed: types.MustDecimal("25"),
		ConsumedOn:   consumedOn,
	})
	require.NoError(t, err)

	assert.Equal(t, f.batch.ID, rec.BatchID)
	assert.Equal(t, 960, rec.BirdCount, "live birds minus mortality")
	assert.Nil(t, rec.TransactionID, "no ledger link without depletion")
	assert.True(t, rec.PerBird().Equal(types.MustDecimal("25").Div(types.MustDecimal("960"))))

	// The item's cost per unit is snapshotted onto the record.
	require.NotNil(t, rec.UnitCost)
	assert.True(t, rec.UnitCost.Equal(types.MustDecimal("2.50")))
	require.NotNil(t, rec.TotalCost)
	assert.True(t, rec.TotalCost.Equal(types.MustDecimal("62.5")))

	// Stock untouched.
	stored, err := f.items.GetByID(ctx, f.item.ID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.Equal(types.MustDecimal("500")))
}

func TestRecordUsage_DepletesLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec, err := f.service.RecordUsage(ctx, f.farmerID, consumption.RecordInput{
		BatchID:       f.batch.ID,
		ItemID:        f.item.ID,
		QuantityUsed:  types.MustDecimal("30"),
		DepleteLedger: true,
	})
	require.NoError(t, err)
	require.NotNil(t, rec.TransactionID)

	tx, err := f.ledgerRepo.GetByID(ctx, *rec.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, ledger.KindUsage, tx.Kind)
	require.NotNil(t, tx.BatchID)
	assert.Equal(t, f.batch.ID, *tx.BatchID)

	stored, err := f.items.GetByID(ctx, f.item.ID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.Equal(types.MustDecimal("470")))
}

func TestRecordUsage_InsufficientStockAborts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.RecordUsage(ctx, f.farmerID, consumption.RecordInput{
		BatchID:       f.batch.ID,
		ItemID:        f.item.ID,
		QuantityUsed:  types.MustDecimal("600"),
		DepleteLedger: true,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Neither the record nor any stock change survives the failed append.
	history, err := f.service.ListByBatch(ctx, f.farmerID, f.batch.ID, consumption.Filter{})
	require.NoError(t, err)
	assert.Empty(t, history)

	stored, err := f.items.GetByID(ctx, f.item.ID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.Equal(types.MustDecimal("500")))
}

func TestRecordUsage_UnitCostOverride(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	override := types.MustDecimal("3.10")
	rec, err := f.service.RecordUsage(ctx, f.farmerID, consumption.RecordInput{
		BatchID:          f.batch.ID,
		ItemID:           f.item.ID,
		QuantityUsed:     types.MustDecimal("10"),
		UnitCostOverride: &override,
		DepleteLedger:    true,
	})
	require.NoError(t, err)

	require.NotNil(t, rec.UnitCost)
	assert.True(t, rec.UnitCost.Equal(override), "override wins over the item cost")
	require.NotNil(t, rec.TotalCost)
	assert.True(t, rec.TotalCost.Equal(types.MustDecimal("31")))

	// The depletion transaction carries the same cost.
	require.NotNil(t, rec.TransactionID)
	tx, err := f.ledgerRepo.GetByID(ctx, *rec.TransactionID)
	require.NoError(t, err)
	require.NotNil(t, tx.UnitCost)
	assert.True(t, tx.UnitCost.Equal(override))
}

func TestRecordUsage_NoCostWhenUnknown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	free := item.New(f.farmerID, "Donated Vitamins", item.CategoryMedicine, "ml")
	free.Quantity = types.MustDecimal("100")
	require.NoError(t, f.items.Create(ctx, free))

	rec, err := f.service.RecordUsage(ctx, f.farmerID, consumption.RecordInput{
		BatchID:      f.batch.ID,
		ItemID:       free.ID,
		QuantityUsed: types.MustDecimal("5"),
	})
	require.NoError(t, err)
	assert.Nil(t, rec.UnitCost)
	assert.Nil(t, rec.TotalCost)
}

func TestRecordUsage_NegativeOverride(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	override := types.MustDecimal("-1")
	_, err := f.service.RecordUsage(ctx, f.farmerID, consumption.RecordInput{
		BatchID:          f.batch.ID,
		ItemID:           f.item.ID,
		QuantityUsed:     types.MustDecimal("10"),
		UnitCostOverride: &override,
	})
	require.Error(t, err)
}

func TestRecordUsage_ForeignItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	foreign := item.New(id.New(), "Grower Mash", item.CategoryFeed, "kg")
	foreign.Quantity = types.MustDecimal("100")
	require.NoError(t, f.items.Create(ctx, foreign))

	_, err := f.service.RecordUsage(ctx, f.farmerID, consumption.RecordInput{
		BatchID:      f.batch.ID,
		ItemID:       foreign.ID,
		QuantityUsed: types.MustDecimal("10"),
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordUsage_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, qty := range []string{"0", "-5"} {
		_, err := f.service.RecordUsage(ctx, f.farmerID, consumption.RecordInput{
			BatchID:      f.batch.ID,
			ItemID:       f.item.ID,
			QuantityUsed: types.MustDecimal(qty),
		})
		require.Error(t, err, "quantity %s", qty)
	}
}

func TestRecordUsage_OwnershipBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name     string
		farmerID id.ID
		batchID  id.ID
	}{
		{"unknown batch", f.farmerID, id.New()},
		{"foreign farmer", id.New(), f.batch.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RecordUsage(ctx, tt.farmerID, consumption.RecordInput{
				BatchID:      tt.batchID,
				ItemID:       f.item.ID,
				QuantityUsed: types.MustDecimal("10"),
			})
			assert.True(t, apperror.IsNotFound(err))
		})
	}
}

func TestTotalConsumed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	days := []time.Time{
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
	}
	for _, day := range days {
		_, err := f.service.RecordUsage(ctx, f.farmerID, consumption.RecordInput{
			BatchID:      f.batch.ID,
			ItemID:       f.item.ID,
			QuantityUsed: types.MustDecimal("20"),
			ConsumedOn:   day,
		})
		require.NoError(t, err)
	}

	total, err := f.service.TotalConsumed(ctx, f.farmerID, f.batch.ID, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(types.MustDecimal("60")))

	// Window narrows the sum.
	from := days[1]
	total, err = f.service.TotalConsumed(ctx, f.farmerID, f.batch.ID, &f.item.ID, &from, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(types.MustDecimal("40")))

	// Foreign farmer sees nothing.
	_, err = f.service.TotalConsumed(ctx, id.New(), f.batch.ID, nil, nil, nil)
	assert.True(t, apperror.IsNotFound(err))
}
