package policy_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/policy"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/memory"
)

func validInput() policy.Input {
	return policy.Input{
		DemandMean:      50, // per day
		DemandStdDev:    10,
		LeadTimeDays:    3,
		OrderingCost:    50,
		HoldingCostRate: 0.25,
		ServiceLevelPct: 95,
	}
}

func TestCompute(t *testing.T) {
	in := validInput()
	res, err := policy.Compute(in, 2)
	require.NoError(t, err)

	// z(0.95) ≈ 1.645, so safety stock ≈ 1.645 × 10 × √3 ≈ 28.5.
	assert.InDelta(t, 28.5, res.SafetyStock, 0.1)
	assert.InDelta(t, 178.5, res.ReorderPoint, 0.1)

	wantEOQ := math.Sqrt(2 * 50 * 50 / (2 * 0.25 / 365.0))
	assert.InDelta(t, wantEOQ, res.OrderQuantity, 0.01)
	assert.InDelta(t, res.ReorderPoint+res.OrderQuantity, res.OrderUpToLevel, 0.01)
	assert.Equal(t, 95.0, res.ServiceLevelPct)
}

func TestCompute_ZeroVariance(t *testing.T) {
	in := validInput()
	in.DemandStdDev = 0

	res, err := policy.Compute(in, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.SafetyStock)
	assert.InDelta(t, 150.0, res.ReorderPoint, 0.01, "pure lead-time demand")
}

func TestCompute_ZeroDemand(t *testing.T) {
	in := validInput()
	in.DemandMean = 0

	res, err := policy.Compute(in, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.OrderQuantity)
	assert.Equal(t, res.ReorderPoint, res.OrderUpToLevel)
}

func TestCompute_ZeroUnitCost(t *testing.T) {
	res, err := policy.Compute(validInput(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.OrderQuantity, "no EOQ without a unit cost")
	assert.Equal(t, res.ReorderPoint, res.OrderUpToLevel)
}

func TestCompute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*policy.Input)
	}{
		{"negative demand mean", func(in *policy.Input) { in.DemandMean = -1 }},
		{"negative std dev", func(in *policy.Input) { in.DemandStdDev = -1 }},
		{"negative lead time", func(in *policy.Input) { in.LeadTimeDays = -1 }},
		{"negative ordering cost", func(in *policy.Input) { in.OrderingCost = -1 }},
		{"zero holding rate", func(in *policy.Input) { in.HoldingCostRate = 0 }},
		{"service level zero", func(in *policy.Input) { in.ServiceLevelPct = 0 }},
		{"service level hundred", func(in *policy.Input) { in.ServiceLevelPct = 100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := policy.Compute(in, 2)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeInvalidParameters, appErr.Code)
		})
	}
}

func TestOptimize_PersistsPolicy(t *testing.T) {
	ctx := context.Background()
	items := memory.NewItemRepository()
	farmerID := id.New()

	it := item.New(farmerID, "Broiler Finisher Feed", item.CategoryFeed, "kg")
	it.CostPerUnit = types.MustDecimal("2")
	require.NoError(t, items.Create(ctx, it))

	opt := policy.NewOptimizer(items)
	res, err := opt.Optimize(ctx, farmerID, it.ID, validInput())
	require.NoError(t, err)

	stored, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ReorderPoint)
	require.NotNil(t, stored.OrderUpToLevel)
	require.NotNil(t, stored.SafetyStock)

	rp, _ := stored.ReorderPoint.Float64()
	assert.InDelta(t, res.ReorderPoint, rp, 0.001)
	assert.Equal(t, 3, stored.LeadTimeDays)

	require.NotNil(t, stored.ServiceLevelTarget)
	slt, _ := stored.ServiceLevelTarget.Float64()
	assert.Equal(t, 95.0, slt, "target persisted as a percentage")
}

func TestOptimize_CostComparison(t *testing.T) {
	ctx := context.Background()
	farmerID := id.New()
	dailyRate := 0.25 / 365.0

	tests := []struct {
		name        string
		quantity    string
		wantCurrent float64
	}{
		// Stock at or below the reorder level is charged one ordering
		// cost on top of its daily holding cost.
		{"restock pending", "400", 50 + 400*2*dailyRate},
		{"stock above reorder level", "600", 600 * 2 * dailyRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := memory.NewItemRepository()
			it := item.New(farmerID, "Layer Mash", item.CategoryFeed, "kg")
			it.CostPerUnit = types.MustDecimal("2")
			it.Quantity = types.MustDecimal(tt.quantity)
			it.ReorderLevel = types.MustDecimal("500")
			require.NoError(t, items.Create(ctx, it))

			opt := policy.NewOptimizer(items)
			res, err := opt.Optimize(ctx, farmerID, it.ID, validInput())
			require.NoError(t, err)

			assert.InDelta(t, tt.wantCurrent, res.CurrentPolicyCost, 0.01)

			// The proposed order-up-to level sits above its reorder
			// point, so the optimal side is pure holding cost.
			wantOptimal := res.OrderUpToLevel * 2 * dailyRate
			assert.InDelta(t, wantOptimal, res.OptimalPolicyCost, 0.01)
			assert.InDelta(t, res.CurrentPolicyCost-res.OptimalPolicyCost, res.Savings, 0.011)
		})
	}
}

func TestOptimize_OwnershipBoundary(t *testing.T) {
	ctx := context.Background()
	items := memory.NewItemRepository()

	it := item.New(id.New(), "Vitamin Premix", item.CategorySupplements, "kg")
	require.NoError(t, items.Create(ctx, it))

	opt := policy.NewOptimizer(items)
	_, err := opt.Optimize(ctx, id.New(), it.ID, validInput())
	assert.True(t, apperror.IsNotFound(err))
}
