package item

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
)

func testItem() *StockItem {
	return New(id.New(), "Layer Mash", CategoryFeed, "kg")
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid item passes", func(t *testing.T) {
		require.NoError(t, testItem().Validate(ctx))
	})

	tests := []struct {
		name   string
		mutate func(*StockItem)
	}{
		{"empty name", func(s *StockItem) { s.Name = "" }},
		{"unknown category", func(s *StockItem) { s.Category = "FURNITURE" }},
		{"empty unit", func(s *StockItem) { s.Unit = "" }},
		{"negative quantity", func(s *StockItem) { s.Quantity = types.MustDecimal("-1") }},
		{"negative cost", func(s *StockItem) { s.CostPerUnit = types.MustDecimal("-0.5") }},
		{"unknown quality grade", func(s *StockItem) { s.QualityGrade = "LUXURY" }},
		{"missing farmer", func(s *StockItem) { s.FarmerID = id.Nil() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := testItem()
			tt.mutate(it)
			assert.Error(t, it.Validate(ctx))
		})
	}
}

func TestShouldReorder(t *testing.T) {
	it := testItem()
	it.ReorderLevel = types.MustDecimal("10")

	it.Quantity = types.MustDecimal("8")
	assert.True(t, it.ShouldReorder())

	it.Quantity = types.MustDecimal("11")
	assert.False(t, it.ShouldReorder())

	// Computed reorder point takes precedence over the legacy level.
	rp := types.MustDecimal("25")
	it.ReorderPoint = &rp
	it.Quantity = types.MustDecimal("20")
	assert.True(t, it.ShouldReorder())
	it.Quantity = types.MustDecimal("30")
	assert.False(t, it.ShouldReorder())
}

func TestEvaluateStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	soon := now.AddDate(0, 0, 14)
	far := now.AddDate(0, 0, 90)

	tests := []struct {
		name   string
		mutate func(*StockItem)
		want   Status
	}{
		{
			"expired wins over everything",
			func(s *StockItem) {
				s.ExpiryDate = &past
				s.Quantity = types.MustDecimal("5")
			},
			StatusExpired,
		},
		{
			"near expiry before reorder",
			func(s *StockItem) {
				s.ExpiryDate = &soon
				s.Quantity = types.MustDecimal("5")
			},
			StatusNearExpiry,
		},
		{
			"reorder required at legacy level",
			func(s *StockItem) {
				s.ReorderLevel = types.MustDecimal("10")
				s.Quantity = types.MustDecimal("8")
			},
			StatusReorderRequired,
		},
		{
			"low stock between policy point and legacy level",
			func(s *StockItem) {
				rp := types.MustDecimal("5")
				s.ReorderPoint = &rp
				s.ReorderLevel = types.MustDecimal("10")
				s.Quantity = types.MustDecimal("8")
			},
			StatusLowStock,
		},
		{
			"adequate with far expiry",
			func(s *StockItem) {
				s.ExpiryDate = &far
				s.Quantity = types.MustDecimal("100")
			},
			StatusAdequate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := testItem()
			tt.mutate(it)
			assert.Equal(t, tt.want, it.EvaluateStatus(now))
		})
	}
}

func TestDaysToExpiry(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	it := testItem()
	_, ok := it.DaysToExpiry(now)
	assert.False(t, ok)

	expiry := time.Date(2026, 3, 17, 23, 0, 0, 0, time.UTC)
	it.ExpiryDate = &expiry

	days, ok := it.DaysToExpiry(now)
	require.True(t, ok)
	assert.Equal(t, 7, days)

	assert.True(t, it.IsNearExpiry(now, 7))
	assert.False(t, it.IsNearExpiry(now, 6))
	assert.False(t, it.IsExpired(now))
	assert.True(t, it.IsExpired(now.AddDate(0, 0, 8)))
}

func TestSuggestedOrderQuantity(t *testing.T) {
	it := testItem()
	it.Quantity = types.MustDecimal("40")

	_, ok := it.SuggestedOrderQuantity()
	assert.False(t, ok)

	s := types.MustDecimal("150")
	it.OrderUpToLevel = &s
	gap, ok := it.SuggestedOrderQuantity()
	require.True(t, ok)
	assert.True(t, gap.Equal(types.MustDecimal("110")))
}

func TestValuation(t *testing.T) {
	it := testItem()
	it.Quantity = types.MustDecimal("20")
	it.CostPerUnit = types.MustDecimal("3")

	assert.True(t, it.TotalCost().Equal(types.MustDecimal("60")))
	assert.True(t, it.MarketValue().Equal(types.MustDecimal("60")), "falls back to cost")

	market := types.MustDecimal("4.5")
	it.MarketPricePerUnit = &market
	assert.True(t, it.MarketValue().Equal(types.MustDecimal("90")))

	assert.Equal(t, 1.0, it.QualityFactor())
	it.QualityGrade = QualityPremium
	assert.Equal(t, 1.1, it.QualityFactor())
	it.QualityGrade = QualityEconomy
	assert.Equal(t, 0.9, it.QualityFactor())
}

func TestShelfLifeRemainingPct(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	manufactured := now.AddDate(0, 0, -30)
	shelfLife := 120

	it := testItem()
	_, ok := it.ShelfLifeRemainingPct(now)
	assert.False(t, ok)

	it.ManufactureDate = &manufactured
	it.ShelfLifeDays = &shelfLife

	pct, ok := it.ShelfLifeRemainingPct(now)
	require.True(t, ok)
	assert.InDelta(t, 75.0, pct, 0.01)

	// Past the full shelf life the percentage clamps at zero.
	pct, ok = it.ShelfLifeRemainingPct(now.AddDate(0, 0, 200))
	require.True(t, ok)
	assert.Equal(t, 0.0, pct)
}
