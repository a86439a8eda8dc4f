// Package policy computes (s,S) reorder parameters from demand statistics
// using the classic EOQ / safety stock model.
package policy

import (
	"context"
	"math"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/pkg/logger"
)

// Input holds the demand and cost parameters for one item. Unit cost comes
// from the item itself, not from the caller.
type Input struct {
	DemandMean      float64 `json:"demandMean"`      // units per day
	DemandStdDev    float64 `json:"demandStdDev"`    // units per day
	LeadTimeDays    float64 `json:"leadTimeDays"`    // days
	OrderingCost    float64 `json:"orderingCost"`    // per order
	HoldingCostRate float64 `json:"holdingCostRate"` // fraction of unit cost per year
	ServiceLevelPct float64 `json:"serviceLevelPct"` // percentage, e.g. 95
}

// Result is the computed policy plus a cost comparison against the item's
// current stock position.
//
// The cost figures are a rough single-period approximation, not a fitted
// cost model: each one charges the ordering cost once when the stock level
// sits at or below its reorder threshold, plus one day of holding cost on
// the level itself. They are meant to rank the current position against
// the proposed policy, not to forecast spend.
type Result struct {
	ReorderPoint    float64 `json:"reorderPoint"`   // s
	OrderUpToLevel  float64 `json:"orderUpToLevel"` // S
	OrderQuantity   float64 `json:"orderQuantity"`  // Q*
	SafetyStock     float64 `json:"safetyStock"`
	ServiceLevelPct float64 `json:"serviceLevelPct"`

	CurrentPolicyCost float64 `json:"currentPolicyCost"`
	OptimalPolicyCost float64 `json:"optimalPolicyCost"`
	Savings           float64 `json:"savings"`
	SavingsPct        float64 `json:"savingsPct"`
}

// Optimizer computes and persists reorder policies.
type Optimizer struct {
	items item.Repository
}

func NewOptimizer(items item.Repository) *Optimizer {
	return &Optimizer{items: items}
}

// Compute derives the (s,S) policy from the input without touching storage.
// The cost comparison fields are left zero; Optimize fills them from the
// item's stock position.
func Compute(in Input, unitCost float64) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	// EOQ on daily demand against the daily holding cost. Zero demand,
	// ordering cost, or unit cost collapses the square root term to zero
	// rather than dividing by zero.
	var eoq float64
	dailyHolding := unitCost * in.HoldingCostRate / 365.0
	if in.DemandMean > 0 && in.OrderingCost > 0 && dailyHolding > 0 {
		eoq = math.Sqrt(2 * in.OrderingCost * in.DemandMean / dailyHolding)
	}

	z := normInv(in.ServiceLevelPct / 100.0)
	safetyStock := z * in.DemandStdDev * math.Sqrt(in.LeadTimeDays)
	if safetyStock < 0 {
		safetyStock = 0
	}

	reorderPoint := in.DemandMean*in.LeadTimeDays + safetyStock
	orderUpTo := reorderPoint + eoq

	return Result{
		ReorderPoint:    round2(reorderPoint),
		OrderUpToLevel:  round2(orderUpTo),
		OrderQuantity:   round2(eoq),
		SafetyStock:     round2(safetyStock),
		ServiceLevelPct: in.ServiceLevelPct,
	}, nil
}

// Optimize computes the policy for an item, compares the single-period cost
// of the item's current position against the proposed policy, and persists
// the new policy under optimistic versioning.
func (o *Optimizer) Optimize(ctx context.Context, farmerID, itemID id.ID, in Input) (*Result, error) {
	it, err := o.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.FarmerID != farmerID {
		return nil, apperror.NewNotFound("stock item", itemID)
	}

	unitCost, _ := it.CostPerUnit.Float64()
	result, err := Compute(in, unitCost)
	if err != nil {
		return nil, err
	}

	dailyRate := in.HoldingCostRate / 365.0
	quantity, _ := it.Quantity.Float64()
	reorderLevel, _ := it.ReorderLevel.Float64()

	result.CurrentPolicyCost = round2(policyCost(quantity, reorderLevel, in.OrderingCost, unitCost, dailyRate))
	result.OptimalPolicyCost = round2(policyCost(result.OrderUpToLevel, result.ReorderPoint, in.OrderingCost, unitCost, dailyRate))
	result.Savings = round2(result.CurrentPolicyCost - result.OptimalPolicyCost)
	if result.CurrentPolicyCost > 0 {
		result.SavingsPct = round2(result.Savings / result.CurrentPolicyCost * 100)
	}

	update := item.PolicyUpdate{
		ReorderPoint:       types.NewFromFloat(result.ReorderPoint),
		OrderUpToLevel:     types.NewFromFloat(result.OrderUpToLevel),
		SafetyStock:        types.NewFromFloat(result.SafetyStock),
		LeadTimeDays:       int(math.Ceil(in.LeadTimeDays)),
		ServiceLevelTarget: types.NewFromFloat(in.ServiceLevelPct),
	}
	if err := o.items.UpdatePolicy(ctx, it.ID, it.Version, update); err != nil {
		return nil, err
	}

	logger.Info(ctx, "reorder policy optimized",
		"item_id", it.ID,
		"reorder_point", result.ReorderPoint,
		"order_up_to", result.OrderUpToLevel,
		"savings", result.Savings,
	)
	return &result, nil
}

// policyCost is the single-period approximation behind the Result cost
// fields: one ordering cost when stock sits at or below the reorder
// threshold, plus one day of holding cost on the stock level.
func policyCost(stock, reorder, orderingCost, unitCost, dailyRate float64) float64 {
	cost := stock * unitCost * dailyRate
	if stock <= reorder {
		cost += orderingCost
	}
	return cost
}

func validate(in Input) error {
	switch {
	case in.DemandMean < 0:
		return apperror.NewInvalidParameters("demand mean cannot be negative")
	case in.DemandStdDev < 0:
		return apperror.NewInvalidParameters("demand standard deviation cannot be negative")
	case in.LeadTimeDays < 0:
		return apperror.NewInvalidParameters("lead time cannot be negative")
	case in.OrderingCost < 0:
		return apperror.NewInvalidParameters("ordering cost cannot be negative")
	case in.HoldingCostRate <= 0:
		return apperror.NewInvalidParameters("holding cost rate must be positive")
	case in.ServiceLevelPct <= 0 || in.ServiceLevelPct >= 100:
		return apperror.NewInvalidParameters("service level must be in (0, 100)")
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
