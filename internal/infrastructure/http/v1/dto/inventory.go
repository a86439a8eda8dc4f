package dto

import (
	"time"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
)

// --- Stock items ---

// CreateItemRequest registers a new stock item.
type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Subcategory *string `json:"subcategory"`
	Unit        string  `json:"unit" binding:"required"`

	FarmID  *string `json:"farmId"`
	BatchID *string `json:"batchId"`

	CostPerUnit        *types.Money `json:"costPerUnit"`
	MarketPricePerUnit *types.Money `json:"marketPricePerUnit"`
	QualityGrade       *string      `json:"qualityGrade"`

	ManufactureDate *time.Time `json:"manufactureDate"`
	ShelfLifeDays   *int       `json:"shelfLifeDays"`
	ExpiryDate      *time.Time `json:"expiryDate"`

	ReorderLevel         *types.Quantity `json:"reorderLevel"`
	LeadTimeDays         *int            `json:"leadTimeDays"`
	DailyConsumptionRate *types.Quantity `json:"dailyConsumptionRate"`

	Supplier    *string `json:"supplier"`
	Location    *string `json:"location"`
	BatchNumber *string `json:"batchNumber"`
	Notes       *string `json:"notes"`
}

// ListItemsRequest filters the item list.
type ListItemsRequest struct {
	PaginationRequest
	FarmID     *string    `form:"farmId"`
	BatchID    *string    `form:"batchId"`
	Category   *string    `form:"category"`
	ExpiringBy *time.Time `form:"expiringBy" time_format:"2006-01-02"`
}

// --- Ledger ---

// AppendTransactionRequest records a ledger transaction against an item.
type AppendTransactionRequest struct {
	Kind            string         `json:"kind" binding:"required"`
	QuantityChange  types.Quantity `json:"quantityChange" binding:"required"`
	BatchID         *string        `json:"batchId"`
	UnitCost        *types.Money   `json:"unitCost"`
	Note            *string        `json:"note"`
	TransactionDate *time.Time     `json:"transactionDate"`
}

// ListTransactionsRequest filters transaction history.
type ListTransactionsRequest struct {
	PaginationRequest
	Kind     *string    `form:"kind"`
	BatchID  *string    `form:"batchId"`
	FromDate *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"toDate" time_format:"2006-01-02"`
}

// --- Consumption ---

// RecordConsumptionRequest records feed consumption for a batch.
type RecordConsumptionRequest struct {
	ItemID           string         `json:"itemId" binding:"required"`
	QuantityUsed     types.Quantity `json:"quantityUsed" binding:"required"`
	ConsumedOn       *time.Time     `json:"consumedOn"`
	Note             *string        `json:"note"`
	UnitCostOverride *types.Money   `json:"unitCostOverride"`
	DepleteLedger    bool           `json:"depleteLedger"`
}

// --- Policy optimization ---

// OptimizePolicyRequest carries demand and cost parameters. Unit cost is
// taken from the item itself, not the request. ServiceLevelPct is a
// percentage, e.g. 95 for a 95% fill target.
type OptimizePolicyRequest struct {
	DemandMean      float64 `json:"demandMean" binding:"required"`
	DemandStdDev    float64 `json:"demandStdDev"`
	LeadTimeDays    float64 `json:"leadTimeDays" binding:"required"`
	OrderingCost    float64 `json:"orderingCost" binding:"required"`
	HoldingCostRate float64 `json:"holdingCostRate" binding:"required"`
	ServiceLevelPct float64 `json:"serviceLevelPct" binding:"required"`
}

// --- Reconciliation and alerts ---

// ReconcileRequest scopes a reconciliation run.
type ReconcileRequest struct {
	BatchID  *string    `json:"batchId"`
	ItemID   *string    `json:"itemId"`
	FromDate *time.Time `json:"fromDate"`
	ToDate   *time.Time `json:"toDate"`
}

// ListAlertsRequest filters the alert list.
type ListAlertsRequest struct {
	PaginationRequest
	ItemID   *string `form:"itemId"`
	Kind     *string `form:"kind"`
	Severity *string `form:"severity"`
	Resolved *bool   `form:"resolved"`
}

// ResolveAlertRequest closes an alert.
type ResolveAlertRequest struct {
	Resolution string `json:"resolution"`
}
