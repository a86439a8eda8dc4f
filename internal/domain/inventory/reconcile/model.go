package reconcile

import (
	"time"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
)

// AlertKind identifies what condition raised an alert. At most one
// unresolved alert per (item, kind) pair exists at any time.
type AlertKind string

const (
	AlertLowStock        AlertKind = "LOW_STOCK"
	AlertReorderRequired AlertKind = "REORDER_REQUIRED"
	AlertNearExpiry      AlertKind = "NEAR_EXPIRY"
	AlertExpired         AlertKind = "EXPIRED"
	AlertOutOfStock      AlertKind = "OUT_OF_STOCK"
	AlertHighConsumption AlertKind = "HIGH_CONSUMPTION"
	AlertSyncDrift       AlertKind = "SYNC_DRIFT"
)

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Alert is a persisted, resolvable notification about an item's condition.
type Alert struct {
	ID         id.ID     `json:"id" db:"id"`
	ItemID     id.ID     `json:"itemId" db:"item_id"`
	FarmerID   id.ID     `json:"farmerId" db:"farmer_id"`
	Kind       AlertKind `json:"kind" db:"kind"`
	Severity   Severity  `json:"severity" db:"severity"`
	Message    string    `json:"message" db:"message"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	Resolved   bool      `json:"resolved" db:"resolved"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty" db:"resolved_at"`
	ResolvedBy *id.ID     `json:"resolvedBy,omitempty" db:"resolved_by"`
	Resolution *string    `json:"resolution,omitempty" db:"resolution"`
}

// SyncStatus classifies how closely ledger depletion tracks reported
// consumption.
type SyncStatus string

const (
	SyncGood     SyncStatus = "GOOD"
	SyncPoor     SyncStatus = "POOR"
	SyncCritical SyncStatus = "CRITICAL"
)

const (
	syncGoodThreshold = 95.0
	syncPoorThreshold = 80.0
)

// classifySync maps a sync percentage to its status band.
func classifySync(pct float64) SyncStatus {
	switch {
	case pct >= syncGoodThreshold:
		return SyncGood
	case pct >= syncPoorThreshold:
		return SyncPoor
	default:
		return SyncCritical
	}
}

// Report is the outcome of one reconciliation run.
type Report struct {
	Scope           Scope          `json:"scope"`
	ReportedTotal   types.Quantity `json:"reportedTotal"`
	LedgerDepleted  types.Quantity `json:"ledgerDepleted"`
	SyncPct         float64        `json:"syncPct"`
	Status          SyncStatus     `json:"status"`
	Discrepancy     types.Quantity `json:"discrepancy"`
	EvaluatedAt     time.Time      `json:"evaluatedAt"`
	Alerts          []*Alert       `json:"alerts,omitempty"`
}

// Scope selects what a reconciliation run covers.
type Scope struct {
	FarmerID id.ID      `json:"farmerId"`
	BatchID  *id.ID     `json:"batchId,omitempty"`
	ItemID   *id.ID     `json:"itemId,omitempty"`
	FromDate *time.Time `json:"fromDate,omitempty"`
	ToDate   *time.Time `json:"toDate,omitempty"`
}
