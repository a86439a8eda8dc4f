// Package ledger provides the append-only inventory transaction ledger:
// the single writer of truth for stock item quantities.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
)

// Kind classifies a quantity-affecting event.
type Kind string

const (
	KindPurchase   Kind = "PURCHASE"
	KindUsage      Kind = "USAGE"
	KindAdjustment Kind = "ADJUSTMENT"
	KindReturn     Kind = "RETURN"
	KindWaste      Kind = "WASTE"
)

// IsValidKind reports whether k is a known transaction kind.
func IsValidKind(k Kind) bool {
	switch k {
	case KindPurchase, KindUsage, KindAdjustment, KindReturn, KindWaste:
		return true
	}
	return false
}

// Transaction is an immutable record of a quantity-affecting event.
// Once created it is never updated or deleted; compensating entries
// (Return/Adjustment) are the only corrective mechanism.
type Transaction struct {
	ID       id.ID  `db:"id" json:"id"`
	ItemID   id.ID  `db:"item_id" json:"itemId"`
	FarmerID id.ID  `db:"farmer_id" json:"farmerId"`
	BatchID  *id.ID `db:"batch_id" json:"batchId,omitempty"`

	Kind Kind `db:"kind" json:"kind"`

	// QuantityChange is the signed magnitude input. Purchase/Return/Usage/
	// Waste interpret its absolute value; Adjustment applies it signed.
	QuantityChange types.Quantity `db:"quantity_change" json:"quantityChange"`

	UnitCost  *types.Money `db:"unit_cost" json:"unitCost,omitempty"`
	TotalCost *types.Money `db:"total_cost" json:"totalCost,omitempty"`

	Note *string `db:"note" json:"note,omitempty"`

	TransactionDate time.Time `db:"transaction_date" json:"transactionDate"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// Effect returns the signed delta this transaction applies to the item
// quantity: positive for Purchase/Return, negative for Usage/Waste, and
// the raw signed change for Adjustment.
func (t *Transaction) Effect() types.Quantity {
	switch t.Kind {
	case KindPurchase, KindReturn:
		return t.QuantityChange.Abs()
	case KindUsage, KindWaste:
		return t.QuantityChange.Abs().Neg()
	default: // Adjustment
		return t.QuantityChange
	}
}

// Depletion returns the absolute quantity removed from stock for
// Usage/Waste transactions, zero otherwise. Reconciliation sums this.
func (t *Transaction) Depletion() types.Quantity {
	if t.Kind == KindUsage || t.Kind == KindWaste {
		return t.QuantityChange.Abs()
	}
	return decimal.Zero
}
