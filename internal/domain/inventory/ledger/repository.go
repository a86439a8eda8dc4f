package ledger

import (
	"context"
	"time"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
)

// Repository defines persistence operations for ledger transactions.
// Transactions are append-only: there is no update or delete.
type Repository interface {
	// Insert appends a transaction record.
	Insert(ctx context.Context, tx *Transaction) error

	// GetByID retrieves one transaction; NotFound error when missing.
	GetByID(ctx context.Context, txID id.ID) (*Transaction, error)

	// ListByItem retrieves transactions for an item, newest first.
	ListByItem(ctx context.Context, itemID id.ID, filter Filter) ([]*Transaction, error)

	// SumDepletion returns the total absolute quantity removed by Usage
	// and Waste transactions in scope. Reconciliation compares this
	// against reported consumption.
	SumDepletion(ctx context.Context, scope DepletionScope) (types.Quantity, error)
}

// Filter narrows transaction history queries.
type Filter struct {
	Kind     *Kind
	BatchID  *id.ID
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// DepletionScope selects Usage/Waste transactions for aggregation.
// Nil fields widen the scope; date bounds are inclusive. FarmerID keeps
// the aggregate inside one farmer's data even on a farm-wide scope.
type DepletionScope struct {
	FarmerID *id.ID
	ItemID   *id.ID
	BatchID  *id.ID
	FromDate *time.Time
	ToDate   *time.Time
}
