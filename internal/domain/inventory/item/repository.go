package item

import (
	"context"
	"time"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
)

// Repository defines persistence operations for stock items.
type Repository interface {
	// Create inserts a new item.
	Create(ctx context.Context, item *StockItem) error

	// GetByID retrieves an item; NotFound error when missing.
	GetByID(ctx context.Context, itemID id.ID) (*StockItem, error)

	// List retrieves items matching the filter, always farmer-scoped.
	List(ctx context.Context, filter ListFilter) ([]*StockItem, error)

	// UpdatePolicy persists computed (s,S) parameters under optimistic
	// versioning. Returns ConcurrentModification when the version moved.
	UpdatePolicy(ctx context.Context, itemID id.ID, expectedVersion int, update PolicyUpdate) error

	// UpdateQuantity sets the quantity under optimistic versioning.
	// The ledger is the only caller. Returns ConcurrentModification when
	// the version moved between read and write.
	UpdateQuantity(ctx context.Context, itemID id.ID, expectedVersion int, quantity types.Quantity) error

	// DeleteByBatch removes all items earmarked for a batch (cascade).
	DeleteByBatch(ctx context.Context, batchID id.ID) error

	// DeleteByFarm removes all items belonging to a farm (cascade).
	DeleteByFarm(ctx context.Context, farmID id.ID) error
}

// ListFilter narrows item queries. FarmerID is mandatory: it is the
// ownership boundary.
type ListFilter struct {
	FarmerID    id.ID
	FarmID      *id.ID
	BatchID     *id.ID
	Category    *Category
	ExpiringBy  *time.Time
	Limit       int
	Offset      int
}

// PolicyUpdate carries optimizer output persisted onto an item.
type PolicyUpdate struct {
	ReorderPoint       types.Quantity
	OrderUpToLevel     types.Quantity
	SafetyStock        types.Quantity
	LeadTimeDays       int
	ServiceLevelTarget types.Money
}
