package consumption

import (
	"context"
	"time"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
)

// Filter narrows consumption history queries.
type Filter struct {
	ItemID   *id.ID
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// Scope selects records for aggregation.
type Scope struct {
	BatchID  *id.ID
	ItemID   *id.ID
	FarmerID *id.ID
	FromDate *time.Time
	ToDate   *time.Time
}

type Repository interface {
	Insert(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, recordID id.ID) (*Record, error)
	ListByBatch(ctx context.Context, batchID id.ID, filter Filter) ([]*Record, error)

	// SumQuantity totals quantityUsed over the scope. Missing rows sum
	// to zero, never an error.
	SumQuantity(ctx context.Context, scope Scope) (types.Quantity, error)

	// CountDays returns the number of distinct consumption dates in the
	// scope, used for daily-rate averaging.
	CountDays(ctx context.Context, scope Scope) (int, error)
}
