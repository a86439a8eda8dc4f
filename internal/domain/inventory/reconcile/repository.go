package reconcile

import (
	"context"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
)

// AlertFilter narrows alert listing.
type AlertFilter struct {
	ItemID   *id.ID
	Kind     *AlertKind
	Severity *Severity
	Resolved *bool
	Limit    int
	Offset   int
}

type AlertRepository interface {
	Insert(ctx context.Context, alert *Alert) error
	GetByID(ctx context.Context, alertID id.ID) (*Alert, error)
	List(ctx context.Context, farmerID id.ID, filter AlertFilter) ([]*Alert, error)

	// FindUnresolved returns the open alert for (item, kind), or nil
	// when none exists. This is the idempotency check for raising.
	FindUnresolved(ctx context.Context, itemID id.ID, kind AlertKind) (*Alert, error)

	// Update persists resolution state changes.
	Update(ctx context.Context, alert *Alert) error
}
