// Package tx abstracts database transactions away from the domain services.
// The ledger, consumption, and reconciliation services see only these
// interfaces; the pgx-backed implementation lives in
// infrastructure/storage/postgres, with an in-memory one for tests.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
//
// A ledger append is the canonical caller: the item quantity update and the
// transaction insert must land together or not at all, and a consumption
// record that depletes stock nests a second RunInTransaction inside the
// first. Implementations must therefore reuse a transaction already present
// in the context instead of opening a new one.
type Manager interface {
	// RunInTransaction executes fn within a transaction, committing when
	// fn returns nil and rolling back otherwise.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager for multi-statement reads that need a
// consistent snapshot, such as the batch inventory summary.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
