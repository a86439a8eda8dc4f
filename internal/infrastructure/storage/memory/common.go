package memory

import (
	"context"
	"time"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// paginate applies limit/offset to an already-sorted slice. Zero limit
// means no cap.
func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	out := in[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// TxManager satisfies the transaction manager interface without real
// transaction semantics. The memory repositories are individually atomic,
// which is enough for tests and single-node use.
type TxManager struct{}

func NewTxManager() *TxManager { return &TxManager{} }

func (TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
