// Package batchdir exposes the read-only view of the flock batch registry
// that inventory components need for ownership checks and per-bird figures.
package batchdir

import (
	"context"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
)

// BatchInfo is the subset of batch state inventory cares about.
type BatchInfo struct {
	ID             id.ID  `json:"id" db:"id"`
	FarmID         id.ID  `json:"farmId" db:"farm_id"`
	FarmerID       id.ID  `json:"farmerId" db:"farmer_id"`
	Breed          string `json:"breed" db:"breed"`
	Quantity       int    `json:"quantity" db:"quantity"`
	MortalityCount int    `json:"mortalityCount" db:"mortality_count"`
	CurrentAgeDays int    `json:"currentAgeDays" db:"current_age_days"`
}

// LiveBirds returns the current live bird count, never negative.
func (b *BatchInfo) LiveBirds() int {
	n := b.Quantity - b.MortalityCount
	if n < 0 {
		return 0
	}
	return n
}

// Directory resolves batches. Implementations return NotFound for a batch
// the caller's farmer does not own.
type Directory interface {
	// GetBatch retrieves a batch scoped to the farmer.
	GetBatch(ctx context.Context, farmerID, batchID id.ID) (*BatchInfo, error)

	// ListBatches returns all batches owned by the farmer.
	ListBatches(ctx context.Context, farmerID id.ID) ([]*BatchInfo, error)
}
