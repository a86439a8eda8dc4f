package memory

import (
	"context"
	"sync"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/batchdir"
)

type BatchDirectory struct {
	mu      sync.RWMutex
	batches map[id.ID]*batchdir.BatchInfo
}

func NewBatchDirectory() *BatchDirectory {
	return &BatchDirectory{batches: make(map[id.ID]*batchdir.BatchInfo)}
}

// Put registers or replaces a batch.
func (d *BatchDirectory) Put(batch *batchdir.BatchInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *batch
	d.batches[batch.ID] = &cp
}

func (d *BatchDirectory) GetBatch(_ context.Context, farmerID, batchID id.ID) (*batchdir.BatchInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	batch, ok := d.batches[batchID]
	if !ok || batch.FarmerID != farmerID {
		return nil, apperror.NewNotFound("batch", batchID)
	}
	cp := *batch
	return &cp, nil
}

func (d *BatchDirectory) ListBatches(_ context.Context, farmerID id.ID) ([]*batchdir.BatchInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*batchdir.BatchInfo
	for _, batch := range d.batches {
		if batch.FarmerID == farmerID {
			cp := *batch
			out = append(out, &cp)
		}
	}
	return out, nil
}
