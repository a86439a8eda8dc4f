package consumption

import (
	"time"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
)

// Record is a single daily feed consumption entry for a batch. When the
// entry was created with ledger depletion enabled, TransactionID links to
// the Usage transaction that removed the stock.
//
// UnitCost is snapshotted at recording time so later price edits on the
// item do not rewrite consumption history. It is nil when no cost was
// known for the item and no override was given.
type Record struct {
	ID            id.ID          `json:"id" db:"id"`
	BatchID       id.ID          `json:"batchId" db:"batch_id"`
	ItemID        id.ID          `json:"itemId" db:"item_id"`
	FarmerID      id.ID          `json:"farmerId" db:"farmer_id"`
	QuantityUsed  types.Quantity `json:"quantityUsed" db:"quantity_used"`
	UnitCost      *types.Money   `json:"unitCost,omitempty" db:"unit_cost"`
	TotalCost     *types.Money   `json:"totalCost,omitempty" db:"total_cost"`
	BirdCount     int            `json:"birdCount" db:"bird_count"`
	ConsumedOn    time.Time      `json:"consumedOn" db:"consumed_on"`
	Note          *string        `json:"note,omitempty" db:"note"`
	TransactionID *id.ID         `json:"transactionId,omitempty" db:"transaction_id"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
}

// PerBird returns consumption per bird for the entry, zero when the bird
// count was not recorded.
func (r *Record) PerBird() types.Quantity {
	if r.BirdCount <= 0 {
		return types.Zero()
	}
	return r.QuantityUsed.Div(types.NewFromFloat(float64(r.BirdCount)))
}
