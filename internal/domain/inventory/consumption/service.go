package consumption

import (
	"context"
	"fmt"
	"time"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/tx"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/batchdir"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
	"github.com/BINABASS091/fugajiSmart-back/pkg/logger"
)

// Ledger is the subset of the transaction service consumption depends on.
type Ledger interface {
	Append(ctx context.Context, farmerID id.ID, input ledger.AppendInput) (*ledger.Transaction, error)
}

// Service records feed consumption against batches and optionally depletes
// stock through the ledger.
type Service struct {
	repo      Repository
	items     item.Repository
	ledger    Ledger
	batches   batchdir.Directory
	txManager tx.Manager
}

func NewService(repo Repository, items item.Repository, ledgerSvc Ledger, batches batchdir.Directory, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		ledger:    ledgerSvc,
		batches:   batches,
		txManager: txManager,
	}
}

// RecordInput describes a consumption entry to record.
type RecordInput struct {
	BatchID      id.ID
	ItemID       id.ID
	QuantityUsed types.Quantity
	ConsumedOn   time.Time
	Note         *string

	// UnitCostOverride replaces the item's cost-per-unit for this entry,
	// e.g. when a bag was bought at a spot price.
	UnitCostOverride *types.Money

	// DepleteLedger appends a Usage transaction for the same quantity,
	// removing the stock from the item before the record is persisted.
	DepleteLedger bool
}

// RecordUsage persists a consumption entry. With DepleteLedger set, the
// insufficient-stock check happens in the ledger append and a failed
// depletion aborts the whole operation.
func (s *Service) RecordUsage(ctx context.Context, farmerID id.ID, input RecordInput) (*Record, error) {
	if input.QuantityUsed.IsZero() || input.QuantityUsed.IsNegative() {
		return nil, apperror.NewValidation("quantity used must be positive")
	}

	if input.UnitCostOverride != nil && input.UnitCostOverride.IsNegative() {
		return nil, apperror.NewValidation("unit cost override cannot be negative")
	}

	batch, err := s.batches.GetBatch(ctx, farmerID, input.BatchID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if it.FarmerID != farmerID {
		return nil, apperror.NewNotFound("stock item", input.ItemID)
	}

	consumedOn := input.ConsumedOn
	if consumedOn.IsZero() {
		consumedOn = time.Now().UTC()
	}

	record := &Record{
		ID:           id.New(),
		BatchID:      batch.ID,
		ItemID:       input.ItemID,
		FarmerID:     farmerID,
		QuantityUsed: input.QuantityUsed,
		BirdCount:    batch.LiveBirds(),
		ConsumedOn:   consumedOn,
		Note:         input.Note,
		CreatedAt:    time.Now().UTC(),
	}

	unitCost := input.UnitCostOverride
	if unitCost == nil && it.CostPerUnit.IsPositive() {
		cost := it.CostPerUnit
		unitCost = &cost
	}
	if unitCost != nil {
		record.UnitCost = unitCost
		total := input.QuantityUsed.Mul(*unitCost)
		record.TotalCost = &total
	}

	// Depletion and record share one transaction: a failed insert rolls
	// the ledger append back with it.
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if input.DepleteLedger {
			note := fmt.Sprintf("feed consumption, batch %s", batch.ID)
			usage, err := s.ledger.Append(ctx, farmerID, ledger.AppendInput{
				ItemID:          input.ItemID,
				BatchID:         &batch.ID,
				Kind:            ledger.KindUsage,
				QuantityChange:  input.QuantityUsed.Neg(),
				UnitCost:        record.UnitCost,
				Note:            &note,
				TransactionDate: consumedOn,
			})
			if err != nil {
				return err
			}
			record.TransactionID = &usage.ID
		}

		if err := s.repo.Insert(ctx, record); err != nil {
			return fmt.Errorf("insert consumption record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "consumption recorded",
		"record_id", record.ID,
		"batch_id", record.BatchID,
		"item_id", record.ItemID,
		"quantity", record.QuantityUsed,
		"depleted", input.DepleteLedger,
	)
	return record, nil
}

// ListByBatch returns consumption history for a batch the farmer owns.
func (s *Service) ListByBatch(ctx context.Context, farmerID, batchID id.ID, filter Filter) ([]*Record, error) {
	if _, err := s.batches.GetBatch(ctx, farmerID, batchID); err != nil {
		return nil, err
	}
	return s.repo.ListByBatch(ctx, batchID, filter)
}

// TotalConsumed sums reported consumption for a batch, optionally narrowed
// to one item and a date window.
func (s *Service) TotalConsumed(ctx context.Context, farmerID, batchID id.ID, itemID *id.ID, from, to *time.Time) (types.Quantity, error) {
	if _, err := s.batches.GetBatch(ctx, farmerID, batchID); err != nil {
		return types.Zero(), err
	}
	return s.repo.SumQuantity(ctx, Scope{
		BatchID:  &batchID,
		ItemID:   itemID,
		FromDate: from,
		ToDate:   to,
	})
}
