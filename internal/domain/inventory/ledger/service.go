package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/tx"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/pkg/logger"
)

// maxAppendRetries bounds optimistic retries before surfacing a conflict.
const maxAppendRetries = 3

// AuditRecorder receives a notification after each successful append.
// Implementations must be non-blocking failures: audit errors are logged,
// never propagated to the caller.
type AuditRecorder interface {
	RecordLedgerAppend(ctx context.Context, tx *Transaction, newQuantity types.Quantity) error
}

// Service provides the atomic append operation and history queries.
type Service struct {
	repo      Repository
	items     item.Repository
	txManager tx.Manager
	audit     AuditRecorder // optional
}

// NewService creates a new ledger service. audit may be nil.
func NewService(repo Repository, items item.Repository, txManager tx.Manager, audit AuditRecorder) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		txManager: txManager,
		audit:     audit,
	}
}

// AppendInput describes a transaction to append.
type AppendInput struct {
	ItemID          id.ID
	BatchID         *id.ID
	Kind            Kind
	QuantityChange  types.Quantity
	UnitCost        *types.Money
	Note            *string
	TransactionDate time.Time
}

// Append records a transaction and applies its effect to the item quantity
// as a single atomic unit. Either both the ledger insert and the quantity
// update succeed, or neither does.
//
// Contention on the same item is resolved by optimistic versioning: the
// quantity update is conditional on the version read, and the whole
// read-compute-write cycle retries a bounded number of times before
// surfacing CONCURRENT_MODIFICATION.
func (s *Service) Append(ctx context.Context, farmerID id.ID, input AppendInput) (*Transaction, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		tx, err := s.tryAppend(ctx, farmerID, input)
		if err == nil {
			return tx, nil
		}
		if !apperror.IsConcurrentModification(err) {
			return nil, err
		}
		lastErr = err
		logger.Debug(ctx, "ledger append version conflict, retrying",
			"item_id", input.ItemID,
			"attempt", attempt+1,
		)
	}
	return nil, lastErr
}

func (s *Service) tryAppend(ctx context.Context, farmerID id.ID, input AppendInput) (*Transaction, error) {
	it, err := s.items.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if it.FarmerID != farmerID {
		return nil, apperror.NewNotFound("stock item", input.ItemID)
	}

	record := buildTransaction(farmerID, input)

	newQuantity := it.Quantity.Add(record.Effect())
	if newQuantity.IsNegative() {
		if input.Kind == KindAdjustment {
			return nil, apperror.NewInvalidTransaction("adjustment would drive quantity below zero").
				WithDetail("item_id", it.ID.String()).
				WithDetail("available", it.Quantity.String())
		}
		requested, _ := record.QuantityChange.Abs().Float64()
		available, _ := it.Quantity.Float64()
		return nil, apperror.NewInsufficientStock(it.ID.String(), requested, available)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// The version-guarded update goes first: a conflict aborts the
		// append before any ledger row is written.
		if err := s.items.UpdateQuantity(ctx, it.ID, it.Version, newQuantity); err != nil {
			return err
		}
		if err := s.repo.Insert(ctx, record); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		if auditErr := s.audit.RecordLedgerAppend(ctx, record, newQuantity); auditErr != nil {
			logger.Warn(ctx, "audit record failed", "tx_id", record.ID, "error", auditErr)
		}
	}

	logger.Info(ctx, "ledger transaction appended",
		"tx_id", record.ID,
		"item_id", it.ID,
		"kind", record.Kind,
		"quantity_change", record.QuantityChange,
		"new_quantity", newQuantity,
	)
	return record, nil
}

// ListByItem retrieves transaction history, enforcing ownership.
func (s *Service) ListByItem(ctx context.Context, farmerID, itemID id.ID, filter Filter) ([]*Transaction, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.FarmerID != farmerID {
		return nil, apperror.NewNotFound("stock item", itemID)
	}
	return s.repo.ListByItem(ctx, itemID, filter)
}

// SumDepletion aggregates Usage/Waste removal over the scope.
func (s *Service) SumDepletion(ctx context.Context, scope DepletionScope) (types.Quantity, error) {
	return s.repo.SumDepletion(ctx, scope)
}

func validateInput(input AppendInput) error {
	if !IsValidKind(input.Kind) {
		return apperror.NewInvalidTransaction("unknown transaction kind").
			WithDetail("kind", string(input.Kind))
	}
	if input.QuantityChange.IsZero() {
		return apperror.NewInvalidTransaction("quantity change must be non-zero")
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return apperror.NewInvalidTransaction("unit cost cannot be negative")
	}
	return nil
}

func buildTransaction(farmerID id.ID, input AppendInput) *Transaction {
	now := time.Now().UTC()
	txDate := input.TransactionDate
	if txDate.IsZero() {
		txDate = now
	}

	record := &Transaction{
		ID:              id.New(),
		ItemID:          input.ItemID,
		FarmerID:        farmerID,
		BatchID:         input.BatchID,
		Kind:            input.Kind,
		QuantityChange:  input.QuantityChange,
		UnitCost:        input.UnitCost,
		Note:            input.Note,
		TransactionDate: txDate,
		CreatedAt:       now,
	}

	if input.UnitCost != nil {
		total := input.UnitCost.Mul(input.QuantityChange.Abs())
		record.TotalCost = &total
	}

	return record
}
