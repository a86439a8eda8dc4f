package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/postgres"
)

const transactionsTable = "inv_transactions"

var transactionColumns = []string{
	"id", "farmer_id", "item_id", "batch_id", "kind",
	"quantity_change", "unit_cost", "total_cost", "note",
	"transaction_date", "created_at",
}

// LedgerRepo implements ledger.Repository. The table is append-only.
type LedgerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *LedgerRepo) Insert(ctx context.Context, tx *ledger.Transaction) error {
	q := r.builder.Insert(transactionsTable).
		Columns(transactionColumns...).
		Values(
			tx.ID, tx.FarmerID, tx.ItemID, tx.BatchID, tx.Kind,
			tx.QuantityChange, tx.UnitCost, tx.TotalCost, tx.Note,
			tx.TransactionDate, tx.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *LedgerRepo) GetByID(ctx context.Context, txID id.ID) (*ledger.Transaction, error) {
	q := r.builder.Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"id": txID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var tx ledger.Transaction
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &tx, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transaction", txID)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

func (r *LedgerRepo) ListByItem(ctx context.Context, itemID id.ID, filter ledger.Filter) ([]*ledger.Transaction, error) {
	q := r.builder.Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("transaction_date DESC", "created_at DESC")

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.BatchID != nil {
		q = q.Where(squirrel.Eq{"batch_id": *filter.BatchID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"transaction_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"transaction_date": *filter.ToDate})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var txs []*ledger.Transaction
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &txs, sql, args...); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (r *LedgerRepo) SumDepletion(ctx context.Context, scope ledger.DepletionScope) (types.Quantity, error) {
	q := r.builder.Select("COALESCE(SUM(ABS(quantity_change)), 0) AS total").
		From(transactionsTable).
		Where(squirrel.Eq{"kind": []ledger.Kind{ledger.KindUsage, ledger.KindWaste}})

	if scope.FarmerID != nil {
		q = q.Where(squirrel.Eq{"farmer_id": *scope.FarmerID})
	}
	if scope.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *scope.ItemID})
	}
	if scope.BatchID != nil {
		q = q.Where(squirrel.Eq{"batch_id": *scope.BatchID})
	}
	if scope.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"transaction_date": *scope.FromDate})
	}
	if scope.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"transaction_date": *scope.ToDate})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build select: %w", err)
	}

	var total types.Quantity
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("sum depletion: %w", err)
	}
	return total, nil
}
