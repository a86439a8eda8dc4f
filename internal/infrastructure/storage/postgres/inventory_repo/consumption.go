package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/consumption"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/postgres"
)

const consumptionTable = "inv_feed_consumption"

var consumptionColumns = []string{
	"id", "batch_id", "item_id", "farmer_id",
	"quantity_used", "unit_cost", "total_cost",
	"bird_count", "consumed_on", "note",
	"transaction_id", "created_at",
}

// ConsumptionRepo implements consumption.Repository.
type ConsumptionRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func NewConsumptionRepo(txm *postgres.TxManager) *ConsumptionRepo {
	return &ConsumptionRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ConsumptionRepo) Insert(ctx context.Context, record *consumption.Record) error {
	q := r.builder.Insert(consumptionTable).
		Columns(consumptionColumns...).
		Values(
			record.ID, record.BatchID, record.ItemID, record.FarmerID,
			record.QuantityUsed, record.UnitCost, record.TotalCost,
			record.BirdCount, record.ConsumedOn, record.Note,
			record.TransactionID, record.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert consumption record: %w", err)
	}
	return nil
}

func (r *ConsumptionRepo) GetByID(ctx context.Context, recordID id.ID) (*consumption.Record, error) {
	q := r.builder.Select(consumptionColumns...).
		From(consumptionTable).
		Where(squirrel.Eq{"id": recordID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var record consumption.Record
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("consumption record", recordID)
		}
		return nil, fmt.Errorf("get consumption record: %w", err)
	}
	return &record, nil
}

func (r *ConsumptionRepo) ListByBatch(ctx context.Context, batchID id.ID, filter consumption.Filter) ([]*consumption.Record, error) {
	q := r.builder.Select(consumptionColumns...).
		From(consumptionTable).
		Where(squirrel.Eq{"batch_id": batchID}).
		OrderBy("consumed_on DESC")

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"consumed_on": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"consumed_on": *filter.ToDate})
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

	var records []*consumption.Record
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list consumption records: %w", err)
	}
	return records, nil
}

func (r *ConsumptionRepo) SumQuantity(ctx context.Context, scope consumption.Scope) (types.Quantity, error) {
	q := r.scopeQuery(scope, "COALESCE(SUM(quantity_used), 0) AS total")

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build select: %w", err)
	}

	var total types.Quantity
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("sum consumption: %w", err)
	}
	return total, nil
}

func (r *ConsumptionRepo) CountDays(ctx context.Context, scope consumption.Scope) (int, error) {
	q := r.scopeQuery(scope, "COUNT(DISTINCT consumed_on::date) AS days")

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build select: %w", err)
	}

	var days int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&days); err != nil {
		return 0, fmt.Errorf("count consumption days: %w", err)
	}
	return days, nil
}

func (r *ConsumptionRepo) scopeQuery(scope consumption.Scope, selectExpr string) squirrel.SelectBuilder {
	q := r.builder.Select(selectExpr).From(consumptionTable)
	if scope.BatchID != nil {
		q = q.Where(squirrel.Eq{"batch_id": *scope.BatchID})
	}
	if scope.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *scope.ItemID})
	}
	if scope.FarmerID != nil {
		q = q.Where(squirrel.Eq{"farmer_id": *scope.FarmerID})
	}
	if scope.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"consumed_on": *scope.FromDate})
	}
	if scope.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"consumed_on": *scope.ToDate})
	}
	return q
}
