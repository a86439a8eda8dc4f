// Package inventory_repo provides PostgreSQL implementations of the
// inventory repositories.
package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/postgres"
)

const itemsTable = "inv_stock_items"

var itemColumns = []string{
	"id", "farmer_id", "farm_id", "batch_id",
	"name", "category", "subcategory",
	"quantity", "unit",
	"cost_per_unit", "market_price_per_unit", "quality_grade",
	"manufacture_date", "shelf_life_days", "expiry_date",
	"reorder_point", "order_up_to_level", "safety_stock",
	"lead_time_days", "service_level_target",
	"reorder_level", "daily_consumption_rate",
	"supplier", "location", "batch_number", "notes",
	"version", "created_at", "updated_at",
}

// ItemRepo implements item.Repository.
type ItemRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ItemRepo) Create(ctx context.Context, it *item.StockItem) error {
	q := r.builder.Insert(itemsTable).
		Columns(itemColumns...).
		Values(
			it.ID, it.FarmerID, it.FarmID, it.BatchID,
			it.Name, it.Category, it.Subcategory,
			it.Quantity, it.Unit,
			it.CostPerUnit, it.MarketPricePerUnit, it.QualityGrade,
			it.ManufactureDate, it.ShelfLifeDays, it.ExpiryDate,
			it.ReorderPoint, it.OrderUpToLevel, it.SafetyStock,
			it.LeadTimeDays, it.ServiceLevelTarget,
			it.ReorderLevel, it.DailyConsumptionRate,
			it.Supplier, it.Location, it.BatchNumber, it.Notes,
			it.Version, it.CreatedAt, it.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.StockItem, error) {
	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var it item.StockItem
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock item", itemID)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) ([]*item.StockItem, error) {
	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"farmer_id": filter.FarmerID}).
		OrderBy("created_at")

	if filter.FarmID != nil {
		q = q.Where(squirrel.Eq{"farm_id": *filter.FarmID})
	}
	if filter.BatchID != nil {
		q = q.Where(squirrel.Eq{"batch_id": *filter.BatchID})
	}
	if filter.Category != nil {
		q = q.Where(squirrel.Eq{"category": *filter.Category})
	}
	if filter.ExpiringBy != nil {
		q = q.Where(squirrel.LtOrEq{"expiry_date": *filter.ExpiringBy})
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

	var items []*item.StockItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *ItemRepo) UpdatePolicy(ctx context.Context, itemID id.ID, expectedVersion int, update item.PolicyUpdate) error {
	q := r.builder.Update(itemsTable).
		Set("reorder_point", update.ReorderPoint).
		Set("order_up_to_level", update.OrderUpToLevel).
		Set("safety_stock", update.SafetyStock).
		Set("lead_time_days", update.LeadTimeDays).
		Set("service_level_target", update.ServiceLevelTarget).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": itemID, "version": expectedVersion})

	return r.execVersioned(ctx, q, itemID)
}

func (r *ItemRepo) UpdateQuantity(ctx context.Context, itemID id.ID, expectedVersion int, quantity types.Quantity) error {
	q := r.builder.Update(itemsTable).
		Set("quantity", quantity).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": itemID, "version": expectedVersion})

	return r.execVersioned(ctx, q, itemID)
}

// execVersioned runs a version-guarded update. Zero rows affected means the
// row moved (or vanished) between read and write.
func (r *ItemRepo) execVersioned(ctx context.Context, q squirrel.UpdateBuilder, itemID id.ID) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("stock item", itemID)
	}
	return nil
}

func (r *ItemRepo) DeleteByBatch(ctx context.Context, batchID id.ID) error {
	return r.deleteWhere(ctx, squirrel.Eq{"batch_id": batchID})
}

func (r *ItemRepo) DeleteByFarm(ctx context.Context, farmID id.ID) error {
	return r.deleteWhere(ctx, squirrel.Eq{"farm_id": farmID})
}

func (r *ItemRepo) deleteWhere(ctx context.Context, pred any) error {
	sql, args, err := r.builder.Delete(itemsTable).Where(pred).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}
