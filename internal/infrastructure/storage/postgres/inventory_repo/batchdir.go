package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/batchdir"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/postgres"
)

const batchesTable = "batches"

var batchColumns = []string{
	"id", "farm_id", "farmer_id", "breed",
	"quantity", "mortality_count", "current_age_days",
}

// BatchDirectory implements batchdir.Directory against the batches table.
type BatchDirectory struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func NewBatchDirectory(txm *postgres.TxManager) *BatchDirectory {
	return &BatchDirectory{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (d *BatchDirectory) GetBatch(ctx context.Context, farmerID, batchID id.ID) (*batchdir.BatchInfo, error) {
	q := d.builder.Select(batchColumns...).
		From(batchesTable).
		Where(squirrel.Eq{"id": batchID, "farmer_id": farmerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var batch batchdir.BatchInfo
	if err := pgxscan.Get(ctx, d.txm.GetQuerier(ctx), &batch, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("batch", batchID)
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &batch, nil
}

func (d *BatchDirectory) ListBatches(ctx context.Context, farmerID id.ID) ([]*batchdir.BatchInfo, error) {
	q := d.builder.Select(batchColumns...).
		From(batchesTable).
		Where(squirrel.Eq{"farmer_id": farmerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var batches []*batchdir.BatchInfo
	if err := pgxscan.Select(ctx, d.txm.GetQuerier(ctx), &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}
