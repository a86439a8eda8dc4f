package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/reconcile"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/storage/postgres"
)

const alertsTable = "inv_alerts"

var alertColumns = []string{
	"id", "item_id", "farmer_id", "kind", "severity", "message",
	"created_at", "resolved", "resolved_at", "resolved_by", "resolution",
}

// AlertRepo implements reconcile.AlertRepository.
type AlertRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func NewAlertRepo(txm *postgres.TxManager) *AlertRepo {
	return &AlertRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AlertRepo) Insert(ctx context.Context, alert *reconcile.Alert) error {
	q := r.builder.Insert(alertsTable).
		Columns(alertColumns...).
		Values(
			alert.ID, alert.ItemID, alert.FarmerID, alert.Kind, alert.Severity, alert.Message,
			alert.CreatedAt, alert.Resolved, alert.ResolvedAt, alert.ResolvedBy, alert.Resolution,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *AlertRepo) GetByID(ctx context.Context, alertID id.ID) (*reconcile.Alert, error) {
	q := r.builder.Select(alertColumns...).
		From(alertsTable).
		Where(squirrel.Eq{"id": alertID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var alert reconcile.Alert
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &alert, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("alert", alertID)
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return &alert, nil
}

func (r *AlertRepo) List(ctx context.Context, farmerID id.ID, filter reconcile.AlertFilter) ([]*reconcile.Alert, error) {
	q := r.builder.Select(alertColumns...).
		From(alertsTable).
		Where(squirrel.Eq{"farmer_id": farmerID}).
		OrderBy("created_at DESC")

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.Severity != nil {
		q = q.Where(squirrel.Eq{"severity": *filter.Severity})
	}
	if filter.Resolved != nil {
		q = q.Where(squirrel.Eq{"resolved": *filter.Resolved})
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

	var alerts []*reconcile.Alert
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &alerts, sql, args...); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

func (r *AlertRepo) FindUnresolved(ctx context.Context, itemID id.ID, kind reconcile.AlertKind) (*reconcile.Alert, error) {
	q := r.builder.Select(alertColumns...).
		From(alertsTable).
		Where(squirrel.Eq{"item_id": itemID, "kind": kind, "resolved": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var alert reconcile.Alert
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &alert, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find unresolved alert: %w", err)
	}
	return &alert, nil
}

func (r *AlertRepo) Update(ctx context.Context, alert *reconcile.Alert) error {
	q := r.builder.Update(alertsTable).
		Set("resolved", alert.Resolved).
		Set("resolved_at", alert.ResolvedAt).
		Set("resolved_by", alert.ResolvedBy).
		Set("resolution", alert.Resolution).
		Where(squirrel.Eq{"id": alert.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("alert", alert.ID)
	}
	return nil
}
