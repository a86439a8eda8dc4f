package item

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/types"
	"github.com/BINABASS091/fugajiSmart-back/pkg/logger"
)

// Service provides business operations for the stock item registry.
type Service struct {
	repo Repository
}

// NewService creates a new registry service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new stock item after validation.
func (s *Service) Create(ctx context.Context, item *StockItem) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	logger.Info(ctx, "stock item created",
		"id", item.ID,
		"name", item.Name,
		"category", item.Category,
	)
	return nil
}

// GetByID retrieves an item enforcing the ownership boundary. An item
// belonging to another farmer is reported as NotFound, not Forbidden,
// to avoid leaking existence.
func (s *Service) GetByID(ctx context.Context, farmerID, itemID id.ID) (*StockItem, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.FarmerID != farmerID {
		return nil, apperror.NewNotFound("stock item", itemID)
	}
	return it, nil
}

// List retrieves the farmer's items matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*StockItem, error) {
	if id.IsNil(filter.FarmerID) {
		return nil, apperror.NewValidation("farmer scope is required")
	}
	return s.repo.List(ctx, filter)
}

// DeleteByBatch cascades item removal when a batch is deleted.
func (s *Service) DeleteByBatch(ctx context.Context, batchID id.ID) error {
	if err := s.repo.DeleteByBatch(ctx, batchID); err != nil {
		return fmt.Errorf("delete items by batch: %w", err)
	}
	logger.Info(ctx, "stock items removed for batch", "batch_id", batchID)
	return nil
}

// DeleteByFarm cascades item removal when a farm is deleted.
func (s *Service) DeleteByFarm(ctx context.Context, farmID id.ID) error {
	if err := s.repo.DeleteByFarm(ctx, farmID); err != nil {
		return fmt.Errorf("delete items by farm: %w", err)
	}
	logger.Info(ctx, "stock items removed for farm", "farm_id", farmID)
	return nil
}

// BatchSummary aggregates inventory metrics for the items earmarked for
// one batch: valuation totals, per-status counts, reorder and expiry
// analysis.
type BatchSummary struct {
	BatchID          id.ID            `json:"batchId"`
	TotalItems       int              `json:"totalItems"`
	TotalCost        types.Money      `json:"totalCost"`
	TotalMarketValue types.Money      `json:"totalMarketValue"`
	StatusCounts     map[Status]int   `json:"statusCounts"`
	CategoryCounts   map[Category]int `json:"categoryCounts"`
	NeedsReorder     int              `json:"needsReorder"`
	Expired          int              `json:"expired"`
	NearExpiry       int              `json:"nearExpiry"`
}

// SummarizeBatch computes the batch inventory summary at the current time.
func (s *Service) SummarizeBatch(ctx context.Context, farmerID, batchID id.ID) (*BatchSummary, error) {
	items, err := s.repo.List(ctx, ListFilter{FarmerID: farmerID, BatchID: &batchID})
	if err != nil {
		return nil, fmt.Errorf("list batch items: %w", err)
	}

	now := time.Now().UTC()
	summary := &BatchSummary{
		BatchID:          batchID,
		TotalItems:       len(items),
		TotalCost:        decimal.Zero,
		TotalMarketValue: decimal.Zero,
		StatusCounts:     make(map[Status]int),
		CategoryCounts:   make(map[Category]int),
	}

	for _, it := range items {
		summary.TotalCost = summary.TotalCost.Add(it.TotalCost())
		summary.TotalMarketValue = summary.TotalMarketValue.Add(it.MarketValue())
		summary.StatusCounts[it.EvaluateStatus(now)]++
		summary.CategoryCounts[it.Category]++
		if it.ShouldReorder() {
			summary.NeedsReorder++
		}
		if it.IsExpired(now) {
			summary.Expired++
		} else if it.IsNearExpiry(now, DefaultNearExpiryThresholdDays) {
			summary.NearExpiry++
		}
	}

	return summary, nil
}
