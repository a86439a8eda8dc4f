package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/item"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/http/v1/dto"
)

// ItemHandler serves the stock item registry endpoints.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

func NewItemHandler(service *item.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /inventory/items.
func (h *ItemHandler) Create(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it := item.New(farmerID, req.Name, item.Category(req.Category), req.Unit)

	if req.Subcategory != nil {
		sub := item.Subcategory(*req.Subcategory)
		it.Subcategory = &sub
	}
	if req.FarmID != nil {
		farmID, err := id.Parse(*req.FarmID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid farmId"))
			return
		}
		it.FarmID = &farmID
	}
	if req.BatchID != nil {
		batchID, err := id.Parse(*req.BatchID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid batchId"))
			return
		}
		it.BatchID = &batchID
	}
	if req.CostPerUnit != nil {
		it.CostPerUnit = *req.CostPerUnit
	}
	it.MarketPricePerUnit = req.MarketPricePerUnit
	if req.QualityGrade != nil {
		it.QualityGrade = item.QualityGrade(*req.QualityGrade)
	}
	it.ManufactureDate = req.ManufactureDate
	it.ShelfLifeDays = req.ShelfLifeDays
	it.ExpiryDate = req.ExpiryDate
	if req.ReorderLevel != nil {
		it.ReorderLevel = *req.ReorderLevel
	}
	if req.LeadTimeDays != nil {
		it.LeadTimeDays = *req.LeadTimeDays
	}
	it.DailyConsumptionRate = req.DailyConsumptionRate
	it.Supplier = req.Supplier
	it.Location = req.Location
	it.BatchNumber = req.BatchNumber
	it.Notes = req.Notes

	if err := h.service.Create(c.Request.Context(), it); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, it)
}

// Get handles GET /inventory/items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), farmerID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// List handles GET /inventory/items.
func (h *ItemHandler) List(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}

	var req dto.ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return
	}
	req.Defaults()

	filter := item.ListFilter{
		FarmerID:   farmerID,
		ExpiringBy: req.ExpiringBy,
		Limit:      req.PageSize,
		Offset:     req.Offset(),
	}
	if req.FarmID != nil {
		farmID, err := id.Parse(*req.FarmID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid farmId"))
			return
		}
		filter.FarmID = &farmID
	}
	if req.BatchID != nil {
		batchID, err := id.Parse(*req.BatchID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid batchId"))
			return
		}
		filter.BatchID = &batchID
	}
	if req.Category != nil {
		cat := item.Category(*req.Category)
		filter.Category = &cat
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// BatchSummary handles GET /inventory/batches/:batchId/summary.
func (h *ItemHandler) BatchSummary(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}
	batchID, ok := h.PathID(c, "batchId")
	if !ok {
		return
	}

	summary, err := h.service.SummarizeBatch(c.Request.Context(), farmerID, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}
