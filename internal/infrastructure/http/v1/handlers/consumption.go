package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/consumption"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/http/v1/dto"
)

// ConsumptionHandler serves the feed consumption endpoints.
type ConsumptionHandler struct {
	*BaseHandler
	service *consumption.Service
}

func NewConsumptionHandler(service *consumption.Service) *ConsumptionHandler {
	return &ConsumptionHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Record handles POST /inventory/batches/:batchId/consumption.
func (h *ConsumptionHandler) Record(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}
	batchID, ok := h.PathID(c, "batchId")
	if !ok {
		return
	}

	var req dto.RecordConsumptionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId"))
		return
	}

	input := consumption.RecordInput{
		BatchID:          batchID,
		ItemID:           itemID,
		QuantityUsed:     req.QuantityUsed,
		Note:             req.Note,
		UnitCostOverride: req.UnitCostOverride,
		DepleteLedger:    req.DepleteLedger,
	}
	if req.ConsumedOn != nil {
		input.ConsumedOn = *req.ConsumedOn
	}

	record, err := h.service.RecordUsage(c.Request.Context(), farmerID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, record)
}

// List handles GET /inventory/batches/:batchId/consumption.
func (h *ConsumptionHandler) List(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}
	batchID, ok := h.PathID(c, "batchId")
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return
	}
	page.Defaults()

	filter := consumption.Filter{
		Limit:  page.PageSize,
		Offset: page.Offset(),
	}
	if raw := c.Query("itemId"); raw != "" {
		itemID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId"))
			return
		}
		filter.ItemID = &itemID
	}
	if raw := c.Query("fromDate"); raw != "" {
		from, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid fromDate"))
			return
		}
		filter.FromDate = &from
	}
	if raw := c.Query("toDate"); raw != "" {
		to, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid toDate"))
			return
		}
		filter.ToDate = endOfDay(&to)
	}

	records, err := h.service.ListByBatch(c.Request.Context(), farmerID, batchID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: records, Count: len(records)})
}
