package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/ledger"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/http/v1/dto"
)

// LedgerHandler serves the transaction ledger endpoints.
type LedgerHandler struct {
	*BaseHandler
	service *ledger.Service
}

func NewLedgerHandler(service *ledger.Service) *LedgerHandler {
	return &LedgerHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Append handles POST /inventory/items/:id/transactions.
func (h *LedgerHandler) Append(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.AppendTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := ledger.AppendInput{
		ItemID:         itemID,
		Kind:           ledger.Kind(req.Kind),
		QuantityChange: req.QuantityChange,
		UnitCost:       req.UnitCost,
		Note:           req.Note,
	}
	if req.BatchID != nil {
		batchID, err := id.Parse(*req.BatchID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid batchId"))
			return
		}
		input.BatchID = &batchID
	}
	if req.TransactionDate != nil {
		input.TransactionDate = *req.TransactionDate
	}

	tx, err := h.service.Append(c.Request.Context(), farmerID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, tx)
}

// List handles GET /inventory/items/:id/transactions.
func (h *LedgerHandler) List(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return
	}
	req.Defaults()

	filter := ledger.Filter{
		FromDate: req.FromDate,
		ToDate:   endOfDay(req.ToDate),
		Limit:    req.PageSize,
		Offset:   req.Offset(),
	}
	if req.Kind != nil {
		kind := ledger.Kind(*req.Kind)
		filter.Kind = &kind
	}
	if req.BatchID != nil {
		batchID, err := id.Parse(*req.BatchID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid batchId"))
			return
		}
		filter.BatchID = &batchID
	}

	txs, err := h.service.ListByItem(c.Request.Context(), farmerID, itemID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: txs, Count: len(txs)})
}

// endOfDay widens a date-only upper bound to include the whole day.
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	end := t.Add(24*time.Hour - time.Nanosecond)
	return &end
}
