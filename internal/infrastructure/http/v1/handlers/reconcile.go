package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BINABASS091/fugajiSmart-back/internal/core/apperror"
	"github.com/BINABASS091/fugajiSmart-back/internal/core/id"
	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/reconcile"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/http/v1/dto"
)

// ReconcileHandler serves reconciliation and alert endpoints.
type ReconcileHandler struct {
	*BaseHandler
	service *reconcile.Service
}

func NewReconcileHandler(service *reconcile.Service) *ReconcileHandler {
	return &ReconcileHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Run handles POST /inventory/reconcile.
func (h *ReconcileHandler) Run(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}

	var req dto.ReconcileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	scope := reconcile.Scope{
		FarmerID: farmerID,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	}
	if req.BatchID != nil {
		batchID, err := id.Parse(*req.BatchID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid batchId"))
			return
		}
		scope.BatchID = &batchID
	}
	if req.ItemID != nil {
		itemID, err := id.Parse(*req.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId"))
			return
		}
		scope.ItemID = &itemID
	}

	report, err := h.service.Reconcile(c.Request.Context(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// EvaluateItem handles POST /inventory/items/:id/alerts/evaluate.
func (h *ReconcileHandler) EvaluateItem(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	alerts, err := h.service.EvaluateAlerts(c.Request.Context(), farmerID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: alerts, Count: len(alerts)})
}

// EvaluateFarm handles POST /inventory/alerts/evaluate.
func (h *ReconcileHandler) EvaluateFarm(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}

	alerts, err := h.service.EvaluateFarmAlerts(c.Request.Context(), farmerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: alerts, Count: len(alerts)})
}

// ListAlerts handles GET /inventory/alerts.
func (h *ReconcileHandler) ListAlerts(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}

	var req dto.ListAlertsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return
	}
	req.Defaults()

	filter := reconcile.AlertFilter{
		Resolved: req.Resolved,
		Limit:    req.PageSize,
		Offset:   req.Offset(),
	}
	if req.ItemID != nil {
		itemID, err := id.Parse(*req.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId"))
			return
		}
		filter.ItemID = &itemID
	}
	if req.Kind != nil {
		kind := reconcile.AlertKind(*req.Kind)
		filter.Kind = &kind
	}
	if req.Severity != nil {
		severity := reconcile.Severity(*req.Severity)
		filter.Severity = &severity
	}

	alerts, err := h.service.ListAlerts(c.Request.Context(), farmerID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: alerts, Count: len(alerts)})
}

// ResolveAlert handles POST /inventory/alerts/:id/resolve.
func (h *ReconcileHandler) ResolveAlert(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}
	alertID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.ResolveAlertRequest
	if !h.BindJSON(c, &req) {
		return
	}

	alert, err := h.service.ResolveAlert(c.Request.Context(), farmerID, alertID, h.UserID(c), req.Resolution)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, alert)
}
