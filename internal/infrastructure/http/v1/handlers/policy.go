package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BINABASS091/fugajiSmart-back/internal/domain/inventory/policy"
	"github.com/BINABASS091/fugajiSmart-back/internal/infrastructure/http/v1/dto"
)

// PolicyHandler serves the reorder policy optimization endpoint.
type PolicyHandler struct {
	*BaseHandler
	optimizer *policy.Optimizer
}

func NewPolicyHandler(optimizer *policy.Optimizer) *PolicyHandler {
	return &PolicyHandler{BaseHandler: NewBaseHandler(), optimizer: optimizer}
}

// Optimize handles POST /inventory/items/:id/policy/optimize.
func (h *PolicyHandler) Optimize(c *gin.Context) {
	farmerID, ok := h.FarmerID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.OptimizePolicyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.optimizer.Optimize(c.Request.Context(), farmerID, itemID, policy.Input{
		DemandMean:      req.DemandMean,
		DemandStdDev:    req.DemandStdDev,
		LeadTimeDays:    req.LeadTimeDays,
		OrderingCost:    req.OrderingCost,
		HoldingCostRate: req.HoldingCostRate,
		ServiceLevelPct: req.ServiceLevelPct,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
