package v1

import (
	"net/http"

	"github.com/billforge/billforge/internal/domain/plan"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/types"
	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	logger *logger.Logger
}

func NewPlanHandler(logger *logger.Logger) *PlanHandler {
	return &PlanHandler{
		logger: logger,
	}
}

// @Summary List plans
// @Description All plan tiers with their limits and available templates
// @Tags Plans
// @Produce json
// @Success 200 {object} map[string][]plan.Limits
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": plan.ListLimits()})
}

// @Summary Get a plan
// @Description Limits and available templates for one plan tier
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} plan.Limits
// @Failure 500 {object} ierr.ErrorResponse
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	limits, err := plan.GetLimits(types.PlanID(c.Param("id")))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, limits)
}
