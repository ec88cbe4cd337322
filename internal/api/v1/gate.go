package v1

import (
	"net/http"

	"github.com/billforge/billforge/internal/api/dto"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/service"
	"github.com/gin-gonic/gin"
)

type GateHandler struct {
	service service.SubscriptionGateService
	logger  *logger.Logger
}

func NewGateHandler(service service.SubscriptionGateService, logger *logger.Logger) *GateHandler {
	return &GateHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Authorize a metered action
// @Description Check an action against the account's plan limits and consume one unit of quota when approved
// @Tags Authorization
// @Accept json
// @Produce json
// @Param request body dto.AuthorizeRequest true "Action to authorize"
// @Success 200 {object} dto.AuthorizeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 429 {object} ierr.ErrorResponse
// @Router /authorize [post]
func (h *GateHandler) Authorize(c *gin.Context) {
	var req dto.AuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.Authorize(c.Request.Context(), req.AccountID, req.Action)
	if err != nil {
		c.Error(err)
		return
	}

	// A denial is a valid outcome, not an error: the body carries the
	// decision with the limit and usage so callers can render messages
	// like "4/4 emails used this month"
	status := http.StatusOK
	if !resp.Approved() {
		status = http.StatusTooManyRequests
	}
	c.JSON(status, resp)
}

// @Summary Check template availability
// @Description Report whether the account's plan includes a document template
// @Tags Authorization
// @Produce json
// @Param id path string true "Account ID"
// @Param template_id path string true "Template ID"
// @Success 200 {object} dto.TemplateCheckResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts/{id}/templates/{template_id} [get]
func (h *GateHandler) CheckTemplate(c *gin.Context) {
	resp, err := h.service.CanUseTemplate(c.Request.Context(), c.Param("id"), c.Param("template_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get current usage
// @Description Current billing period usage for each counter with the plan limits
// @Tags Usage
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.UsageResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts/{id}/usage [get]
func (h *GateHandler) GetUsage(c *gin.Context) {
	resp, err := h.service.GetCurrentUsage(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get usage history
// @Description Usage records for past billing periods, newest first
// @Tags Usage
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.UsageHistoryResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts/{id}/usage/history [get]
func (h *GateHandler) GetUsageHistory(c *gin.Context) {
	resp, err := h.service.GetUsageHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
