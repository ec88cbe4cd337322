package v1

import (
	"net/http"

	"github.com/billforge/billforge/internal/api/dto"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/service"
	"github.com/billforge/billforge/internal/types"
	"github.com/gin-gonic/gin"
)

type NumberingHandler struct {
	service service.NumberingService
	logger  *logger.Logger
}

func NewNumberingHandler(service service.NumberingService, logger *logger.Logger) *NumberingHandler {
	return &NumberingHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Allocate the next document number
// @Description Issue the next number for a document kind. Numbers are unique and strictly increasing per account and kind.
// @Tags Numbering
// @Accept json
// @Produce json
// @Param request body dto.NextNumberRequest true "Document to number"
// @Success 200 {object} dto.NextNumberResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 503 {object} ierr.ErrorResponse
// @Router /documents/next-number [post]
func (h *NumberingHandler) NextNumber(c *gin.Context) {
	var req dto.NextNumberRequest
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

	resp, err := h.service.NextDocumentNumber(c.Request.Context(), req.AccountID, req.DocumentKind)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get numbering settings
// @Description Numbering preferences for a document kind, plus the live counter state when one exists
// @Tags Numbering
// @Produce json
// @Param id path string true "Account ID"
// @Param kind query string false "Document kind" default(invoice)
// @Success 200 {object} dto.NumberingSettingsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts/{id}/numbering [get]
func (h *NumberingHandler) GetSettings(c *gin.Context) {
	kind := types.DocumentKind(c.DefaultQuery("kind", string(types.DocumentKindInvoice)))

	resp, err := h.service.GetNumberingSettings(c.Request.Context(), c.Param("id"), kind)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update numbering settings
// @Description Save prefix and starting-number preferences. They seed counters not yet created; existing counters keep numbering continuously.
// @Tags Numbering
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body dto.UpdateNumberingSettingsRequest true "Numbering preferences"
// @Success 200 {object} dto.NumberingSettingsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /accounts/{id}/numbering [put]
func (h *NumberingHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateNumberingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateNumberingSettings(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
