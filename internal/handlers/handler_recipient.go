package handlers

import (
	"net/http"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type recipientHandler struct {
	recipientService portssvc.RecipientSvc
}

func registerRecipientRoutes(rg *gin.RouterGroup, recipientService portssvc.RecipientSvc) {
	h := &recipientHandler{recipientService: recipientService}

	recipients := rg.Group("/zakat-recipients")
	{
		recipients.POST("", h.createRecipient)
		recipients.GET("", h.listRecipients)
		recipients.GET("/:recipientID", h.getRecipient)
		recipients.PUT("/:recipientID", h.updateRecipient)
		recipients.DELETE("/:recipientID", h.deleteRecipient)
	}
}

// createRecipient godoc
// @Summary Register a zakat recipient
// @Tags zakat
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param recipient body dto.CreateRecipientRequest true "Recipient"
// @Success 201 {object} dto.RecipientResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat-recipients [post]
func (h *recipientHandler) createRecipient(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.CreateRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	recipient, err := h.recipientService.CreateRecipient(c.Request.Context(), familyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "create recipient")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecipientResponse(recipient))
}

// listRecipients godoc
// @Summary List zakat recipients
// @Tags zakat
// @Produce json
// @Param familyID path string true "Family ID"
// @Param category query string false "Recipient category"
// @Success 200 {object} dto.ListRecipientsResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat-recipients [get]
func (h *recipientHandler) listRecipients(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var params dto.ListRecipientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "query parameters", err)
		return
	}
	var category *domain.RecipientCategory
	if params.Category != "" {
		rc := domain.RecipientCategory(params.Category)
		category = &rc
	}

	recipients, err := h.recipientService.ListRecipients(c.Request.Context(), familyID, category, userID)
	if err != nil {
		respondError(c, logger, err, "list recipients")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRecipientsResponse(recipients))
}

// getRecipient godoc
// @Summary Get a zakat recipient
// @Tags zakat
// @Produce json
// @Param familyID path string true "Family ID"
// @Param recipientID path string true "Recipient ID"
// @Success 200 {object} dto.RecipientResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat-recipients/{recipientID} [get]
func (h *recipientHandler) getRecipient(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	recipient, err := h.recipientService.GetRecipient(c.Request.Context(), familyID, c.Param("recipientID"), userID)
	if err != nil {
		respondError(c, logger, err, "get recipient")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecipientResponse(recipient))
}

// updateRecipient godoc
// @Summary Update a zakat recipient
// @Tags zakat
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param recipientID path string true "Recipient ID"
// @Param recipient body dto.UpdateRecipientRequest true "Fields to change"
// @Success 200 {object} dto.RecipientResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat-recipients/{recipientID} [put]
func (h *recipientHandler) updateRecipient(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.UpdateRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	recipient, err := h.recipientService.UpdateRecipient(c.Request.Context(), familyID, c.Param("recipientID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update recipient")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecipientResponse(recipient))
}

// deleteRecipient godoc
// @Summary Delete a zakat recipient
// @Description Past payments keep the recipient name
// @Tags zakat
// @Param familyID path string true "Family ID"
// @Param recipientID path string true "Recipient ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /families/{familyID}/zakat-recipients/{recipientID} [delete]
func (h *recipientHandler) deleteRecipient(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	if err := h.recipientService.DeleteRecipient(c.Request.Context(), familyID, c.Param("recipientID"), userID); err != nil {
		respondError(c, logger, err, "delete recipient")
		return
	}
	c.Status(http.StatusNoContent)
}
