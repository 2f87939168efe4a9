package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/SscSPs/hifzmaal_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// familyHandler handles HTTP requests related to families and their members.
type familyHandler struct {
	familyService portssvc.FamilySvcFacade
}

func newFamilyHandler(fs portssvc.FamilySvcFacade) *familyHandler {
	return &familyHandler{familyService: fs}
}

// registerFamilyRoutes registers the top level family routes and member management.
func registerFamilyRoutes(rg *gin.RouterGroup, familyService portssvc.FamilySvcFacade) {
	h := newFamilyHandler(familyService)

	families := rg.Group("/families")
	{
		families.POST("", h.createFamily)
		families.GET("", h.listMyFamilies)
	}

	family := rg.Group("/families/:familyID")
	{
		family.GET("", h.getFamily)
		family.PUT("", h.updateFamily)

		members := family.Group("/members")
		members.GET("", h.listMembers)
		members.POST("", h.addMember)
		members.PUT("/:userID", h.updateMember)
		members.DELETE("/:userID", h.removeMember)
	}
}

// createFamily godoc
// @Summary Create a family
// @Description Creates a family with the calling user as its owner
// @Tags families
// @Accept json
// @Produce json
// @Param family body dto.CreateFamilyRequest true "Family details"
// @Success 201 {object} dto.FamilyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families [post]
func (h *familyHandler) createFamily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	family, err := h.familyService.CreateFamily(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create family")
		return
	}

	logger.Info("Family created", slog.String("family_id", family.FamilyID))
	c.JSON(http.StatusCreated, dto.ToFamilyResponse(family))
}

// listMyFamilies godoc
// @Summary List my families
// @Tags families
// @Produce json
// @Success 200 {object} dto.ListFamiliesResponse
// @Security BearerAuth
// @Router /families [get]
func (h *familyHandler) listMyFamilies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	families, err := h.familyService.ListUserFamilies(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "list families")
		return
	}
	c.JSON(http.StatusOK, dto.ToListFamiliesResponse(families))
}

// getFamily godoc
// @Summary Get a family
// @Tags families
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 200 {object} dto.FamilyResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID} [get]
func (h *familyHandler) getFamily(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	family, err := h.familyService.GetFamily(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, logger, err, "get family")
		return
	}
	c.JSON(http.StatusOK, dto.ToFamilyResponse(family))
}

// updateFamily godoc
// @Summary Update a family
// @Description Owners may rename the family or change its currency
// @Tags families
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param family body dto.UpdateFamilyRequest true "Fields to change"
// @Success 200 {object} dto.FamilyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID} [put]
func (h *familyHandler) updateFamily(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	family, err := h.familyService.UpdateFamily(c.Request.Context(), familyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "update family")
		return
	}
	c.JSON(http.StatusOK, dto.ToFamilyResponse(family))
}

// listMembers godoc
// @Summary List family members
// @Tags members
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 200 {object} dto.ListMembersResponse
// @Security BearerAuth
// @Router /families/{familyID}/members [get]
func (h *familyHandler) listMembers(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	members, err := h.familyService.ListMembers(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, logger, err, "list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMembersResponse(members))
}

// addMember godoc
// @Summary Add a member
// @Tags members
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param member body dto.AddMemberRequest true "Member"
// @Success 201 {object} dto.MemberResponse
// @Failure 403 {object} dto.ErrorResponse "Only owners manage members"
// @Failure 409 {object} dto.ErrorResponse "Already a member"
// @Security BearerAuth
// @Router /families/{familyID}/members [post]
func (h *familyHandler) addMember(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	member, err := h.familyService.AddMember(c.Request.Context(), familyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "add member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// updateMember godoc
// @Summary Update a member
// @Description Change role, spending limit or active flag. The last owner cannot be demoted.
// @Tags members
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param userID path string true "Member user ID"
// @Param member body dto.UpdateMemberRequest true "Fields to change"
// @Success 200 {object} dto.MemberResponse
// @Failure 409 {object} dto.ErrorResponse "Last owner"
// @Security BearerAuth
// @Router /families/{familyID}/members/{userID} [put]
func (h *familyHandler) updateMember(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	member, err := h.familyService.UpdateMember(c.Request.Context(), familyID, c.Param("userID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// removeMember godoc
// @Summary Remove a member
// @Tags members
// @Param familyID path string true "Family ID"
// @Param userID path string true "Member user ID"
// @Success 204 "No Content"
// @Failure 409 {object} dto.ErrorResponse "Last owner"
// @Security BearerAuth
// @Router /families/{familyID}/members/{userID} [delete]
func (h *familyHandler) removeMember(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	if err := h.familyService.RemoveMember(c.Request.Context(), familyID, c.Param("userID"), userID); err != nil {
		respondError(c, logger, err, "remove member")
		return
	}
	c.Status(http.StatusNoContent)
}
