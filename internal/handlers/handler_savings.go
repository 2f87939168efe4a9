package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type savingsHandler struct {
	savingsService portssvc.SavingsGoalSvc
}

// RegisterSavingsRoutes registers savings goal routes on a family scoped group.
func RegisterSavingsRoutes(rg *gin.RouterGroup, savingsService portssvc.SavingsGoalSvc) {
	h := &savingsHandler{savingsService: savingsService}

	goals := rg.Group("/savings-goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/overview", h.getOverview)
		goals.GET("/:goalID", h.getGoal)
		goals.PUT("/:goalID", h.updateGoal)
		goals.DELETE("/:goalID", h.deleteGoal)
		goals.POST("/:goalID/contribute", h.contribute)
	}
}

// createGoal godoc
// @Summary Create a savings goal
// @Tags savings
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param goal body dto.CreateSavingsGoalRequest true "Savings goal"
// @Success 201 {object} dto.SavingsGoalResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/savings-goals [post]
func (h *savingsHandler) createGoal(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.CreateSavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	goal, err := h.savingsService.CreateGoal(c.Request.Context(), familyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "create savings goal")
		return
	}
	c.JSON(http.StatusCreated, dto.NewSavingsGoalResponse(goal, h.savingsService.Today()))
}

// listGoals godoc
// @Summary List savings goals
// @Tags savings
// @Produce json
// @Param familyID path string true "Family ID"
// @Param is_active query bool false "Filter by active flag"
// @Param type query string false "Goal type"
// @Success 200 {object} dto.ListSavingsGoalsResponse
// @Security BearerAuth
// @Router /families/{familyID}/savings-goals [get]
func (h *savingsHandler) listGoals(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var params dto.ListSavingsGoalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "query parameters", err)
		return
	}

	goals, err := h.savingsService.ListGoals(c.Request.Context(), familyID, params.Filter(), userID)
	if err != nil {
		respondError(c, logger, err, "list savings goals")
		return
	}
	c.JSON(http.StatusOK, dto.ToListSavingsGoalsResponse(goals, h.savingsService.Today()))
}

// getOverview godoc
// @Summary Savings overview
// @Description Totals and progress over the active goals of the family
// @Tags savings
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 200 {object} dto.SavingsOverviewResponse
// @Security BearerAuth
// @Router /families/{familyID}/savings-goals/overview [get]
func (h *savingsHandler) getOverview(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	overview, err := h.savingsService.GetGoalsOverview(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, logger, err, "get savings overview")
		return
	}
	c.JSON(http.StatusOK, dto.ToSavingsOverviewResponse(overview))
}

// getGoal godoc
// @Summary Get a savings goal
// @Tags savings
// @Produce json
// @Param familyID path string true "Family ID"
// @Param goalID path string true "Goal ID"
// @Success 200 {object} dto.SavingsGoalResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/savings-goals/{goalID} [get]
func (h *savingsHandler) getGoal(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	goal, err := h.savingsService.GetGoal(c.Request.Context(), familyID, c.Param("goalID"), userID)
	if err != nil {
		respondError(c, logger, err, "get savings goal")
		return
	}
	c.JSON(http.StatusOK, dto.NewSavingsGoalResponse(goal, h.savingsService.Today()))
}

// updateGoal godoc
// @Summary Update a savings goal
// @Tags savings
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param goalID path string true "Goal ID"
// @Param goal body dto.UpdateSavingsGoalRequest true "Fields to change"
// @Success 200 {object} dto.SavingsGoalResponse
// @Security BearerAuth
// @Router /families/{familyID}/savings-goals/{goalID} [put]
func (h *savingsHandler) updateGoal(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.UpdateSavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	goal, err := h.savingsService.UpdateGoal(c.Request.Context(), familyID, c.Param("goalID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update savings goal")
		return
	}
	c.JSON(http.StatusOK, dto.NewSavingsGoalResponse(goal, h.savingsService.Today()))
}

// deleteGoal godoc
// @Summary Delete a savings goal
// @Description Owner only
// @Tags savings
// @Param familyID path string true "Family ID"
// @Param goalID path string true "Goal ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/savings-goals/{goalID} [delete]
func (h *savingsHandler) deleteGoal(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	if err := h.savingsService.DeleteGoal(c.Request.Context(), familyID, c.Param("goalID"), userID); err != nil {
		respondError(c, logger, err, "delete savings goal")
		return
	}
	c.Status(http.StatusNoContent)
}

// contribute godoc
// @Summary Contribute to a savings goal
// @Tags savings
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param goalID path string true "Goal ID"
// @Param contribution body dto.ContributeRequest true "Amount"
// @Success 200 {object} dto.ContributionResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/savings-goals/{goalID}/contribute [post]
func (h *savingsHandler) contribute(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	contribution, err := h.savingsService.Contribute(c.Request.Context(), familyID, c.Param("goalID"), req.Amount, userID)
	if err != nil {
		respondError(c, logger, err, "contribute to savings goal")
		return
	}
	c.JSON(http.StatusOK, dto.ToContributionResponse(contribution, h.savingsService.Today()))
}
