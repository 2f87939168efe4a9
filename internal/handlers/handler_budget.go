package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type budgetHandler struct {
	budgetService portssvc.BudgetSvc
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvc) {
	h := &budgetHandler{budgetService: budgetService}

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:budgetID", h.getBudget)
		budgets.PUT("/:budgetID", h.updateBudget)
		budgets.DELETE("/:budgetID", h.deleteBudget)
		budgets.GET("/:budgetID/usage", h.getBudgetUsage)
	}
}

// createBudget godoc
// @Summary Create a budget
// @Description Caps spending of an expense category over a date range. alertThreshold defaults to 80 percent.
// @Tags budgets
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param budget body dto.CreateBudgetRequest true "Budget"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), familyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "create budget")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Param familyID path string true "Family ID"
// @Param active_only query bool false "Only active budgets"
// @Success 200 {object} dto.ListBudgetsResponse
// @Security BearerAuth
// @Router /families/{familyID}/budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "query parameters", err)
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), familyID, params.ActiveOnly, userID)
	if err != nil {
		respondError(c, logger, err, "list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBudgetsResponse(budgets))
}

// getBudget godoc
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Param familyID path string true "Family ID"
// @Param budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/budgets/{budgetID} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), familyID, c.Param("budgetID"), userID)
	if err != nil {
		respondError(c, logger, err, "get budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// updateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param budgetID path string true "Budget ID"
// @Param budget body dto.UpdateBudgetRequest true "Fields to change"
// @Success 200 {object} dto.BudgetResponse
// @Security BearerAuth
// @Router /families/{familyID}/budgets/{budgetID} [put]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), familyID, c.Param("budgetID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// deleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param familyID path string true "Family ID"
// @Param budgetID path string true "Budget ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /families/{familyID}/budgets/{budgetID} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), familyID, c.Param("budgetID"), userID); err != nil {
		respondError(c, logger, err, "delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// getBudgetUsage godoc
// @Summary Budget usage
// @Description Approved spending of the budget's category within its date range
// @Tags budgets
// @Produce json
// @Param familyID path string true "Family ID"
// @Param budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetUsageResponse
// @Security BearerAuth
// @Router /families/{familyID}/budgets/{budgetID}/usage [get]
func (h *budgetHandler) getBudgetUsage(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	usage, err := h.budgetService.GetBudgetUsage(c.Request.Context(), familyID, c.Param("budgetID"), userID)
	if err != nil {
		respondError(c, logger, err, "get budget usage")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetUsageResponse(usage))
}
