package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to family dashboard reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	// Routes for reports are nested under a specific family
	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/category-expenses", h.getCategoryExpenses)
		reportingGroup.GET("/monthly-trend", h.getMonthlyTrend)
	}
}

// getCategoryExpenses godoc
// @Summary Category-wise expenses
// @Description Approved expenses of one month grouped by category, largest first
// @Tags reports
// @Produce json
// @Param familyID path string true "Family ID"
// @Param month query int false "Month (1-12), defaults to the current month"
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {object} dto.CategoryExpensesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /families/{familyID}/reports/category-expenses [get]
func (h *reportingHandler) getCategoryExpenses(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var params dto.CategoryExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "query parameters", err)
		return
	}

	logger = logger.With(slog.Int("month", params.Month), slog.Int("year", params.Year))
	logger.Info("Generating category expense report")

	categories, err := h.reportingService.GetCategoryWiseExpenses(c.Request.Context(), familyID, params.Month, params.Year, userID)
	if err != nil {
		respondError(c, logger, err, "generate category expense report")
		return
	}

	month, year := params.Month, params.Year
	if month == 0 || year == 0 {
		now := time.Now().UTC()
		if month == 0 {
			month = int(now.Month())
		}
		if year == 0 {
			year = now.Year()
		}
	}
	c.JSON(http.StatusOK, dto.CategoryExpensesResponse{Month: month, Year: year, Categories: categories})
}

// getMonthlyTrend godoc
// @Summary Monthly income and expense trend
// @Description Income, expense and net per month for the last N months, oldest first
// @Tags reports
// @Produce json
// @Param familyID path string true "Family ID"
// @Param months query int false "Number of months (1-24)" default(6)
// @Success 200 {object} dto.MonthlyTrendResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /families/{familyID}/reports/monthly-trend [get]
func (h *reportingHandler) getMonthlyTrend(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var params dto.MonthlyTrendParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "query parameters", err)
		return
	}

	months, err := h.reportingService.GetMonthlyTrend(c.Request.Context(), familyID, params.Months, userID)
	if err != nil {
		respondError(c, logger, err, "generate monthly trend")
		return
	}
	c.JSON(http.StatusOK, dto.MonthlyTrendResponse{Months: months})
}
