package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type billHandler struct {
	billService portssvc.BillSvc
}

// RegisterBillRoutes registers bill routes on a family scoped group.
func RegisterBillRoutes(rg *gin.RouterGroup, billService portssvc.BillSvc) {
	h := &billHandler{billService: billService}

	bills := rg.Group("/bills")
	{
		bills.POST("", h.createBill)
		bills.GET("", h.listBills)
		bills.GET("/upcoming", h.getUpcomingBills)
		bills.GET("/overdue", h.getOverdueBills)
		bills.GET("/statistics", h.getBillStatistics)
		bills.GET("/:billID", h.getBill)
		bills.PUT("/:billID", h.updateBill)
		bills.DELETE("/:billID", h.deleteBill)
		bills.POST("/:billID/mark-paid", h.markBillPaid)
		bills.GET("/:billID/estimate", h.estimateNextBill)
	}
}

// createBill godoc
// @Summary Create a bill
// @Description Registers a bill against an expense category. is_recurring defaults to true and reminder_days to 3.
// @Tags bills
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param bill body dto.CreateBillRequest true "Bill"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/bills [post]
func (h *billHandler) createBill(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), familyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "create bill")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// listBills godoc
// @Summary List bills
// @Tags bills
// @Produce json
// @Param familyID path string true "Family ID"
// @Param status query string false "pending, paid or overdue"
// @Param type query string false "Bill type"
// @Success 200 {object} dto.ListBillsResponse
// @Security BearerAuth
// @Router /families/{familyID}/bills [get]
func (h *billHandler) listBills(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var params dto.ListBillsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "query parameters", err)
		return
	}

	bills, err := h.billService.ListBills(c.Request.Context(), familyID, params.Filter(), userID)
	if err != nil {
		respondError(c, logger, err, "list bills")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBillsResponse(bills))
}

// getUpcomingBills godoc
// @Summary Upcoming bills
// @Description Unpaid bills due between today and today plus days. days defaults to 7.
// @Tags bills
// @Produce json
// @Param familyID path string true "Family ID"
// @Param days query int false "Look-ahead in days (1-90)"
// @Success 200 {object} dto.ListDueBillsResponse
// @Security BearerAuth
// @Router /families/{familyID}/bills/upcoming [get]
func (h *billHandler) getUpcomingBills(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var params dto.UpcomingBillsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "query parameters", err)
		return
	}

	bills, err := h.billService.GetUpcomingBills(c.Request.Context(), familyID, params.Days, userID)
	if err != nil {
		respondError(c, logger, err, "list upcoming bills")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDueBillsResponse(bills, h.billService.Today()))
}

// getOverdueBills godoc
// @Summary Overdue bills
// @Tags bills
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 200 {object} dto.ListDueBillsResponse
// @Security BearerAuth
// @Router /families/{familyID}/bills/overdue [get]
func (h *billHandler) getOverdueBills(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	bills, err := h.billService.GetOverdueBills(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, logger, err, "list overdue bills")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDueBillsResponse(bills, h.billService.Today()))
}

// getBillStatistics godoc
// @Summary Bill statistics
// @Tags bills
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 200 {object} domain.BillStatistics
// @Security BearerAuth
// @Router /families/{familyID}/bills/statistics [get]
func (h *billHandler) getBillStatistics(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	stats, err := h.billService.GetBillStatistics(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, logger, err, "get bill statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getBill godoc
// @Summary Get a bill
// @Tags bills
// @Produce json
// @Param familyID path string true "Family ID"
// @Param billID path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/bills/{billID} [get]
func (h *billHandler) getBill(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), familyID, c.Param("billID"), userID)
	if err != nil {
		respondError(c, logger, err, "get bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

// updateBill godoc
// @Summary Update a bill
// @Description Only unpaid bills can be changed.
// @Tags bills
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param billID path string true "Bill ID"
// @Param bill body dto.UpdateBillRequest true "Fields to change"
// @Success 200 {object} dto.BillResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/bills/{billID} [put]
func (h *billHandler) updateBill(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), familyID, c.Param("billID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

// deleteBill godoc
// @Summary Delete a bill
// @Tags bills
// @Param familyID path string true "Family ID"
// @Param billID path string true "Bill ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /families/{familyID}/bills/{billID} [delete]
func (h *billHandler) deleteBill(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	if err := h.billService.DeleteBill(c.Request.Context(), familyID, c.Param("billID"), userID); err != nil {
		respondError(c, logger, err, "delete bill")
		return
	}
	c.Status(http.StatusNoContent)
}

// markBillPaid godoc
// @Summary Mark a bill paid
// @Description Pays an unpaid bill. A recurring bill gets its next period created in the same transaction.
// @Tags bills
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param billID path string true "Bill ID"
// @Param payment body dto.MarkBillPaidRequest false "Payment details"
// @Success 200 {object} dto.BillPaymentResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/bills/{billID}/mark-paid [post]
func (h *billHandler) markBillPaid(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.MarkBillPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, logger, "request body", err)
			return
		}
	}

	payment, err := h.billService.MarkBillPaid(c.Request.Context(), familyID, c.Param("billID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "mark bill paid")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillPaymentResponse(payment))
}

// estimateNextBill godoc
// @Summary Estimate the next bill
// @Description Uses the average amount when set, else the mean of the last three paid bills of the same name.
// @Tags bills
// @Produce json
// @Param familyID path string true "Family ID"
// @Param billID path string true "Bill ID"
// @Success 200 {object} domain.BillEstimate
// @Security BearerAuth
// @Router /families/{familyID}/bills/{billID}/estimate [get]
func (h *billHandler) estimateNextBill(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	estimate, err := h.billService.EstimateNextBill(c.Request.Context(), familyID, c.Param("billID"), userID)
	if err != nil {
		respondError(c, logger, err, "estimate bill")
		return
	}
	c.JSON(http.StatusOK, estimate)
}
