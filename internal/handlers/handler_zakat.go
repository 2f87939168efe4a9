package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/SscSPs/hifzmaal_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// zakatHandler serves zakat calculations, payments and the nisab lookup.
type zakatHandler struct {
	zakatService  portssvc.ZakatSvcFacade
	nisabService  portssvc.NisabSvc
	familyService portssvc.FamilyReaderSvc
}

func newZakatHandler(zs portssvc.ZakatSvcFacade, ns portssvc.NisabSvc, fs portssvc.FamilyReaderSvc) *zakatHandler {
	return &zakatHandler{zakatService: zs, nisabService: ns, familyService: fs}
}

// RegisterZakatRoutes registers zakat routes on a family scoped group.
func RegisterZakatRoutes(rg *gin.RouterGroup, zakatService portssvc.ZakatSvcFacade, nisabService portssvc.NisabSvc, familyService portssvc.FamilyReaderSvc) {
	h := newZakatHandler(zakatService, nisabService, familyService)

	zakat := rg.Group("/zakat")
	{
		zakat.POST("", h.calculateZakat)
		zakat.GET("", h.listCalculations)
		zakat.GET("/history", h.getHistory)
		zakat.GET("/nisab", h.getNisab)
		zakat.POST("/auto-calculate", h.autoCalculate)
		zakat.GET("/:calculationID", h.getCalculation)
		zakat.DELETE("/:calculationID", h.deleteCalculation)
		zakat.GET("/:calculationID/payments", h.listPayments)
		zakat.POST("/:calculationID/payments", h.recordPayment)
	}
}

// calculateZakat godoc
// @Summary Calculate zakat for a Hijri year
// @Description Declares the family's assets for a Hijri year. Recalculating a year keeps the payments already made. hijriYear defaults to the current year.
// @Tags zakat
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param calculation body dto.CalculateZakatRequest true "Asset snapshot"
// @Success 200 {object} dto.ZakatCalculationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat [post]
func (h *zakatHandler) calculateZakat(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.CalculateZakatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	calc, err := h.zakatService.CalculateZakat(c.Request.Context(), familyID, req.HijriYear, req.Snapshot(), req.NisabType, req.Notes, userID)
	if err != nil {
		respondError(c, logger, err, "calculate zakat")
		return
	}

	logger.Info("Zakat calculated",
		slog.Int("hijri_year", calc.HijriYear),
		slog.String("zakat_due", utils.FormatAmount(calc.ZakatDue)))
	c.JSON(http.StatusOK, dto.ToZakatCalculationResponse(calc))
}

// autoCalculate godoc
// @Summary Calculate zakat from account balances
// @Description Cash accounts count as cash in hand, bank and savings accounts as cash in bank. Nisab uses silver.
// @Tags zakat
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param request body dto.AutoCalculateZakatRequest false "Hijri year"
// @Success 200 {object} dto.ZakatCalculationResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat/auto-calculate [post]
func (h *zakatHandler) autoCalculate(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.AutoCalculateZakatRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, logger, "request body", err)
			return
		}
	}

	calc, err := h.zakatService.AutoCalculateFromAccounts(c.Request.Context(), familyID, req.HijriYear, userID)
	if err != nil {
		respondError(c, logger, err, "auto-calculate zakat")
		return
	}
	c.JSON(http.StatusOK, dto.ToZakatCalculationResponse(calc))
}

// listCalculations godoc
// @Summary List zakat calculations
// @Tags zakat
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 200 {array} dto.ZakatCalculationResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat [get]
func (h *zakatHandler) listCalculations(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	calcs, err := h.zakatService.ListCalculations(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, logger, err, "list zakat calculations")
		return
	}
	resp := make([]dto.ZakatCalculationResponse, len(calcs))
	for i := range calcs {
		resp[i] = dto.ToZakatCalculationResponse(&calcs[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getHistory godoc
// @Summary Zakat history
// @Description Due, paid and remaining per Hijri year, newest first
// @Tags zakat
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 200 {object} dto.ZakatHistoryResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat/history [get]
func (h *zakatHandler) getHistory(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	history, err := h.zakatService.GetZakatHistory(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, logger, err, "get zakat history")
		return
	}
	c.JSON(http.StatusOK, dto.ZakatHistoryResponse{
		CurrentHijriYear: h.zakatService.CurrentHijriYear(),
		History:          history,
	})
}

// getNisab godoc
// @Summary Nisab threshold
// @Description Grams of gold or silver times the price per gram. currency defaults to the family currency.
// @Tags zakat
// @Produce json
// @Param familyID path string true "Family ID"
// @Param type query string false "gold or silver" default(silver)
// @Param currency query string false "ISO currency code"
// @Success 200 {object} dto.NisabResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat/nisab [get]
func (h *zakatHandler) getNisab(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var params dto.NisabParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "query parameters", err)
		return
	}

	// Also checks membership.
	family, err := h.familyService.GetFamily(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, logger, err, "get nisab")
		return
	}
	currency := strings.ToUpper(params.CurrencyCode)
	if currency == "" {
		currency = family.CurrencyCode
	}

	nisabType := domain.NisabType(params.NisabType)
	c.JSON(http.StatusOK, dto.NisabResponse{
		NisabType:    nisabType,
		CurrencyCode: currency,
		Grams:        nisabType.Grams(),
		NisabAmount:  h.nisabService.GetNisabAmount(c.Request.Context(), nisabType, currency),
	})
}

// getCalculation godoc
// @Summary Get a zakat calculation
// @Tags zakat
// @Produce json
// @Param familyID path string true "Family ID"
// @Param calculationID path string true "Calculation ID"
// @Success 200 {object} dto.ZakatCalculationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat/{calculationID} [get]
func (h *zakatHandler) getCalculation(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	calc, err := h.zakatService.GetCalculation(c.Request.Context(), familyID, c.Param("calculationID"), userID)
	if err != nil {
		respondError(c, logger, err, "get zakat calculation")
		return
	}
	c.JSON(http.StatusOK, dto.ToZakatCalculationResponse(calc))
}

// deleteCalculation godoc
// @Summary Delete a zakat calculation
// @Description Owners only. Calculations with payments cannot be deleted.
// @Tags zakat
// @Param familyID path string true "Family ID"
// @Param calculationID path string true "Calculation ID"
// @Success 204 "No Content"
// @Failure 409 {object} dto.ErrorResponse "Payments recorded"
// @Security BearerAuth
// @Router /families/{familyID}/zakat/{calculationID} [delete]
func (h *zakatHandler) deleteCalculation(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	if err := h.zakatService.DeleteCalculation(c.Request.Context(), familyID, c.Param("calculationID"), userID); err != nil {
		respondError(c, logger, err, "delete zakat calculation")
		return
	}
	c.Status(http.StatusNoContent)
}

// listPayments godoc
// @Summary List payments of a calculation
// @Tags zakat
// @Produce json
// @Param familyID path string true "Family ID"
// @Param calculationID path string true "Calculation ID"
// @Success 200 {object} dto.ListZakatPaymentsResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat/{calculationID}/payments [get]
func (h *zakatHandler) listPayments(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	payments, err := h.zakatService.ListPayments(c.Request.Context(), familyID, c.Param("calculationID"), userID)
	if err != nil {
		respondError(c, logger, err, "list zakat payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListZakatPaymentsResponse(payments))
}

// recordPayment godoc
// @Summary Record a zakat payment
// @Description Adds the amount to the calculation's paid total. Overpayment is accepted.
// @Tags zakat
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param calculationID path string true "Calculation ID"
// @Param payment body dto.RecordZakatPaymentRequest true "Payment"
// @Success 201 {object} dto.RecordZakatPaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/zakat/{calculationID}/payments [post]
func (h *zakatHandler) recordPayment(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.RecordZakatPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	payment, calc, err := h.zakatService.RecordPayment(c.Request.Context(), familyID, c.Param("calculationID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "record zakat payment")
		return
	}

	logger.Info("Zakat payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("zakat_remaining", utils.FormatAmount(calc.ZakatRemaining)))
	c.JSON(http.StatusCreated, dto.RecordZakatPaymentResponse{
		Payment:     dto.ToZakatPaymentResponse(payment),
		Calculation: dto.ToZakatCalculationResponse(calc),
	})
}
