package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles the ledger endpoints.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// RegisterTransactionRoutes registers ledger routes on a family scoped group.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/pending", h.listPendingTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.PUT("/:transactionID", h.updateTransaction)
		txns.DELETE("/:transactionID", h.deleteTransaction)
		txns.POST("/:transactionID/approve", h.approveTransaction)
		txns.POST("/:transactionID/reject", h.rejectTransaction)
	}
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Records income, an expense or a transfer. Expenses above the member's spending limit wait for approval and leave balances untouched.
// @Tags transactions
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Insufficient balance or invalid transaction"
// @Security BearerAuth
// @Router /families/{familyID}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), familyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "create transaction")
		return
	}

	logger.Info("Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("status", string(txn.Status)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Newest first, with cursor pagination
// @Tags transactions
// @Produce json
// @Param familyID path string true "Family ID"
// @Param type query string false "income, expense or transfer"
// @Param status query string false "pending, approved or rejected"
// @Param account_id query string false "Source or destination account"
// @Param category_id query string false "Category"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param limit query int false "Page size" default(20)
// @Param next_token query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /families/{familyID}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "query parameters", err)
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondError(c, logger, err, "list transactions")
		return
	}

	txns, next, err := h.transactionService.ListTransactions(c.Request.Context(), familyID, filter, params.Limit, params.NextToken, userID)
	if err != nil {
		respondError(c, logger, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    next,
	})
}

// listPendingTransactions godoc
// @Summary List transactions waiting for approval
// @Tags transactions
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /families/{familyID}/transactions/pending [get]
func (h *transactionHandler) listPendingTransactions(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	txns, err := h.transactionService.ListPendingTransactions(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, logger, err, "list pending transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns)})
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param familyID path string true "Family ID"
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), familyID, c.Param("transactionID"), userID)
	if err != nil {
		respondError(c, logger, err, "get transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description The old balance effect is reverted and the new one applied in one database transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param transactionID path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResponse
// @Failure 422 {object} dto.ErrorResponse "Insufficient balance or invalid transaction"
// @Security BearerAuth
// @Router /families/{familyID}/transactions/{transactionID} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), familyID, c.Param("transactionID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Reverts the balance effect of an approved transaction and soft deletes it
// @Tags transactions
// @Param familyID path string true "Family ID"
// @Param transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /families/{familyID}/transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), familyID, c.Param("transactionID"), userID); err != nil {
		respondError(c, logger, err, "delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// approveTransaction godoc
// @Summary Approve a pending transaction
// @Tags transactions
// @Produce json
// @Param familyID path string true "Family ID"
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} dto.ErrorResponse "Only owners and approvers"
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/transactions/{transactionID}/approve [post]
func (h *transactionHandler) approveTransaction(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.ApproveTransaction(c.Request.Context(), familyID, c.Param("transactionID"), userID)
	if err != nil {
		respondError(c, logger, err, "approve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// rejectTransaction godoc
// @Summary Reject a pending transaction
// @Tags transactions
// @Produce json
// @Param familyID path string true "Family ID"
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 422 {object} dto.ErrorResponse "Transaction already approved"
// @Security BearerAuth
// @Router /families/{familyID}/transactions/{transactionID}/reject [post]
func (h *transactionHandler) rejectTransaction(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.RejectTransaction(c.Request.Context(), familyID, c.Param("transactionID"), userID)
	if err != nil {
		respondError(c, logger, err, "reject transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
