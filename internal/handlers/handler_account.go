package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers routes related to accounts on a family scoped group.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a cash, bank, wallet, savings or investment account. Its balance starts at the initial balance.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   familyID path string true "Family ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member or role too low"
// @Failure 500 {object} dto.ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /families/{familyID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request format", err)
		return
	}

	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("currency_code", req.CurrencyCode))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), familyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   familyID path string true "Family ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /families/{familyID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), familyID, accountID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List the accounts of a family
// @Description Returns the accounts and the total balance of the active ones
// @Tags accounts
// @Produce  json
// @Param   familyID path string true "Family ID"
// @Param   include_inactive query bool false "Include inactive accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /families/{familyID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "query parameters", err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), familyID, params.IncludeInactive, userID)
	if err != nil {
		respondError(c, logger, err, "list accounts")
		return
	}

	logger.Debug("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates descriptive fields. The balance only moves through transactions.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   familyID path string true "Family ID"
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /families/{familyID}/accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}
	accountID := c.Param("accountID")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request format", err)
		return
	}

	updatedAccount, err := h.accountService.UpdateAccount(c.Request.Context(), familyID, accountID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(updatedAccount))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Marks an account as deleted (soft delete)
// @Tags accounts
// @Param   familyID path string true "Family ID"
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /families/{familyID}/accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}
	accountID := c.Param("accountID")

	if err := h.accountService.DeleteAccount(c.Request.Context(), familyID, accountID, userID); err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "delete account")
		return
	}

	logger.Info("Account deleted successfully", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}
