package dto

import (
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,max=255"`
	AccountType    domain.AccountType `json:"type" binding:"required,oneof=cash bank wallet savings investment"`
	CurrencyCode   string             `json:"currency" binding:"omitempty,oneof=PKR USD EUR GBP SAR AED INR BDT"`
	InitialBalance decimal.Decimal    `json:"initial_balance"`
	IncludeInZakat *bool              `json:"include_in_zakat"` // Defaults to true
	Description    string             `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Balance is never updatable; it only moves through transactions.
type UpdateAccountRequest struct {
	Name           *string             `json:"name" binding:"omitempty,max=255"`
	AccountType    *domain.AccountType `json:"type" binding:"omitempty,oneof=cash bank wallet savings investment"`
	Description    *string             `json:"description"`
	IsActive       *bool               `json:"is_active"`
	IncludeInZakat *bool               `json:"include_in_zakat"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"account_id"`
	FamilyID       string             `json:"family_id"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"type"`
	CurrencyCode   string             `json:"currency"`
	Balance        decimal.Decimal    `json:"balance"`
	InitialBalance decimal.Decimal    `json:"initial_balance"`
	IsActive       bool               `json:"is_active"`
	IncludeInZakat bool               `json:"include_in_zakat"`
	Description    string             `json:"description"`
	CreatedAt      time.Time          `json:"created_at"`
	CreatedBy      string             `json:"created_by"`
	LastUpdatedAt  time.Time          `json:"last_updated_at"`
	LastUpdatedBy  string             `json:"last_updated_by"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		FamilyID:       acc.FamilyID,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		CurrencyCode:   acc.CurrencyCode,
		Balance:        acc.Balance,
		InitialBalance: acc.InitialBalance,
		IsActive:       acc.IsActive,
		IncludeInZakat: acc.IncludeInZakat,
		Description:    acc.Description,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeInactive bool `form:"include_inactive"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts     []AccountResponse `json:"accounts"`
	TotalBalance decimal.Decimal   `json:"total_balance"`
}

// ToListAccountsResponse converts accounts to DTO and totals active balances.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	resp := ListAccountsResponse{Accounts: make([]AccountResponse, len(accounts)), TotalBalance: decimal.Zero}
	for i := range accounts {
		resp.Accounts[i] = ToAccountResponse(&accounts[i])
		if accounts[i].IsActive {
			resp.TotalBalance = resp.TotalBalance.Add(accounts[i].Balance)
		}
	}
	return resp
}
