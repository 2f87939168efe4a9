package dto

import (
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a ledger transaction.
type CreateTransactionRequest struct {
	AccountID           string                     `json:"account_id" binding:"required"`
	CategoryID          string                     `json:"category_id" binding:"required"`
	Type                domain.TransactionType     `json:"type" binding:"required,oneof=income expense transfer"`
	Amount              decimal.Decimal            `json:"amount" binding:"money"`
	Date                string                     `json:"date" binding:"required,datetime=2006-01-02"`
	Description         string                     `json:"description" binding:"max=500"`
	Notes               string                     `json:"notes"`
	TransferToAccountID *string                    `json:"transfer_to_account_id"`
	IsRecurring         bool                       `json:"is_recurring"`
	RecurringFrequency  *domain.RecurringFrequency `json:"recurring_frequency" binding:"omitempty,oneof=daily weekly monthly yearly"`
	RecurringEndDate    *string                    `json:"recurring_end_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateTransactionRequest defines the fields that may change on a transaction.
// Omitted fields keep their current values.
type UpdateTransactionRequest struct {
	AccountID           *string                 `json:"account_id"`
	CategoryID          *string                 `json:"category_id"`
	Type                *domain.TransactionType `json:"type" binding:"omitempty,oneof=income expense transfer"`
	Amount              *decimal.Decimal        `json:"amount" binding:"omitempty,money"`
	Date                *string                 `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description         *string                 `json:"description" binding:"omitempty,max=500"`
	Notes               *string                 `json:"notes"`
	TransferToAccountID *string                 `json:"transfer_to_account_id"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID       string                     `json:"transaction_id"`
	FamilyID            string                     `json:"family_id"`
	AccountID           string                     `json:"account_id"`
	CategoryID          string                     `json:"category_id"`
	Type                domain.TransactionType     `json:"type"`
	Amount              decimal.Decimal            `json:"amount"`
	Date                string                     `json:"date"`
	Description         string                     `json:"description"`
	Notes               string                     `json:"notes"`
	Status              domain.TransactionStatus   `json:"status"`
	NeedsApproval       bool                       `json:"needs_approval"`
	ApprovedBy          *string                    `json:"approved_by,omitempty"`
	ApprovedAt          *time.Time                 `json:"approved_at,omitempty"`
	TransferToAccountID *string                    `json:"transfer_to_account_id,omitempty"`
	IsRecurring         bool                       `json:"is_recurring"`
	RecurringFrequency  *domain.RecurringFrequency `json:"recurring_frequency,omitempty"`
	RecurringEndDate    *string                    `json:"recurring_end_date,omitempty"`
	ParentTransactionID *string                    `json:"parent_transaction_id,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
	CreatedBy           string                     `json:"created_by"`
	LastUpdatedAt       time.Time                  `json:"last_updated_at"`
	LastUpdatedBy       string                     `json:"last_updated_by"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:       txn.TransactionID,
		FamilyID:            txn.FamilyID,
		AccountID:           txn.AccountID,
		CategoryID:          txn.CategoryID,
		Type:                txn.Type,
		Amount:              txn.Amount,
		Date:                FormatDate(txn.Date),
		Description:         txn.Description,
		Notes:               txn.Notes,
		Status:              txn.Status,
		NeedsApproval:       txn.NeedsApproval,
		ApprovedBy:          txn.ApprovedBy,
		ApprovedAt:          txn.ApprovedAt,
		TransferToAccountID: txn.TransferToAccountID,
		IsRecurring:         txn.IsRecurring,
		RecurringFrequency:  txn.RecurringFrequency,
		RecurringEndDate:    formatOptionalDate(txn.RecurringEndDate),
		ParentTransactionID: txn.ParentTransactionID,
		CreatedAt:           txn.CreatedAt,
		CreatedBy:           txn.CreatedBy,
		LastUpdatedAt:       txn.LastUpdatedAt,
		LastUpdatedBy:       txn.LastUpdatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Type       string `form:"type" binding:"omitempty,oneof=income expense transfer"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	AccountID  string `form:"account_id"`
	CategoryID string `form:"category_id"`
	StartDate  string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Limit      int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  string `form:"next_token"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListTransactionsParams) ToFilter() (domain.TransactionFilter, error) {
	var f domain.TransactionFilter
	if p.Type != "" {
		t := domain.TransactionType(p.Type)
		f.Type = &t
	}
	if p.Status != "" {
		s := domain.TransactionStatus(p.Status)
		f.Status = &s
	}
	if p.AccountID != "" {
		f.AccountID = &p.AccountID
	}
	if p.CategoryID != "" {
		f.CategoryID = &p.CategoryID
	}
	var err error
	if f.StartDate, err = ParseOptionalDate("start_date", &p.StartDate); err != nil {
		return f, err
	}
	if f.EndDate, err = ParseOptionalDate("end_date", &p.EndDate); err != nil {
		return f, err
	}
	return f, nil
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"next_token,omitempty"`
}
