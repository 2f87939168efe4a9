package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a money movement.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionStatus tracks where a transaction is in the approval workflow.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusApproved TransactionStatus = "approved"
	StatusRejected TransactionStatus = "rejected"
)

// RecurringFrequency is the interval between occurrences of a recurring transaction.
type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "daily"
	FrequencyWeekly  RecurringFrequency = "weekly"
	FrequencyMonthly RecurringFrequency = "monthly"
	FrequencyYearly  RecurringFrequency = "yearly"
)

// MinimumAmount is the smallest amount a transaction or payment may carry.
var MinimumAmount = decimal.RequireFromString("0.01")

// Transaction is a single ledger entry. Its balance effect is applied only while
// it is approved.
type Transaction struct {
	TransactionID       string              `json:"transaction_id"`
	FamilyID            string              `json:"family_id"`
	AccountID           string              `json:"account_id"`
	CategoryID          string              `json:"category_id"`
	Type                TransactionType     `json:"type"`
	Amount              decimal.Decimal     `json:"amount"`
	Date                time.Time           `json:"date"`
	Description         string              `json:"description"`
	Notes               string              `json:"notes"`
	Status              TransactionStatus   `json:"status"`
	NeedsApproval       bool                `json:"needs_approval"`
	ApprovedBy          *string             `json:"approved_by,omitempty"`
	ApprovedAt          *time.Time          `json:"approved_at,omitempty"`
	TransferToAccountID *string             `json:"transfer_to_account_id,omitempty"`
	IsRecurring         bool                `json:"is_recurring"`
	RecurringFrequency  *RecurringFrequency `json:"recurring_frequency,omitempty"`
	RecurringEndDate    *time.Time          `json:"recurring_end_date,omitempty"`
	ParentTransactionID *string             `json:"parent_transaction_id,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsApproved reports whether the balance effect is currently applied.
func (t Transaction) IsApproved() bool {
	return t.Status == StatusApproved
}

// IsPending reports whether the transaction waits for approval.
func (t Transaction) IsPending() bool {
	return t.Status == StatusPending
}

// IsRecurringRoot reports whether the transaction is a template the recurring expander clones.
func (t Transaction) IsRecurringRoot() bool {
	return t.IsRecurring && t.ParentTransactionID == nil && t.Status == StatusApproved && t.DeletedAt == nil
}

// AccountIDs returns every account the balance effect touches.
func (t Transaction) AccountIDs() []string {
	ids := []string{t.AccountID}
	if t.Type == TransactionTypeTransfer && t.TransferToAccountID != nil && *t.TransferToAccountID != t.AccountID {
		ids = append(ids, *t.TransferToAccountID)
	}
	return ids
}

// Validate checks the structural rules of a transaction. today bounds the date.
func (t Transaction) Validate(today time.Time) error {
	switch t.Type {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
	default:
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, t.Type)
	}
	if t.Amount.LessThan(MinimumAmount) {
		return fmt.Errorf("%w: amount must be at least %s", apperrors.ErrValidation, MinimumAmount.StringFixed(2))
	}
	if !t.Amount.Equal(t.Amount.Round(2)) {
		return fmt.Errorf("%w: amount must have at most 2 decimal places", apperrors.ErrValidation)
	}
	if t.AccountID == "" {
		return fmt.Errorf("%w: account_id is required", apperrors.ErrValidation)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	}
	if t.Date.After(today) {
		return fmt.Errorf("%w: date cannot be in the future", apperrors.ErrValidation)
	}
	if t.Type == TransactionTypeTransfer {
		if t.TransferToAccountID == nil || *t.TransferToAccountID == "" {
			return fmt.Errorf("%w: transfer requires transfer_to_account_id", apperrors.ErrInvalidTransaction)
		}
		if *t.TransferToAccountID == t.AccountID {
			return fmt.Errorf("%w: transfer destination must differ from source account", apperrors.ErrInvalidTransaction)
		}
	} else if t.TransferToAccountID != nil && *t.TransferToAccountID != "" {
		return fmt.Errorf("%w: transfer_to_account_id is only allowed for transfers", apperrors.ErrInvalidTransaction)
	}
	if t.IsRecurring {
		if t.RecurringFrequency == nil {
			return fmt.Errorf("%w: recurring_frequency is required for recurring transactions", apperrors.ErrValidation)
		}
		if !IsValidFrequency(*t.RecurringFrequency) {
			return fmt.Errorf("%w: unknown recurring_frequency %q", apperrors.ErrValidation, *t.RecurringFrequency)
		}
		if t.RecurringEndDate != nil && t.RecurringEndDate.Before(t.Date) {
			return fmt.Errorf("%w: recurring_end_date must not be before date", apperrors.ErrValidation)
		}
	}
	return nil
}

// IsValidFrequency reports whether f is a supported recurrence interval.
func IsValidFrequency(f RecurringFrequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// NextOccurrence adds one interval of freq to base. ok is false for unknown frequencies.
func NextOccurrence(base time.Time, freq RecurringFrequency) (next time.Time, ok bool) {
	switch freq {
	case FrequencyDaily:
		return base.AddDate(0, 0, 1), true
	case FrequencyWeekly:
		return base.AddDate(0, 0, 7), true
	case FrequencyMonthly:
		return base.AddDate(0, 1, 0), true
	case FrequencyYearly:
		return base.AddDate(1, 0, 0), true
	}
	return time.Time{}, false
}

// NewOccurrence clones a recurring root into an approved child dated on date.
func (t Transaction) NewOccurrence(id string, date time.Time, now time.Time) Transaction {
	parentID := t.TransactionID
	child := Transaction{
		TransactionID:       id,
		FamilyID:            t.FamilyID,
		AccountID:           t.AccountID,
		CategoryID:          t.CategoryID,
		Type:                t.Type,
		Amount:              t.Amount,
		Date:                date,
		Description:         t.Description,
		Notes:               t.Notes,
		Status:              StatusApproved,
		NeedsApproval:       false,
		TransferToAccountID: t.TransferToAccountID,
		ParentTransactionID: &parentID,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     t.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: t.CreatedBy,
		},
	}
	return child
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Type       *TransactionType
	Status     *TransactionStatus
	AccountID  *string
	CategoryID *string
	StartDate  *time.Time
	EndDate    *time.Time
}
