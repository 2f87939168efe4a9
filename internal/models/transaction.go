package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID       string          `db:"transaction_id"`
	FamilyID            string          `db:"family_id"`
	AccountID           string          `db:"account_id"`
	CategoryID          string          `db:"category_id"`
	Type                string          `db:"type"`
	Amount              decimal.Decimal `db:"amount"`
	Date                time.Time       `db:"date"`
	Description         string          `db:"description"`
	Notes               string          `db:"notes"`
	Status              string          `db:"status"`
	NeedsApproval       bool            `db:"needs_approval"`
	ApprovedBy          *string         `db:"approved_by"`
	ApprovedAt          *time.Time      `db:"approved_at"`
	TransferToAccountID *string         `db:"transfer_to_account_id"`
	IsRecurring         bool            `db:"is_recurring"`
	RecurringFrequency  *string         `db:"recurring_frequency"`
	RecurringEndDate    *time.Time      `db:"recurring_end_date"`
	ParentTransactionID *string         `db:"parent_transaction_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
