package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is a row of the bills table.
type Bill struct {
	BillID            string              `db:"bill_id"`
	FamilyID          string              `db:"family_id"`
	CategoryID        string              `db:"category_id"`
	AccountID         *string             `db:"account_id"`
	Name              string              `db:"name"`
	Type              string              `db:"type"`
	Amount            decimal.Decimal     `db:"amount"`
	AverageAmount     decimal.NullDecimal `db:"average_amount"`
	DueDate           time.Time           `db:"due_date"`
	Frequency         string              `db:"frequency"`
	IsRecurring       bool                `db:"is_recurring"`
	AutoPay           bool                `db:"auto_pay"`
	Provider          string              `db:"provider"`
	AccountNumber     string              `db:"account_number"`
	SplitMembers      []string            `db:"split_members"` // TEXT[] of user ids
	ReminderDays      int                 `db:"reminder_days"`
	Status            string              `db:"status"`
	LastPaidDate      *time.Time          `db:"last_paid_date"`
	PaidTransactionID *string             `db:"paid_transaction_id"`
	PreviousBillID    *string             `db:"previous_bill_id"`
	LastRemindedOn    *time.Time          `db:"last_reminded_on"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
