package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	FamilyID       string          `db:"family_id"`
	Name           string          `db:"name"`
	AccountType    string          `db:"account_type"`
	CurrencyCode   string          `db:"currency_code"`
	Balance        decimal.Decimal `db:"balance"` // Persisted account balance, moved only by the ledger
	InitialBalance decimal.Decimal `db:"initial_balance"`
	IsActive       bool            `db:"is_active"`
	IncludeInZakat bool            `db:"include_in_zakat"`
	Description    string          `db:"description"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
