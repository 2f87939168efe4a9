package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines what kind of money store an account represents.
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeBank       AccountType = "bank"
	AccountTypeWallet     AccountType = "wallet"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
)

// IsValidAccountType reports whether t is a known account type.
func IsValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeWallet, AccountTypeSavings, AccountTypeInvestment:
		return true
	}
	return false
}

// Account holds a balance that every money movement debits or credits.
// Balance is only changed by the ledger; InitialBalance never changes.
type Account struct {
	AccountID      string          `json:"account_id"`
	FamilyID       string          `json:"family_id"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"type"`
	CurrencyCode   string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	IsActive       bool            `json:"is_active"`
	IncludeInZakat bool            `json:"include_in_zakat"`
	Description    string          `json:"description"`
	AuditFields
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the account was soft deleted.
func (a Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

// CanMutate reports whether the ledger may still move money through the account.
func (a Account) CanMutate() bool {
	return a.IsActive && !a.IsDeleted()
}
