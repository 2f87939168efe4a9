package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Family is a row of the families table.
type Family struct {
	FamilyID     string `db:"family_id"`
	Name         string `db:"name"`
	CurrencyCode string `db:"currency_code"`
	AuditFields
}

// FamilyMember is a row of the family_members table.
type FamilyMember struct {
	FamilyID      string              `db:"family_id"`
	UserID        string              `db:"user_id"`
	Name          string              `db:"name"`
	Role          string              `db:"role"`
	SpendingLimit decimal.NullDecimal `db:"spending_limit"`
	IsActive      bool                `db:"is_active"`
	JoinedAt      time.Time           `db:"joined_at"`
}

// Category is a row of the categories table.
type Category struct {
	CategoryID string `db:"category_id"`
	FamilyID   string `db:"family_id"`
	Name       string `db:"name"`
	Type       string `db:"type"`
	AuditFields
}
