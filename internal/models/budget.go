package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a row of the budgets table.
type Budget struct {
	BudgetID       string          `db:"budget_id"`
	FamilyID       string          `db:"family_id"`
	CategoryID     string          `db:"category_id"`
	Name           string          `db:"name"`
	Amount         decimal.Decimal `db:"amount"`
	Period         string          `db:"period"`
	StartDate      time.Time       `db:"start_date"`
	EndDate        time.Time       `db:"end_date"`
	AlertThreshold int             `db:"alert_threshold"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}
