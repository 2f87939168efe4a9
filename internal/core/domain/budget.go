package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAlertThreshold is the percent of a budget at which members are alerted.
const DefaultAlertThreshold = 80

// BudgetPeriod is the cadence a budget is planned for.
type BudgetPeriod string

const (
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetYearly  BudgetPeriod = "yearly"
	BudgetCustom  BudgetPeriod = "custom"
)

// Budget caps spending for one category over a date window.
type Budget struct {
	BudgetID       string          `json:"budget_id"`
	FamilyID       string          `json:"family_id"`
	CategoryID     string          `json:"category_id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Period         BudgetPeriod    `json:"period"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	AlertThreshold int             `json:"alert_threshold"`
	IsActive       bool            `json:"is_active"`
	AuditFields
}

// Covers reports whether date falls inside the budget window.
func (b Budget) Covers(date time.Time) bool {
	return !date.Before(b.StartDate) && !date.After(b.EndDate)
}

// BudgetUsage is the spending position of a budget.
type BudgetUsage struct {
	Budget      Budget          `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed decimal.Decimal `json:"percent_used"`
	ShouldAlert bool            `json:"should_alert"`
}

// NewBudgetUsage computes usage for spent against b.
func NewBudgetUsage(b Budget, spent decimal.Decimal) BudgetUsage {
	usage := BudgetUsage{Budget: b, Spent: spent, Remaining: b.Amount.Sub(spent)}
	if b.Amount.IsPositive() {
		usage.PercentUsed = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	}
	usage.ShouldAlert = usage.PercentUsed.GreaterThanOrEqual(decimal.NewFromInt(int64(b.AlertThreshold)))
	return usage
}
