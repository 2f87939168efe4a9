package domain

import (
	"github.com/shopspring/decimal"
)

// CategoryExpense is one row of the category-wise expense report.
type CategoryExpense struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// MonthlyTotals holds approved income and expense for one calendar month.
type MonthlyTotals struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}
