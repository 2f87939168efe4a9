package dto

import "github.com/SscSPs/hifzmaal_backend/internal/core/domain"

// CategoryExpensesParams selects the month of the category-wise expense report.
// Zero values mean the current month.
type CategoryExpensesParams struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// CategoryExpensesResponse wraps the category-wise expense report.
type CategoryExpensesResponse struct {
	Month      int                      `json:"month"`
	Year       int                      `json:"year"`
	Categories []domain.CategoryExpense `json:"categories"`
}

// MonthlyTrendParams selects how many months the trend covers.
type MonthlyTrendParams struct {
	Months int `form:"months,default=6" binding:"min=1,max=24"`
}

// MonthlyTrendResponse wraps the monthly income/expense trend.
type MonthlyTrendResponse struct {
	Months []domain.MonthlyTotals `json:"months"`
}
