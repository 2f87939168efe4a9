package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
)

// ReportingRepository defines read-only aggregate queries over approved transactions.
type ReportingRepository interface {
	// GetCategoryExpenses totals approved expenses per category in [from, to).
	// Percentage is left for the service to fill in.
	GetCategoryExpenses(ctx context.Context, familyID string, from, to time.Time) ([]domain.CategoryExpense, error)

	// GetMonthlyTotals returns income and expense per month in [from, to). Months without
	// transactions are omitted.
	GetMonthlyTotals(ctx context.Context, familyID string, from, to time.Time) ([]domain.MonthlyTotals, error)
}
