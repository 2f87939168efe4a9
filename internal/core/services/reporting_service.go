package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	DefaultTrendMonths = 6
	MaxTrendMonths     = 24
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ServiceOption) portssvc.ReportingService {
	return &reportingService{
		BaseService:   newBase(options),
		reportingRepo: repo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// GetCategoryWiseExpenses reports approved expenses per category for one calendar month.
// A zero month or year means the current one.
func (s *reportingService) GetCategoryWiseExpenses(ctx context.Context, familyID string, month, year int, userID string) ([]domain.CategoryExpense, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}

	today := s.Today()
	if month == 0 {
		month = int(today.Month())
	}
	if year == 0 {
		year = today.Year()
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", apperrors.ErrValidation)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := s.reportingRepo.GetCategoryExpenses(ctx, familyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve category expenses",
			slog.String("family_id", familyID),
			slog.Int("month", month),
			slog.Int("year", year))
		return nil, err
	}

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
	}
	hundred := decimal.NewFromInt(100)
	for i := range rows {
		if total.IsPositive() {
			rows[i].Percentage = rows[i].Total.Div(total).Mul(hundred).Round(2)
		} else {
			rows[i].Percentage = decimal.Zero
		}
	}

	s.LogInfo(ctx, "Category expense report generated",
		slog.String("family_id", familyID),
		slog.Int("month", month),
		slog.Int("year", year),
		slog.Int("category_count", len(rows)))
	return rows, nil
}

// GetMonthlyTrend returns income, expense and net for the last months calendar months,
// the current month included and oldest first. Months without activity are zero.
func (s *reportingService) GetMonthlyTrend(ctx context.Context, familyID string, months int, userID string) ([]domain.MonthlyTotals, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	if months == 0 {
		months = DefaultTrendMonths
	}
	if months < 1 || months > MaxTrendMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d", apperrors.ErrValidation, MaxTrendMonths)
	}

	today := s.Today()
	currentMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := currentMonth.AddDate(0, -(months - 1), 0)
	to := currentMonth.AddDate(0, 1, 0)

	rows, err := s.reportingRepo.GetMonthlyTotals(ctx, familyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve monthly totals",
			slog.String("family_id", familyID),
			slog.Int("months", months))
		return nil, err
	}

	byMonth := make(map[[2]int]domain.MonthlyTotals, len(rows))
	for _, r := range rows {
		byMonth[[2]int{r.Year, r.Month}] = r
	}

	trend := make([]domain.MonthlyTotals, 0, months)
	for m := from; m.Before(to); m = m.AddDate(0, 1, 0) {
		key := [2]int{m.Year(), int(m.Month())}
		row, ok := byMonth[key]
		if !ok {
			row = domain.MonthlyTotals{
				Year:    key[0],
				Month:   key[1],
				Income:  decimal.Zero,
				Expense: decimal.Zero,
				Net:     decimal.Zero,
			}
		}
		trend = append(trend, row)
	}
	return trend, nil
}
