package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetCategoryExpenses totals approved expenses per category in [from, to), largest first.
func (r *reportingRepository) GetCategoryExpenses(ctx context.Context, familyID string, from, to time.Time) ([]domain.CategoryExpense, error) {
	query := `
		SELECT c.category_id, c.name, SUM(t.amount) AS total, COUNT(*) AS count
		FROM transactions t
		JOIN categories c ON c.category_id = t.category_id
		WHERE t.family_id = $1
			AND t.type = 'expense'
			AND t.status = 'approved'
			AND t.deleted_at IS NULL
			AND t.date >= $2 AND t.date < $3
		GROUP BY c.category_id, c.name
		ORDER BY total DESC, c.name
	`

	rows, err := r.Pool.Query(ctx, query, familyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying category expenses: %w", err)
	}
	defer rows.Close()

	result := []domain.CategoryExpense{}
	for rows.Next() {
		var row domain.CategoryExpense
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("error scanning category expense row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category expense rows: %w", err)
	}
	return result, nil
}

// GetMonthlyTotals returns approved income and expense per calendar month in [from, to).
// Transfers move money between a family's own accounts and are excluded.
func (r *reportingRepository) GetMonthlyTotals(ctx context.Context, familyID string, from, to time.Time) ([]domain.MonthlyTotals, error) {
	query := `
		SELECT
			EXTRACT(YEAR FROM t.date)::int AS year,
			EXTRACT(MONTH FROM t.date)::int AS month,
			COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount END), 0) AS income,
			COALESCE(SUM(CASE WHEN t.type = 'expense' THEN t.amount END), 0) AS expense
		FROM transactions t
		WHERE t.family_id = $1
			AND t.status = 'approved'
			AND t.deleted_at IS NULL
			AND t.type IN ('income', 'expense')
			AND t.date >= $2 AND t.date < $3
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	rows, err := r.Pool.Query(ctx, query, familyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly totals: %w", err)
	}
	defer rows.Close()

	result := []domain.MonthlyTotals{}
	for rows.Next() {
		var row domain.MonthlyTotals
		if err := rows.Scan(&row.Year, &row.Month, &row.Income, &row.Expense); err != nil {
			return nil, fmt.Errorf("error scanning monthly totals row: %w", err)
		}
		row.Net = row.Income.Sub(row.Expense)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals rows: %w", err)
	}
	return result, nil
}
