package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
	"github.com/SscSPs/hifzmaal_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetSelect = `
SELECT budget_id, family_id, category_id, name, amount, period, start_date, end_date, alert_threshold, is_active,
	created_at, created_by, last_updated_at, last_updated_by
FROM budgets
`

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO budgets (budget_id, family_id, category_id, name, amount, period, start_date, end_date,
			alert_threshold, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		m.BudgetID, m.FamilyID, m.CategoryID, m.Name, m.Amount, m.Period, m.StartDate, m.EndDate,
		m.AlertThreshold, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "budget "+m.Name)
	}
	return nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	m, err := collectOne[models.Budget](ctx, r.Pool, budgetSelect+`WHERE budget_id = $1`, budgetID)
	if err != nil {
		return nil, readError(err, "budget "+budgetID)
	}
	b := mapping.ToDomainBudget(*m)
	return &b, nil
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, familyID string, activeOnly bool) ([]domain.Budget, error) {
	ms, err := collectModels[models.Budget](ctx, r.Pool, budgetSelect+`
		WHERE family_id = $1 AND (NOT $2 OR is_active = TRUE)
		ORDER BY start_date DESC, name`, familyID, activeOnly)
	if err != nil {
		return nil, readError(err, "budgets of family "+familyID)
	}
	return mapping.ToDomainBudgetSlice(ms), nil
}

func (r *PgxBudgetRepository) ListActiveBudgetsCovering(ctx context.Context, familyID, categoryID string, date time.Time) ([]domain.Budget, error) {
	ms, err := collectModels[models.Budget](ctx, r.Pool, budgetSelect+`
		WHERE family_id = $1 AND category_id = $2 AND is_active = TRUE AND start_date <= $3 AND end_date >= $3
		ORDER BY start_date`, familyID, categoryID, date)
	if err != nil {
		return nil, readError(err, "budgets of category "+categoryID)
	}
	return mapping.ToDomainBudgetSlice(ms), nil
}

func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE budgets
		SET category_id = $2, name = $3, amount = $4, period = $5, start_date = $6, end_date = $7,
			alert_threshold = $8, is_active = $9, last_updated_at = $10, last_updated_by = $11
		WHERE budget_id = $1;`,
		m.BudgetID, m.CategoryID, m.Name, m.Amount, m.Period, m.StartDate, m.EndDate,
		m.AlertThreshold, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "budget "+m.BudgetID)
	}
	return expectOneRow(tag, "budget "+m.BudgetID)
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1;`, budgetID)
	if err != nil {
		return translateWriteError(err, "budget "+budgetID)
	}
	return expectOneRow(tag, "budget "+budgetID)
}
