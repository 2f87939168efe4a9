package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
	"github.com/SscSPs/hifzmaal_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxSavingsGoalRepository struct {
	BaseRepository
}

func newPgxSavingsGoalRepository(pool *pgxpool.Pool) portsrepo.SavingsGoalRepositoryFacade {
	return &PgxSavingsGoalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SavingsGoalRepositoryFacade = (*PgxSavingsGoalRepository)(nil)

const goalColumns = `goal_id, family_id, account_id, name, type, target_amount, current_amount, monthly_contribution,
	target_date, start_date, description, dua_reminder, auto_contribute, contribution_day, is_active,
	last_auto_contributed_on, created_at, created_by, last_updated_at, last_updated_by`

const goalSelect = `SELECT ` + goalColumns + ` FROM savings_goals `

func (r *PgxSavingsGoalRepository) SaveGoal(ctx context.Context, goal domain.SavingsGoal) error {
	m := mapping.ToModelSavingsGoal(goal)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO savings_goals (goal_id, family_id, account_id, name, type, target_amount, current_amount,
			monthly_contribution, target_date, start_date, description, dua_reminder, auto_contribute,
			contribution_day, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);`,
		m.GoalID, m.FamilyID, m.AccountID, m.Name, m.Type, m.TargetAmount, m.CurrentAmount,
		m.MonthlyContribution, m.TargetDate, m.StartDate, m.Description, m.DuaReminder, m.AutoContribute,
		m.ContributionDay, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "savings goal "+m.Name)
	}
	return nil
}

func (r *PgxSavingsGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.SavingsGoal, error) {
	m, err := collectOne[models.SavingsGoal](ctx, r.Pool, goalSelect+`WHERE goal_id = $1`, goalID)
	if err != nil {
		return nil, readError(err, "savings goal "+goalID)
	}
	g := mapping.ToDomainSavingsGoal(*m)
	return &g, nil
}

func (r *PgxSavingsGoalRepository) ListGoals(ctx context.Context, familyID string, filter domain.SavingsGoalFilter) ([]domain.SavingsGoal, error) {
	var goalType *string
	if filter.Type != nil {
		t := string(*filter.Type)
		goalType = &t
	}
	ms, err := collectModels[models.SavingsGoal](ctx, r.Pool, goalSelect+`
		WHERE family_id = $1
			AND ($2::boolean IS NULL OR is_active = $2)
			AND ($3::text IS NULL OR type = $3)
		ORDER BY target_date NULLS LAST, name`, familyID, filter.IsActive, goalType)
	if err != nil {
		return nil, readError(err, "savings goals of family "+familyID)
	}
	return mapping.ToDomainSavingsGoalSlice(ms), nil
}

func (r *PgxSavingsGoalRepository) ListAutoContributingGoals(ctx context.Context, dayOfMonth int) ([]domain.SavingsGoal, error) {
	ms, err := collectModels[models.SavingsGoal](ctx, r.Pool, goalSelect+`
		WHERE is_active = TRUE AND auto_contribute = TRUE AND contribution_day = $1
			AND monthly_contribution > 0 AND current_amount < target_amount
		ORDER BY goal_id`, dayOfMonth)
	if err != nil {
		return nil, readError(err, "auto contributing savings goals")
	}
	return mapping.ToDomainSavingsGoalSlice(ms), nil
}

func (r *PgxSavingsGoalRepository) UpdateGoal(ctx context.Context, goal domain.SavingsGoal) error {
	m := mapping.ToModelSavingsGoal(goal)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE savings_goals
		SET account_id = $2, name = $3, type = $4, target_amount = $5, monthly_contribution = $6,
			target_date = $7, description = $8, dua_reminder = $9, auto_contribute = $10,
			contribution_day = $11, is_active = $12, last_updated_at = $13, last_updated_by = $14
		WHERE goal_id = $1;`,
		m.GoalID, m.AccountID, m.Name, m.Type, m.TargetAmount, m.MonthlyContribution,
		m.TargetDate, m.Description, m.DuaReminder, m.AutoContribute,
		m.ContributionDay, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "savings goal "+m.GoalID)
	}
	return expectOneRow(tag, "savings goal "+m.GoalID)
}

func (r *PgxSavingsGoalRepository) DeleteGoal(ctx context.Context, goalID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM savings_goals WHERE goal_id = $1;`, goalID)
	if err != nil {
		return translateWriteError(err, "savings goal "+goalID)
	}
	return expectOneRow(tag, "savings goal "+goalID)
}

// AddContribution adds amount in a single UPDATE so concurrent contributions never lose an increment.
func (r *PgxSavingsGoalRepository) AddContribution(ctx context.Context, goalID string, amount decimal.Decimal, userID string, now time.Time) (*domain.SavingsGoal, error) {
	query := `
		UPDATE savings_goals
		SET current_amount = current_amount + $2, last_updated_at = $3, last_updated_by = $4
		WHERE goal_id = $1
		RETURNING ` + goalColumns
	m, err := collectOne[models.SavingsGoal](ctx, r.Pool, query, goalID, amount, now, userID)
	if err != nil {
		return nil, readError(err, "savings goal "+goalID)
	}
	g := mapping.ToDomainSavingsGoal(*m)
	return &g, nil
}

// AddAutoContribution credits the monthly contribution unless the goal was already
// credited on day. No row comes back in that case.
func (r *PgxSavingsGoalRepository) AddAutoContribution(ctx context.Context, goalID string, day, now time.Time) (*domain.SavingsGoal, error) {
	query := `
		UPDATE savings_goals
		SET current_amount = current_amount + monthly_contribution,
			last_auto_contributed_on = $2, last_updated_at = $3
		WHERE goal_id = $1 AND is_active = TRUE AND auto_contribute = TRUE AND monthly_contribution > 0
			AND (last_auto_contributed_on IS NULL OR last_auto_contributed_on < $2)
		RETURNING ` + goalColumns
	m, err := collectOne[models.SavingsGoal](ctx, r.Pool, query, goalID, day, now)
	if err != nil {
		return nil, readError(err, "savings goal "+goalID)
	}
	g := mapping.ToDomainSavingsGoal(*m)
	return &g, nil
}
