package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SavingsGoalReader defines read operations for savings goals
type SavingsGoalReader interface {
	FindGoalByID(ctx context.Context, goalID string) (*domain.SavingsGoal, error)
	ListGoals(ctx context.Context, familyID string, filter domain.SavingsGoalFilter) ([]domain.SavingsGoal, error)

	// ListAutoContributingGoals returns active goals of every family with auto
	// contribution enabled on the given day of the month.
	ListAutoContributingGoals(ctx context.Context, dayOfMonth int) ([]domain.SavingsGoal, error)
}

// SavingsGoalWriter defines write operations for savings goals
type SavingsGoalWriter interface {
	SaveGoal(ctx context.Context, goal domain.SavingsGoal) error
	UpdateGoal(ctx context.Context, goal domain.SavingsGoal) error
	DeleteGoal(ctx context.Context, goalID string) error

	// AddContribution adds amount to current_amount in a single UPDATE and returns the goal after it.
	AddContribution(ctx context.Context, goalID string, amount decimal.Decimal, userID string, now time.Time) (*domain.SavingsGoal, error)

	// AddAutoContribution adds the monthly contribution once per day. It returns
	// apperrors.ErrNotFound when the goal was already credited on day.
	AddAutoContribution(ctx context.Context, goalID string, day, now time.Time) (*domain.SavingsGoal, error)
}

// SavingsGoalRepositoryFacade combines all savings goal repository interfaces
type SavingsGoalRepositoryFacade interface {
	SavingsGoalReader
	SavingsGoalWriter
}
