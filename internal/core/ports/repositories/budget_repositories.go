package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
)

// BudgetReader defines read operations for budgets
type BudgetReader interface {
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, familyID string, activeOnly bool) ([]domain.Budget, error)
	// ListActiveBudgetsCovering returns active budgets of a category whose window contains date.
	ListActiveBudgetsCovering(ctx context.Context, familyID, categoryID string, date time.Time) ([]domain.Budget, error)
}

// BudgetWriter defines write operations for budgets
type BudgetWriter interface {
	SaveBudget(ctx context.Context, budget domain.Budget) error
	UpdateBudget(ctx context.Context, budget domain.Budget) error
	DeleteBudget(ctx context.Context, budgetID string) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
