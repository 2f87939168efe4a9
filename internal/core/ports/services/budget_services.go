package services

import (
	"context"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
)

// BudgetSvc manages budgets of a family.
type BudgetSvc interface {
	CreateBudget(ctx context.Context, familyID string, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error)
	GetBudget(ctx context.Context, familyID, budgetID, userID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, familyID string, activeOnly bool, userID string) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, familyID, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, familyID, budgetID, userID string) error
	GetBudgetUsage(ctx context.Context, familyID, budgetID, userID string) (*domain.BudgetUsage, error)
}

// BudgetAlertSvc is called by the ledger after an approved expense is committed.
type BudgetAlertSvc interface {
	// CheckBudgetAlert publishes a threshold event for every active budget of the
	// transaction's category that covers its date and has reached its alert threshold.
	CheckBudgetAlert(ctx context.Context, txn domain.Transaction)
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetSvc
	BudgetAlertSvc
}

// ReportingService defines the family dashboard reports.
type ReportingService interface {
	GetCategoryWiseExpenses(ctx context.Context, familyID string, month, year int, userID string) ([]domain.CategoryExpense, error)
	GetMonthlyTrend(ctx context.Context, familyID string, months int, userID string) ([]domain.MonthlyTotals, error)
}
