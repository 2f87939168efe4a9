package services

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// SavingsGoalSvc manages the savings goals of a family.
type SavingsGoalSvc interface {
	CreateGoal(ctx context.Context, familyID string, req dto.CreateSavingsGoalRequest, userID string) (*domain.SavingsGoal, error)
	GetGoal(ctx context.Context, familyID, goalID, userID string) (*domain.SavingsGoal, error)
	ListGoals(ctx context.Context, familyID string, filter domain.SavingsGoalFilter, userID string) ([]domain.SavingsGoal, error)
	UpdateGoal(ctx context.Context, familyID, goalID string, req dto.UpdateSavingsGoalRequest, userID string) (*domain.SavingsGoal, error)

	// DeleteGoal is restricted to the family owner.
	DeleteGoal(ctx context.Context, familyID, goalID, userID string) error

	// Contribute adds amount to an active goal and announces the milestones it crosses.
	Contribute(ctx context.Context, familyID, goalID string, amount decimal.Decimal, userID string) (*domain.SavingsContribution, error)

	// GetGoalsOverview summarizes the active goals of a family.
	GetGoalsOverview(ctx context.Context, familyID, userID string) (*domain.SavingsOverview, error)

	// Today is the date progress figures are computed against.
	Today() time.Time
}

// SavingsSchedulerSvc holds the savings job run by the worker.
type SavingsSchedulerSvc interface {
	// ProcessAutoContributions credits the monthly contribution of every goal whose
	// contribution day is today. A goal is credited at most once per day.
	ProcessAutoContributions(ctx context.Context) (domain.AutoContributionResult, error)
}

// SavingsGoalSvcFacade combines all savings goal service interfaces
type SavingsGoalSvcFacade interface {
	SavingsGoalSvc
	SavingsSchedulerSvc
}
