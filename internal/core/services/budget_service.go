package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/SscSPs/hifzmaal_backend/internal/utils"
	"github.com/google/uuid"
)

type budgetService struct {
	BaseService
	budgetRepo   portsrepo.BudgetRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	txnReader    portsrepo.TransactionReader
}

// NewBudgetService creates the budget service. It also serves the ledger's alert check.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	txnReader portsrepo.TransactionReader,
	options ...ServiceOption,
) portssvc.BudgetSvcFacade {
	return &budgetService{
		BaseService:  newBase(options),
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		txnReader:    txnReader,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, familyID string, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	start, err := dto.ParseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := dto.ParseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date must not be before start_date", apperrors.ErrValidation)
	}
	if req.Amount.LessThan(domain.MinimumAmount) {
		return nil, fmt.Errorf("%w: amount must be at least %s", apperrors.ErrValidation, utils.FormatAmount(domain.MinimumAmount))
	}
	category, err := findFamilyCategory(ctx, s.categoryRepo, familyID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Type != domain.TransactionTypeExpense {
		return nil, fmt.Errorf("%w: budgets can only track expense categories", apperrors.ErrValidation)
	}

	threshold := domain.DefaultAlertThreshold
	if req.AlertThreshold != nil {
		threshold = *req.AlertThreshold
	}
	budget := domain.Budget{
		BudgetID:       uuid.NewString(),
		FamilyID:       familyID,
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Amount:         req.Amount,
		Period:         req.Period,
		StartDate:      start,
		EndDate:        end,
		AlertThreshold: threshold,
		IsActive:       true,
		AuditFields:    auditFields(userID, s.Now()),
	}
	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("family_id", familyID))
		return nil, err
	}
	s.LogInfo(ctx, "Budget created", slog.String("budget_id", budget.BudgetID), slog.String("family_id", familyID))
	return &budget, nil
}

func (s *budgetService) GetBudget(ctx context.Context, familyID, budgetID, userID string) (*domain.Budget, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	return s.findFamilyBudget(ctx, familyID, budgetID)
}

func (s *budgetService) ListBudgets(ctx context.Context, familyID string, activeOnly bool, userID string) ([]domain.Budget, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.ListBudgets(ctx, familyID, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", slog.String("family_id", familyID))
		return nil, err
	}
	return budgets, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, familyID, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	budget, err := s.findFamilyBudget(ctx, familyID, budgetID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		budget.Name = *req.Name
	}
	if req.Amount != nil {
		if req.Amount.LessThan(domain.MinimumAmount) {
			return nil, fmt.Errorf("%w: amount must be at least %s", apperrors.ErrValidation, utils.FormatAmount(domain.MinimumAmount))
		}
		budget.Amount = *req.Amount
	}
	if req.EndDate != nil {
		end, err := dto.ParseDate("end_date", *req.EndDate)
		if err != nil {
			return nil, err
		}
		if end.Before(budget.StartDate) {
			return nil, fmt.Errorf("%w: end_date must not be before start_date", apperrors.ErrValidation)
		}
		budget.EndDate = end
	}
	if req.AlertThreshold != nil {
		budget.AlertThreshold = *req.AlertThreshold
	}
	if req.IsActive != nil {
		budget.IsActive = *req.IsActive
	}
	budget.LastUpdatedAt = s.Now()
	budget.LastUpdatedBy = userID

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		s.LogError(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, familyID, budgetID, userID string) error {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return err
	}
	if _, err := s.findFamilyBudget(ctx, familyID, budgetID); err != nil {
		return err
	}
	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		s.LogError(ctx, err, "Failed to delete budget", slog.String("budget_id", budgetID))
		return err
	}
	return nil
}

// GetBudgetUsage totals approved expenses of the budget's category inside its window.
func (s *budgetService) GetBudgetUsage(ctx context.Context, familyID, budgetID, userID string) (*domain.BudgetUsage, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	budget, err := s.findFamilyBudget(ctx, familyID, budgetID)
	if err != nil {
		return nil, err
	}
	usage, err := s.usage(ctx, *budget)
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

// CheckBudgetAlert never fails the caller. Errors are logged.
func (s *budgetService) CheckBudgetAlert(ctx context.Context, txn domain.Transaction) {
	if txn.Type != domain.TransactionTypeExpense || !txn.IsApproved() {
		return
	}
	budgets, err := s.budgetRepo.ListActiveBudgetsCovering(ctx, txn.FamilyID, txn.CategoryID, txn.Date)
	if err != nil {
		s.LogError(ctx, err, "Failed to load budgets for alert check",
			slog.String("family_id", txn.FamilyID),
			slog.String("category_id", txn.CategoryID))
		return
	}
	for _, budget := range budgets {
		usage, err := s.usage(ctx, budget)
		if err != nil {
			continue
		}
		if !usage.ShouldAlert {
			continue
		}
		s.publish(ctx, domain.EventBudgetThresholdReached, txn.FamilyID, txn.CreatedBy, map[string]any{
			"budget_id":       budget.BudgetID,
			"budget_name":     budget.Name,
			"category_id":     budget.CategoryID,
			"amount":          utils.FormatAmount(budget.Amount),
			"spent":           utils.FormatAmount(usage.Spent),
			"percent_used":    utils.FormatAmount(usage.PercentUsed),
			"alert_threshold": budget.AlertThreshold,
			"transaction_id":  txn.TransactionID,
		})
	}
}

func (s *budgetService) usage(ctx context.Context, budget domain.Budget) (domain.BudgetUsage, error) {
	spent, err := s.txnReader.SumApprovedExpenses(ctx, budget.FamilyID, budget.CategoryID, budget.StartDate, budget.EndDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum budget spending", slog.String("budget_id", budget.BudgetID))
		return domain.BudgetUsage{}, err
	}
	return domain.NewBudgetUsage(budget, spent), nil
}

func (s *budgetService) findFamilyBudget(ctx context.Context, familyID, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find budget", slog.String("budget_id", budgetID))
		}
		return nil, err
	}
	if budget.FamilyID != familyID {
		return nil, fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budgetID)
	}
	return budget, nil
}
