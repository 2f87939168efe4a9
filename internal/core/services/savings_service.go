package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/SscSPs/hifzmaal_backend/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type savingsService struct {
	BaseService
	goalRepo    portsrepo.SavingsGoalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewSavingsGoalService creates the savings goal service.
func NewSavingsGoalService(goalRepo portsrepo.SavingsGoalRepositoryFacade, accountRepo portsrepo.AccountReader, options ...ServiceOption) portssvc.SavingsGoalSvcFacade {
	return &savingsService{
		BaseService: newBase(options),
		goalRepo:    goalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.SavingsGoalSvcFacade = (*savingsService)(nil)

func (s *savingsService) CreateGoal(ctx context.Context, familyID string, req dto.CreateSavingsGoalRequest, userID string) (*domain.SavingsGoal, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	today := s.Today()
	if req.TargetAmount.LessThan(domain.MinimumAmount) {
		return nil, fmt.Errorf("%w: target_amount must be at least %s", apperrors.ErrValidation, utils.FormatAmount(domain.MinimumAmount))
	}
	current := decimal.Zero
	if req.CurrentAmount != nil {
		current = *req.CurrentAmount
		if current.IsNegative() || !current.Equal(current.Round(2)) {
			return nil, fmt.Errorf("%w: current_amount must be a non-negative amount with at most two decimals", apperrors.ErrValidation)
		}
		if current.GreaterThan(req.TargetAmount) {
			return nil, fmt.Errorf("%w: current_amount must not exceed target_amount", apperrors.ErrValidation)
		}
	}
	targetDate, err := s.parseTargetDate(req.TargetDate, today)
	if err != nil {
		return nil, err
	}
	start := today
	if req.StartDate != nil {
		if start, err = dto.ParseDate("start_date", *req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.AccountID != nil {
		if _, err := familyAccount(ctx, s.accountRepo, familyID, *req.AccountID); err != nil {
			return nil, err
		}
	}

	goal := domain.SavingsGoal{
		GoalID:              uuid.NewString(),
		FamilyID:            familyID,
		AccountID:           req.AccountID,
		Name:                req.Name,
		Type:                req.Type,
		TargetAmount:        req.TargetAmount,
		CurrentAmount:       current,
		MonthlyContribution: req.MonthlyContribution,
		TargetDate:          targetDate,
		StartDate:           start,
		Description:         req.Description,
		DuaReminder:         req.DuaReminder,
		AutoContribute:      req.AutoContribute,
		ContributionDay:     req.ContributionDay,
		IsActive:            true,
		AuditFields:         auditFields(userID, s.Now()),
	}
	if err := checkAutoContribution(goal); err != nil {
		return nil, err
	}
	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save savings goal", slog.String("family_id", familyID))
		return nil, err
	}
	s.LogInfo(ctx, "Savings goal created", slog.String("goal_id", goal.GoalID), slog.String("family_id", familyID))
	return &goal, nil
}

func (s *savingsService) GetGoal(ctx context.Context, familyID, goalID, userID string) (*domain.SavingsGoal, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	return s.findFamilyGoal(ctx, familyID, goalID)
}

func (s *savingsService) ListGoals(ctx context.Context, familyID string, filter domain.SavingsGoalFilter, userID string) ([]domain.SavingsGoal, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	goals, err := s.goalRepo.ListGoals(ctx, familyID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list savings goals", slog.String("family_id", familyID))
		return nil, err
	}
	return goals, nil
}

func (s *savingsService) UpdateGoal(ctx context.Context, familyID, goalID string, req dto.UpdateSavingsGoalRequest, userID string) (*domain.SavingsGoal, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	goal, err := s.findFamilyGoal(ctx, familyID, goalID)
	if err != nil {
		return nil, err
	}

	if req.AccountID != nil {
		if *req.AccountID == "" {
			goal.AccountID = nil
		} else {
			if _, err := familyAccount(ctx, s.accountRepo, familyID, *req.AccountID); err != nil {
				return nil, err
			}
			goal.AccountID = req.AccountID
		}
	}
	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.Type != nil {
		goal.Type = *req.Type
	}
	if req.TargetAmount != nil {
		if req.TargetAmount.LessThan(domain.MinimumAmount) {
			return nil, fmt.Errorf("%w: target_amount must be at least %s", apperrors.ErrValidation, utils.FormatAmount(domain.MinimumAmount))
		}
		goal.TargetAmount = *req.TargetAmount
	}
	if req.MonthlyContribution != nil {
		goal.MonthlyContribution = req.MonthlyContribution
	}
	if req.TargetDate != nil {
		if goal.TargetDate, err = s.parseTargetDate(req.TargetDate, s.Today()); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.DuaReminder != nil {
		goal.DuaReminder = *req.DuaReminder
	}
	if req.AutoContribute != nil {
		goal.AutoContribute = *req.AutoContribute
	}
	if req.ContributionDay != nil {
		goal.ContributionDay = req.ContributionDay
	}
	if req.IsActive != nil {
		goal.IsActive = *req.IsActive
	}
	if err := checkAutoContribution(*goal); err != nil {
		return nil, err
	}
	goal.LastUpdatedAt = s.Now()
	goal.LastUpdatedBy = userID

	if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
		s.LogError(ctx, err, "Failed to update savings goal", slog.String("goal_id", goalID))
		return nil, err
	}
	return goal, nil
}

func (s *savingsService) DeleteGoal(ctx context.Context, familyID, goalID, userID string) error {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionManage); err != nil {
		return err
	}
	if _, err := s.findFamilyGoal(ctx, familyID, goalID); err != nil {
		return err
	}
	if err := s.goalRepo.DeleteGoal(ctx, goalID); err != nil {
		s.LogError(ctx, err, "Failed to delete savings goal", slog.String("goal_id", goalID))
		return err
	}
	return nil
}

func (s *savingsService) Contribute(ctx context.Context, familyID, goalID string, amount decimal.Decimal, userID string) (*domain.SavingsContribution, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	if amount.LessThan(domain.MinimumAmount) || !amount.Equal(amount.Round(2)) {
		return nil, fmt.Errorf("%w: amount must be at least %s with at most two decimals", apperrors.ErrValidation, utils.FormatAmount(domain.MinimumAmount))
	}
	goal, err := s.findFamilyGoal(ctx, familyID, goalID)
	if err != nil {
		return nil, err
	}
	if !goal.IsActive {
		return nil, fmt.Errorf("%w: savings goal %s is not active", apperrors.ErrConflict, goalID)
	}

	after, err := s.goalRepo.AddContribution(ctx, goalID, amount, userID, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to add savings contribution", slog.String("goal_id", goalID))
		return nil, err
	}
	contribution := domain.NewSavingsContribution(*after, amount)
	s.Metrics.RecordSavingsContribution("manual")
	s.announce(ctx, contribution, userID)
	s.LogInfo(ctx, "Savings contribution added",
		slog.String("goal_id", goalID),
		slog.String("amount", utils.FormatAmount(amount)))
	return &contribution, nil
}

func (s *savingsService) GetGoalsOverview(ctx context.Context, familyID, userID string) (*domain.SavingsOverview, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	active := true
	goals, err := s.goalRepo.ListGoals(ctx, familyID, domain.SavingsGoalFilter{IsActive: &active})
	if err != nil {
		s.LogError(ctx, err, "Failed to list savings goals for overview", slog.String("family_id", familyID))
		return nil, err
	}
	overview := domain.NewSavingsOverview(goals, s.Today())
	return &overview, nil
}

// ProcessAutoContributions keeps going past a failed goal. Each goal is credited
// in its own statement, guarded by the day it was last credited.
func (s *savingsService) ProcessAutoContributions(ctx context.Context) (domain.AutoContributionResult, error) {
	var result domain.AutoContributionResult
	today := s.Today()
	goals, err := s.goalRepo.ListAutoContributingGoals(ctx, today.Day())
	if err != nil {
		s.LogError(ctx, err, "Failed to list auto contributing goals")
		return result, err
	}
	for _, g := range goals {
		result.Scanned++
		if !g.DueForAutoContribution(today) {
			continue
		}
		after, err := s.goalRepo.AddAutoContribution(ctx, g.GoalID, today, s.Now())
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			result.Failed++
			s.LogError(ctx, err, "Failed to add auto contribution", slog.String("goal_id", g.GoalID))
			continue
		}
		amount := *g.MonthlyContribution
		if after.MonthlyContribution != nil {
			amount = *after.MonthlyContribution
		}
		result.Contributed++
		s.Metrics.RecordSavingsContribution("auto")
		s.announce(ctx, domain.NewSavingsContribution(*after, amount), "")
	}
	s.LogInfo(ctx, "Auto contributions processed",
		slog.Int("scanned", result.Scanned),
		slog.Int("contributed", result.Contributed),
		slog.Int("failed", result.Failed))
	return result, nil
}

// announce publishes one event per milestone crossed and one when the goal completes.
func (s *savingsService) announce(ctx context.Context, c domain.SavingsContribution, actorID string) {
	g := c.Goal
	for _, m := range c.MilestonesReached {
		s.publish(ctx, domain.EventSavingsMilestone, g.FamilyID, actorID, map[string]any{
			"goal_id":        g.GoalID,
			"goal_name":      g.Name,
			"milestone":      m,
			"current_amount": utils.FormatAmount(g.CurrentAmount),
			"target_amount":  utils.FormatAmount(g.TargetAmount),
			"dua_reminder":   g.DuaReminder,
		})
	}
	if c.Completed {
		s.publish(ctx, domain.EventSavingsGoalCompleted, g.FamilyID, actorID, map[string]any{
			"goal_id":        g.GoalID,
			"goal_name":      g.Name,
			"goal_type":      string(g.Type),
			"current_amount": utils.FormatAmount(g.CurrentAmount),
			"target_amount":  utils.FormatAmount(g.TargetAmount),
		})
	}
}

// parseTargetDate requires a target date to lie after today.
func (s *savingsService) parseTargetDate(value *string, today time.Time) (*time.Time, error) {
	d, err := dto.ParseOptionalDate("target_date", value)
	if err != nil || d == nil {
		return d, err
	}
	if !d.After(today) {
		return nil, fmt.Errorf("%w: target_date must be after today", apperrors.ErrValidation)
	}
	return d, nil
}

func (s *savingsService) findFamilyGoal(ctx context.Context, familyID, goalID string) (*domain.SavingsGoal, error) {
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find savings goal", slog.String("goal_id", goalID))
		}
		return nil, err
	}
	if goal.FamilyID != familyID {
		return nil, fmt.Errorf("%w: savings goal %s", apperrors.ErrNotFound, goalID)
	}
	return goal, nil
}

// checkAutoContribution requires a contribution day and a monthly amount on auto contributing goals.
func checkAutoContribution(g domain.SavingsGoal) error {
	if !g.AutoContribute {
		return nil
	}
	if g.ContributionDay == nil {
		return fmt.Errorf("%w: contribution_day is required when auto_contribute is set", apperrors.ErrValidation)
	}
	if g.MonthlyContribution == nil || !g.MonthlyContribution.IsPositive() {
		return fmt.Errorf("%w: monthly_contribution is required when auto_contribute is set", apperrors.ErrValidation)
	}
	return nil
}
