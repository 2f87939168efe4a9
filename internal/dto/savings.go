package dto

import (
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSavingsGoalRequest defines data for starting a savings goal. start_date
// defaults to today.
type CreateSavingsGoalRequest struct {
	AccountID           *string          `json:"account_id"`
	Name                string           `json:"name" binding:"required,max=255"`
	Type                domain.GoalType  `json:"type" binding:"required,oneof=hajj umrah education marriage emergency business other"`
	TargetAmount        decimal.Decimal  `json:"target_amount" binding:"money"`
	CurrentAmount       *decimal.Decimal `json:"current_amount"`
	MonthlyContribution *decimal.Decimal `json:"monthly_contribution" binding:"omitempty,money"`
	TargetDate          *string          `json:"target_date" binding:"omitempty,datetime=2006-01-02"`
	StartDate           *string          `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	Description         string           `json:"description"`
	DuaReminder         string           `json:"dua_reminder"`
	AutoContribute      bool             `json:"auto_contribute"`
	ContributionDay     *int             `json:"contribution_day" binding:"omitempty,min=1,max=28"`
}

// UpdateSavingsGoalRequest defines the goal fields that may change. The saved
// amount only moves through contributions.
type UpdateSavingsGoalRequest struct {
	AccountID           *string          `json:"account_id"`
	Name                *string          `json:"name" binding:"omitempty,max=255"`
	Type                *domain.GoalType `json:"type" binding:"omitempty,oneof=hajj umrah education marriage emergency business other"`
	TargetAmount        *decimal.Decimal `json:"target_amount" binding:"omitempty,money"`
	MonthlyContribution *decimal.Decimal `json:"monthly_contribution" binding:"omitempty,money"`
	TargetDate          *string          `json:"target_date" binding:"omitempty,datetime=2006-01-02"`
	Description         *string          `json:"description"`
	DuaReminder         *string          `json:"dua_reminder"`
	AutoContribute      *bool            `json:"auto_contribute"`
	ContributionDay     *int             `json:"contribution_day" binding:"omitempty,min=1,max=28"`
	IsActive            *bool            `json:"is_active"`
}

// ListSavingsGoalsParams filters goals by active flag and type.
type ListSavingsGoalsParams struct {
	IsActive *bool  `form:"is_active"`
	Type     string `form:"type" binding:"omitempty,oneof=hajj umrah education marriage emergency business other"`
}

// Filter converts the query parameters to a domain filter.
func (p ListSavingsGoalsParams) Filter() domain.SavingsGoalFilter {
	f := domain.SavingsGoalFilter{IsActive: p.IsActive}
	if p.Type != "" {
		gt := domain.GoalType(p.Type)
		f.Type = &gt
	}
	return f
}

// ContributeRequest adds money to a goal.
type ContributeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"money"`
}

// SavingsGoalResponse is a goal together with its derived progress.
type SavingsGoalResponse struct {
	GoalID                  string           `json:"goal_id"`
	AccountID               *string          `json:"account_id,omitempty"`
	Name                    string           `json:"name"`
	Type                    domain.GoalType  `json:"type"`
	TargetAmount            decimal.Decimal  `json:"target_amount"`
	CurrentAmount           decimal.Decimal  `json:"current_amount"`
	MonthlyContribution     *decimal.Decimal `json:"monthly_contribution,omitempty"`
	TargetDate              *string          `json:"target_date,omitempty"`
	StartDate               string           `json:"start_date"`
	Description             string           `json:"description"`
	DuaReminder             string           `json:"dua_reminder"`
	AutoContribute          bool             `json:"auto_contribute"`
	ContributionDay         *int             `json:"contribution_day,omitempty"`
	IsActive                bool             `json:"is_active"`
	ProgressPercentage      decimal.Decimal  `json:"progress_percentage"`
	RemainingAmount         decimal.Decimal  `json:"remaining_amount"`
	IsCompleted             bool             `json:"is_completed"`
	IsOverdue               bool             `json:"is_overdue"`
	DaysRemaining           *int             `json:"days_remaining,omitempty"`
	EstimatedCompletionDate *string          `json:"estimated_completion_date,omitempty"`
}

// ToSavingsGoalResponse converts a goal's progress to DTO.
func ToSavingsGoalResponse(p domain.SavingsProgress) SavingsGoalResponse {
	g := p.Goal
	return SavingsGoalResponse{
		GoalID:                  g.GoalID,
		AccountID:               g.AccountID,
		Name:                    g.Name,
		Type:                    g.Type,
		TargetAmount:            g.TargetAmount,
		CurrentAmount:           g.CurrentAmount,
		MonthlyContribution:     g.MonthlyContribution,
		TargetDate:              formatOptionalDate(g.TargetDate),
		StartDate:               FormatDate(g.StartDate),
		Description:             g.Description,
		DuaReminder:             g.DuaReminder,
		AutoContribute:          g.AutoContribute,
		ContributionDay:         g.ContributionDay,
		IsActive:                g.IsActive,
		ProgressPercentage:      p.ProgressPercentage,
		RemainingAmount:         p.RemainingAmount,
		IsCompleted:             p.IsCompleted,
		IsOverdue:               p.IsOverdue,
		DaysRemaining:           p.DaysRemaining,
		EstimatedCompletionDate: formatOptionalDate(p.EstimatedCompletionDate),
	}
}

// NewSavingsGoalResponse converts a goal to DTO with its progress as of today.
func NewSavingsGoalResponse(g *domain.SavingsGoal, today time.Time) SavingsGoalResponse {
	return ToSavingsGoalResponse(domain.NewSavingsProgress(*g, today))
}

// ListSavingsGoalsResponse wraps goals.
type ListSavingsGoalsResponse struct {
	Goals []SavingsGoalResponse `json:"goals"`
}

// ToListSavingsGoalsResponse converts goals to DTO as of today.
func ToListSavingsGoalsResponse(gs []domain.SavingsGoal, today time.Time) ListSavingsGoalsResponse {
	resp := ListSavingsGoalsResponse{Goals: make([]SavingsGoalResponse, len(gs))}
	for i := range gs {
		resp.Goals[i] = NewSavingsGoalResponse(&gs[i], today)
	}
	return resp
}

// SavingsOverviewResponse summarizes the active goals of a family.
type SavingsOverviewResponse struct {
	TotalGoals      int                   `json:"total_goals"`
	CompletedGoals  int                   `json:"completed_goals"`
	InProgressGoals int                   `json:"in_progress_goals"`
	TotalTarget     decimal.Decimal       `json:"total_target"`
	TotalSaved      decimal.Decimal       `json:"total_saved"`
	OverallProgress decimal.Decimal       `json:"overall_progress"`
	Goals           []SavingsGoalResponse `json:"goals"`
}

// ToSavingsOverviewResponse converts the overview to DTO.
func ToSavingsOverviewResponse(o *domain.SavingsOverview) SavingsOverviewResponse {
	resp := SavingsOverviewResponse{
		TotalGoals:      o.TotalGoals,
		CompletedGoals:  o.CompletedGoals,
		InProgressGoals: o.InProgressGoals,
		TotalTarget:     o.TotalTarget,
		TotalSaved:      o.TotalSaved,
		OverallProgress: o.OverallProgress,
		Goals:           make([]SavingsGoalResponse, len(o.Goals)),
	}
	for i, p := range o.Goals {
		resp.Goals[i] = ToSavingsGoalResponse(p)
	}
	return resp
}

// ContributionResponse is the goal after a contribution and the milestones it crossed.
type ContributionResponse struct {
	Goal              SavingsGoalResponse `json:"goal"`
	MilestonesReached []int               `json:"milestones_reached"`
	Completed         bool                `json:"completed"`
}

// ToContributionResponse converts a contribution to DTO.
func ToContributionResponse(c *domain.SavingsContribution, today time.Time) ContributionResponse {
	milestones := c.MilestonesReached
	if milestones == nil {
		milestones = []int{}
	}
	return ContributionResponse{
		Goal:              NewSavingsGoalResponse(&c.Goal, today),
		MilestonesReached: milestones,
		Completed:         c.Completed,
	}
}
