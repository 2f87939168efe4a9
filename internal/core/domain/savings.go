package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// SavingsMilestones are the progress percentages announced when a contribution crosses them.
var SavingsMilestones = []int{25, 50, 75, 90}

// GoalType is what a family is saving for.
type GoalType string

const (
	GoalHajj      GoalType = "hajj"
	GoalUmrah     GoalType = "umrah"
	GoalEducation GoalType = "education"
	GoalMarriage  GoalType = "marriage"
	GoalEmergency GoalType = "emergency"
	GoalBusiness  GoalType = "business"
	GoalOther     GoalType = "other"
)

// SavingsGoal tracks money set aside towards a target amount.
type SavingsGoal struct {
	GoalID              string           `json:"goal_id"`
	FamilyID            string           `json:"family_id"`
	AccountID           *string          `json:"account_id,omitempty"`
	Name                string           `json:"name"`
	Type                GoalType         `json:"type"`
	TargetAmount        decimal.Decimal  `json:"target_amount"`
	CurrentAmount       decimal.Decimal  `json:"current_amount"`
	MonthlyContribution *decimal.Decimal `json:"monthly_contribution,omitempty"`
	TargetDate          *time.Time       `json:"target_date,omitempty"`
	StartDate           time.Time        `json:"start_date"`
	Description         string           `json:"description"`
	DuaReminder         string           `json:"dua_reminder"`
	AutoContribute      bool             `json:"auto_contribute"`
	ContributionDay     *int             `json:"contribution_day,omitempty"`
	IsActive            bool             `json:"is_active"`
	LastAutoContributed *time.Time       `json:"-"`
	AuditFields
}

// ProgressPercentage is current over target, capped at 100 and rounded to cents.
func (g SavingsGoal) ProgressPercentage() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	return decimal.Min(pct, decimal.NewFromInt(100)).Round(2)
}

// RemainingAmount never goes below zero.
func (g SavingsGoal) RemainingAmount() decimal.Decimal {
	return decimal.Max(decimal.Zero, g.TargetAmount.Sub(g.CurrentAmount))
}

// IsCompleted reports whether the target has been reached.
func (g SavingsGoal) IsCompleted() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// IsOverdue reports whether the target date passed before the goal was reached.
func (g SavingsGoal) IsOverdue(today time.Time) bool {
	return g.TargetDate != nil && g.TargetDate.Before(today) && !g.IsCompleted()
}

// DaysRemaining until the target date, nil without one.
func (g SavingsGoal) DaysRemaining(today time.Time) *int {
	if g.TargetDate == nil {
		return nil
	}
	days := int(g.TargetDate.Sub(today).Hours() / 24)
	return &days
}

// EstimatedCompletionDate projects the remaining amount over the monthly contribution.
// It is nil without a positive monthly contribution and today once completed.
func (g SavingsGoal) EstimatedCompletionDate(today time.Time) *time.Time {
	if g.IsCompleted() {
		return &today
	}
	if g.MonthlyContribution == nil || !g.MonthlyContribution.IsPositive() {
		return nil
	}
	months := g.RemainingAmount().Div(*g.MonthlyContribution).Ceil().IntPart()
	if months > math.MaxInt32 {
		return nil
	}
	date := today.AddDate(0, int(months), 0)
	return &date
}

// DueForAutoContribution reports whether the worker should add the monthly
// contribution on today.
func (g SavingsGoal) DueForAutoContribution(today time.Time) bool {
	if !g.IsActive || !g.AutoContribute || g.IsCompleted() || g.ContributionDay == nil {
		return false
	}
	if g.MonthlyContribution == nil || !g.MonthlyContribution.IsPositive() {
		return false
	}
	if g.LastAutoContributed != nil && !g.LastAutoContributed.Before(today) {
		return false
	}
	return today.Day() == *g.ContributionDay
}

// CrossedMilestones returns the milestones reached by moving from previous to current.
func CrossedMilestones(target, previous, current decimal.Decimal) []int {
	if !target.IsPositive() {
		return nil
	}
	hundred := decimal.NewFromInt(100)
	before := previous.Div(target).Mul(hundred)
	after := current.Div(target).Mul(hundred)
	var out []int
	for _, m := range SavingsMilestones {
		mark := decimal.NewFromInt(int64(m))
		if before.LessThan(mark) && after.GreaterThanOrEqual(mark) {
			out = append(out, m)
		}
	}
	return out
}

// SavingsProgress is the derived position of a goal.
type SavingsProgress struct {
	Goal                    SavingsGoal     `json:"goal"`
	ProgressPercentage      decimal.Decimal `json:"progress_percentage"`
	RemainingAmount         decimal.Decimal `json:"remaining_amount"`
	IsCompleted             bool            `json:"is_completed"`
	IsOverdue               bool            `json:"is_overdue"`
	DaysRemaining           *int            `json:"days_remaining,omitempty"`
	EstimatedCompletionDate *time.Time      `json:"estimated_completion_date,omitempty"`
}

// NewSavingsProgress computes the progress of g as of today.
func NewSavingsProgress(g SavingsGoal, today time.Time) SavingsProgress {
	return SavingsProgress{
		Goal:                    g,
		ProgressPercentage:      g.ProgressPercentage(),
		RemainingAmount:         g.RemainingAmount(),
		IsCompleted:             g.IsCompleted(),
		IsOverdue:               g.IsOverdue(today),
		DaysRemaining:           g.DaysRemaining(today),
		EstimatedCompletionDate: g.EstimatedCompletionDate(today),
	}
}

// SavingsOverview summarizes the active goals of a family.
type SavingsOverview struct {
	TotalGoals      int               `json:"total_goals"`
	CompletedGoals  int               `json:"completed_goals"`
	InProgressGoals int               `json:"in_progress_goals"`
	TotalTarget     decimal.Decimal   `json:"total_target"`
	TotalSaved      decimal.Decimal   `json:"total_saved"`
	OverallProgress decimal.Decimal   `json:"overall_progress"`
	Goals           []SavingsProgress `json:"goals"`
}

// NewSavingsOverview aggregates goals as of today.
func NewSavingsOverview(goals []SavingsGoal, today time.Time) SavingsOverview {
	o := SavingsOverview{TotalGoals: len(goals), Goals: make([]SavingsProgress, 0, len(goals))}
	for _, g := range goals {
		if g.IsCompleted() {
			o.CompletedGoals++
		}
		o.TotalTarget = o.TotalTarget.Add(g.TargetAmount)
		o.TotalSaved = o.TotalSaved.Add(g.CurrentAmount)
		o.Goals = append(o.Goals, NewSavingsProgress(g, today))
	}
	o.InProgressGoals = o.TotalGoals - o.CompletedGoals
	if o.TotalTarget.IsPositive() {
		o.OverallProgress = o.TotalSaved.Div(o.TotalTarget).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return o
}

// SavingsGoalFilter narrows a goal listing.
type SavingsGoalFilter struct {
	IsActive *bool
	Type     *GoalType
}

// AutoContributionResult summarizes one auto contribution run.
type AutoContributionResult struct {
	Scanned     int `json:"scanned"`
	Contributed int `json:"contributed"`
	Failed      int `json:"failed"`
}

// SavingsContribution is a goal after a contribution together with what the
// contribution achieved.
type SavingsContribution struct {
	Goal              SavingsGoal     `json:"goal"`
	Amount            decimal.Decimal `json:"amount"`
	MilestonesReached []int           `json:"milestones_reached"`
	Completed         bool            `json:"completed"`
}

// NewSavingsContribution derives the milestones crossed by adding amount to
// reach the saved amount of after. Completed is set only by the contribution
// that reached the target.
func NewSavingsContribution(after SavingsGoal, amount decimal.Decimal) SavingsContribution {
	previous := after.CurrentAmount.Sub(amount)
	return SavingsContribution{
		Goal:              after,
		Amount:            amount,
		MilestonesReached: CrossedMilestones(after.TargetAmount, previous, after.CurrentAmount),
		Completed:         previous.LessThan(after.TargetAmount) && after.IsCompleted(),
	}
}
