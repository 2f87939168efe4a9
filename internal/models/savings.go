package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal is a row of the savings_goals table.
type SavingsGoal struct {
	GoalID              string              `db:"goal_id"`
	FamilyID            string              `db:"family_id"`
	AccountID           *string             `db:"account_id"`
	Name                string              `db:"name"`
	Type                string              `db:"type"`
	TargetAmount        decimal.Decimal     `db:"target_amount"`
	CurrentAmount       decimal.Decimal     `db:"current_amount"`
	MonthlyContribution decimal.NullDecimal `db:"monthly_contribution"`
	TargetDate          *time.Time          `db:"target_date"`
	StartDate           time.Time           `db:"start_date"`
	Description         string              `db:"description"`
	DuaReminder         string              `db:"dua_reminder"`
	AutoContribute      bool                `db:"auto_contribute"`
	ContributionDay     *int                `db:"contribution_day"`
	IsActive            bool                `db:"is_active"`
	LastAutoContributed *time.Time          `db:"last_auto_contributed_on"`
	AuditFields
}
