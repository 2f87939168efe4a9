package mapping

import (
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelSavingsGoal converts a domain SavingsGoal to a model SavingsGoal
func ToModelSavingsGoal(d domain.SavingsGoal) models.SavingsGoal {
	m := models.SavingsGoal{
		GoalID:              d.GoalID,
		FamilyID:            d.FamilyID,
		AccountID:           d.AccountID,
		Name:                d.Name,
		Type:                string(d.Type),
		TargetAmount:        d.TargetAmount,
		CurrentAmount:       d.CurrentAmount,
		TargetDate:          d.TargetDate,
		StartDate:           d.StartDate,
		Description:         d.Description,
		DuaReminder:         d.DuaReminder,
		AutoContribute:      d.AutoContribute,
		ContributionDay:     d.ContributionDay,
		IsActive:            d.IsActive,
		LastAutoContributed: d.LastAutoContributed,
		AuditFields:         toModelAudit(d.AuditFields),
	}
	if d.MonthlyContribution != nil {
		m.MonthlyContribution = decimal.NewNullDecimal(*d.MonthlyContribution)
	}
	return m
}

// ToDomainSavingsGoal converts a model SavingsGoal to a domain SavingsGoal
func ToDomainSavingsGoal(m models.SavingsGoal) domain.SavingsGoal {
	d := domain.SavingsGoal{
		GoalID:              m.GoalID,
		FamilyID:            m.FamilyID,
		AccountID:           m.AccountID,
		Name:                m.Name,
		Type:                domain.GoalType(m.Type),
		TargetAmount:        m.TargetAmount,
		CurrentAmount:       m.CurrentAmount,
		TargetDate:          m.TargetDate,
		StartDate:           m.StartDate,
		Description:         m.Description,
		DuaReminder:         m.DuaReminder,
		AutoContribute:      m.AutoContribute,
		ContributionDay:     m.ContributionDay,
		IsActive:            m.IsActive,
		LastAutoContributed: m.LastAutoContributed,
		AuditFields:         toDomainAudit(m.AuditFields),
	}
	if m.MonthlyContribution.Valid {
		monthly := m.MonthlyContribution.Decimal
		d.MonthlyContribution = &monthly
	}
	return d
}

// ToDomainSavingsGoalSlice converts a slice of model SavingsGoals to domain SavingsGoals
func ToDomainSavingsGoalSlice(ms []models.SavingsGoal) []domain.SavingsGoal {
	return mapSlice(ms, ToDomainSavingsGoal)
}
