package mapping

import (
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:       d.BudgetID,
		FamilyID:       d.FamilyID,
		CategoryID:     d.CategoryID,
		Name:           d.Name,
		Amount:         d.Amount,
		Period:         string(d.Period),
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		AlertThreshold: d.AlertThreshold,
		IsActive:       d.IsActive,
		AuditFields:    toModelAudit(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:       m.BudgetID,
		FamilyID:       m.FamilyID,
		CategoryID:     m.CategoryID,
		Name:           m.Name,
		Amount:         m.Amount,
		Period:         domain.BudgetPeriod(m.Period),
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		AlertThreshold: m.AlertThreshold,
		IsActive:       m.IsActive,
		AuditFields:    toDomainAudit(m.AuditFields),
	}
}

// ToDomainBudgetSlice converts a slice of model Budgets to domain Budgets
func ToDomainBudgetSlice(ms []models.Budget) []domain.Budget {
	return mapSlice(ms, ToDomainBudget)
}
