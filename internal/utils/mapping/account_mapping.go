package mapping

import (
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		FamilyID:       d.FamilyID,
		Name:           d.Name,
		AccountType:    string(d.AccountType),
		CurrencyCode:   d.CurrencyCode,
		Balance:        d.Balance,
		InitialBalance: d.InitialBalance,
		IsActive:       d.IsActive,
		IncludeInZakat: d.IncludeInZakat,
		Description:    d.Description,
		AuditFields:    toModelAudit(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		FamilyID:       m.FamilyID,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		CurrencyCode:   m.CurrencyCode,
		Balance:        m.Balance,
		InitialBalance: m.InitialBalance,
		IsActive:       m.IsActive,
		IncludeInZakat: m.IncludeInZakat,
		Description:    m.Description,
		AuditFields:    toDomainAudit(m.AuditFields),
		DeletedAt:      m.DeletedAt,
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	return mapSlice(ms, ToDomainAccount)
}
