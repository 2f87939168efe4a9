package mapping

import (
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelFamily converts a domain Family to a model Family
func ToModelFamily(d domain.Family) models.Family {
	return models.Family{
		FamilyID:     d.FamilyID,
		Name:         d.Name,
		CurrencyCode: d.CurrencyCode,
		AuditFields:  toModelAudit(d.AuditFields),
	}
}

// ToDomainFamily converts a model Family to a domain Family
func ToDomainFamily(m models.Family) domain.Family {
	return domain.Family{
		FamilyID:     m.FamilyID,
		Name:         m.Name,
		CurrencyCode: m.CurrencyCode,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
}

// ToDomainFamilySlice converts a slice of model Families to domain Families
func ToDomainFamilySlice(ms []models.Family) []domain.Family {
	return mapSlice(ms, ToDomainFamily)
}

// ToModelFamilyMember converts a domain FamilyMember to a model FamilyMember.
// A nil spending limit is stored as NULL.
func ToModelFamilyMember(d domain.FamilyMember) models.FamilyMember {
	m := models.FamilyMember{
		FamilyID: d.FamilyID,
		UserID:   d.UserID,
		Name:     d.Name,
		Role:     string(d.Role),
		IsActive: d.IsActive,
		JoinedAt: d.JoinedAt,
	}
	if d.SpendingLimit != nil {
		m.SpendingLimit = decimal.NewNullDecimal(*d.SpendingLimit)
	}
	return m
}

// ToDomainFamilyMember converts a model FamilyMember to a domain FamilyMember
func ToDomainFamilyMember(m models.FamilyMember) domain.FamilyMember {
	d := domain.FamilyMember{
		FamilyID: m.FamilyID,
		UserID:   m.UserID,
		Name:     m.Name,
		Role:     domain.FamilyRole(m.Role),
		IsActive: m.IsActive,
		JoinedAt: m.JoinedAt,
	}
	if m.SpendingLimit.Valid {
		limit := m.SpendingLimit.Decimal
		d.SpendingLimit = &limit
	}
	return d
}

// ToDomainFamilyMemberSlice converts a slice of model members to domain members
func ToDomainFamilyMemberSlice(ms []models.FamilyMember) []domain.FamilyMember {
	return mapSlice(ms, ToDomainFamilyMember)
}

// ToModelCategory converts a domain Category to a model Category
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:  d.CategoryID,
		FamilyID:    d.FamilyID,
		Name:        d.Name,
		Type:        string(d.Type),
		AuditFields: toModelAudit(d.AuditFields),
	}
}

// ToDomainCategory converts a model Category to a domain Category
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		FamilyID:    m.FamilyID,
		Name:        m.Name,
		Type:        domain.TransactionType(m.Type),
		AuditFields: toDomainAudit(m.AuditFields),
	}
}

// ToDomainCategorySlice converts a slice of model Categories to domain Categories
func ToDomainCategorySlice(ms []models.Category) []domain.Category {
	return mapSlice(ms, ToDomainCategory)
}
