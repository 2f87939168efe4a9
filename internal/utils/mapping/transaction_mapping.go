package mapping

import (
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:       d.TransactionID,
		FamilyID:            d.FamilyID,
		AccountID:           d.AccountID,
		CategoryID:          d.CategoryID,
		Type:                string(d.Type),
		Amount:              d.Amount,
		Date:                d.Date,
		Description:         d.Description,
		Notes:               d.Notes,
		Status:              string(d.Status),
		NeedsApproval:       d.NeedsApproval,
		ApprovedBy:          d.ApprovedBy,
		ApprovedAt:          d.ApprovedAt,
		TransferToAccountID: d.TransferToAccountID,
		IsRecurring:         d.IsRecurring,
		RecurringEndDate:    d.RecurringEndDate,
		ParentTransactionID: d.ParentTransactionID,
		AuditFields:         toModelAudit(d.AuditFields),
		DeletedAt:           d.DeletedAt,
	}
	if d.RecurringFrequency != nil {
		f := string(*d.RecurringFrequency)
		m.RecurringFrequency = &f
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:       m.TransactionID,
		FamilyID:            m.FamilyID,
		AccountID:           m.AccountID,
		CategoryID:          m.CategoryID,
		Type:                domain.TransactionType(m.Type),
		Amount:              m.Amount,
		Date:                m.Date,
		Description:         m.Description,
		Notes:               m.Notes,
		Status:              domain.TransactionStatus(m.Status),
		NeedsApproval:       m.NeedsApproval,
		ApprovedBy:          m.ApprovedBy,
		ApprovedAt:          m.ApprovedAt,
		TransferToAccountID: m.TransferToAccountID,
		IsRecurring:         m.IsRecurring,
		RecurringEndDate:    m.RecurringEndDate,
		ParentTransactionID: m.ParentTransactionID,
		AuditFields:         toDomainAudit(m.AuditFields),
		DeletedAt:           m.DeletedAt,
	}
	if m.RecurringFrequency != nil {
		f := domain.RecurringFrequency(*m.RecurringFrequency)
		d.RecurringFrequency = &f
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	return mapSlice(ms, ToDomainTransaction)
}
