package mapping

import (
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelBill converts a domain Bill to a model Bill
func ToModelBill(d domain.Bill) models.Bill {
	m := models.Bill{
		BillID:            d.BillID,
		FamilyID:          d.FamilyID,
		CategoryID:        d.CategoryID,
		AccountID:         d.AccountID,
		Name:              d.Name,
		Type:              string(d.Type),
		Amount:            d.Amount,
		DueDate:           d.DueDate,
		Frequency:         string(d.Frequency),
		IsRecurring:       d.IsRecurring,
		AutoPay:           d.AutoPay,
		Provider:          d.Provider,
		AccountNumber:     d.AccountNumber,
		SplitMembers:      d.SplitMembers,
		ReminderDays:      d.ReminderDays,
		Status:            string(d.Status),
		LastPaidDate:      d.LastPaidDate,
		PaidTransactionID: d.PaidTransactionID,
		PreviousBillID:    d.PreviousBillID,
		LastRemindedOn:    d.LastRemindedOn,
		AuditFields:       toModelAudit(d.AuditFields),
		DeletedAt:         d.DeletedAt,
	}
	if m.SplitMembers == nil {
		m.SplitMembers = []string{}
	}
	if d.AverageAmount != nil {
		m.AverageAmount = decimal.NewNullDecimal(*d.AverageAmount)
	}
	return m
}

// ToDomainBill converts a model Bill to a domain Bill
func ToDomainBill(m models.Bill) domain.Bill {
	d := domain.Bill{
		BillID:            m.BillID,
		FamilyID:          m.FamilyID,
		CategoryID:        m.CategoryID,
		AccountID:         m.AccountID,
		Name:              m.Name,
		Type:              domain.BillType(m.Type),
		Amount:            m.Amount,
		DueDate:           m.DueDate,
		Frequency:         domain.BillFrequency(m.Frequency),
		IsRecurring:       m.IsRecurring,
		AutoPay:           m.AutoPay,
		Provider:          m.Provider,
		AccountNumber:     m.AccountNumber,
		SplitMembers:      m.SplitMembers,
		ReminderDays:      m.ReminderDays,
		Status:            domain.BillStatus(m.Status),
		LastPaidDate:      m.LastPaidDate,
		PaidTransactionID: m.PaidTransactionID,
		PreviousBillID:    m.PreviousBillID,
		LastRemindedOn:    m.LastRemindedOn,
		AuditFields:       toDomainAudit(m.AuditFields),
		DeletedAt:         m.DeletedAt,
	}
	if m.AverageAmount.Valid {
		avg := m.AverageAmount.Decimal
		d.AverageAmount = &avg
	}
	return d
}

// ToDomainBillSlice converts a slice of model Bills to domain Bills
func ToDomainBillSlice(ms []models.Bill) []domain.Bill {
	return mapSlice(ms, ToDomainBill)
}
