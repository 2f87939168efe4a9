package mapping

import (
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
)

// ToModelZakatCalculation flattens the asset snapshot into columns.
func ToModelZakatCalculation(d domain.ZakatCalculation) models.ZakatCalculation {
	return models.ZakatCalculation{
		CalculationID:     d.CalculationID,
		FamilyID:          d.FamilyID,
		HijriYear:         d.HijriYear,
		CalculationDate:   d.CalculationDate,
		CashInHand:        d.Assets.CashInHand,
		CashInBank:        d.Assets.CashInBank,
		GoldValue:         d.Assets.GoldValue,
		SilverValue:       d.Assets.SilverValue,
		BusinessInventory: d.Assets.BusinessInventory,
		Investments:       d.Assets.Investments,
		LoansReceivable:   d.Assets.LoansReceivable,
		OtherAssets:       d.Assets.OtherAssets,
		Debts:             d.Assets.Debts,
		TotalAssets:       d.TotalAssets,
		NisabAmount:       d.NisabAmount,
		NisabType:         string(d.NisabType),
		ZakatableAmount:   d.ZakatableAmount,
		ZakatDue:          d.ZakatDue,
		ZakatPaid:         d.ZakatPaid,
		ZakatRemaining:    d.ZakatRemaining,
		Notes:             d.Notes,
		AuditFields:       toModelAudit(d.AuditFields),
	}
}

// ToDomainZakatCalculation converts a model ZakatCalculation to a domain ZakatCalculation
func ToDomainZakatCalculation(m models.ZakatCalculation) domain.ZakatCalculation {
	return domain.ZakatCalculation{
		CalculationID:   m.CalculationID,
		FamilyID:        m.FamilyID,
		HijriYear:       m.HijriYear,
		CalculationDate: m.CalculationDate,
		Assets: domain.AssetSnapshot{
			CashInHand:        m.CashInHand,
			CashInBank:        m.CashInBank,
			GoldValue:         m.GoldValue,
			SilverValue:       m.SilverValue,
			BusinessInventory: m.BusinessInventory,
			Investments:       m.Investments,
			LoansReceivable:   m.LoansReceivable,
			OtherAssets:       m.OtherAssets,
			Debts:             m.Debts,
		},
		TotalAssets:     m.TotalAssets,
		NisabAmount:     m.NisabAmount,
		NisabType:       domain.NisabType(m.NisabType),
		ZakatableAmount: m.ZakatableAmount,
		ZakatDue:        m.ZakatDue,
		ZakatPaid:       m.ZakatPaid,
		ZakatRemaining:  m.ZakatRemaining,
		Notes:           m.Notes,
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}

// ToDomainZakatCalculationSlice converts a slice of model calculations to domain calculations
func ToDomainZakatCalculationSlice(ms []models.ZakatCalculation) []domain.ZakatCalculation {
	return mapSlice(ms, ToDomainZakatCalculation)
}

// ToModelZakatPayment converts a domain ZakatPayment to a model ZakatPayment
func ToModelZakatPayment(d domain.ZakatPayment) models.ZakatPayment {
	return models.ZakatPayment{
		PaymentID:     d.PaymentID,
		CalculationID: d.CalculationID,
		FamilyID:      d.FamilyID,
		RecipientID:   d.RecipientID,
		RecipientName: d.RecipientName,
		Amount:        d.Amount,
		PaymentDate:   d.PaymentDate,
		PaymentType:   string(d.PaymentType),
		Notes:         d.Notes,
		AuditFields:   toModelAudit(d.AuditFields),
	}
}

// ToDomainZakatPayment converts a model ZakatPayment to a domain ZakatPayment
func ToDomainZakatPayment(m models.ZakatPayment) domain.ZakatPayment {
	return domain.ZakatPayment{
		PaymentID:     m.PaymentID,
		CalculationID: m.CalculationID,
		FamilyID:      m.FamilyID,
		RecipientID:   m.RecipientID,
		RecipientName: m.RecipientName,
		Amount:        m.Amount,
		PaymentDate:   m.PaymentDate,
		PaymentType:   domain.PaymentType(m.PaymentType),
		Notes:         m.Notes,
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}

// ToDomainZakatPaymentSlice converts a slice of model payments to domain payments
func ToDomainZakatPaymentSlice(ms []models.ZakatPayment) []domain.ZakatPayment {
	return mapSlice(ms, ToDomainZakatPayment)
}

// ToModelZakatRecipient converts a domain ZakatRecipient to a model ZakatRecipient
func ToModelZakatRecipient(d domain.ZakatRecipient) models.ZakatRecipient {
	return models.ZakatRecipient{
		RecipientID:   d.RecipientID,
		FamilyID:      d.FamilyID,
		Name:          d.Name,
		Category:      string(d.Category),
		Phone:         d.Phone,
		Address:       d.Address,
		Notes:         d.Notes,
		IsActive:      d.IsActive,
		TotalReceived: d.TotalReceived,
		AuditFields:   toModelAudit(d.AuditFields),
	}
}

// ToDomainZakatRecipient converts a model ZakatRecipient to a domain ZakatRecipient
func ToDomainZakatRecipient(m models.ZakatRecipient) domain.ZakatRecipient {
	return domain.ZakatRecipient{
		RecipientID:   m.RecipientID,
		FamilyID:      m.FamilyID,
		Name:          m.Name,
		Category:      domain.RecipientCategory(m.Category),
		Phone:         m.Phone,
		Address:       m.Address,
		Notes:         m.Notes,
		IsActive:      m.IsActive,
		TotalReceived: m.TotalReceived,
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}

// ToDomainZakatRecipientSlice converts a slice of model recipients to domain recipients
func ToDomainZakatRecipientSlice(ms []models.ZakatRecipient) []domain.ZakatRecipient {
	return mapSlice(ms, ToDomainZakatRecipient)
}
