package services

import (
	"context"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// ZakatCalculatorSvc defines the zakat calculation engine.
type ZakatCalculatorSvc interface {
	// CalculateZakat upserts the calculation of hijriYear from a declared snapshot.
	// Payments already recorded for that year are kept.
	CalculateZakat(ctx context.Context, familyID string, hijriYear int, snapshot domain.AssetSnapshot, nisabType domain.NisabType, notes string, userID string) (*domain.ZakatCalculation, error)

	// AutoCalculateFromAccounts builds the snapshot from zakatable account balances.
	AutoCalculateFromAccounts(ctx context.Context, familyID string, hijriYear int, userID string) (*domain.ZakatCalculation, error)

	// CurrentHijriYear returns the Hijri year of the injected clock.
	CurrentHijriYear() int
}

// ZakatReaderSvc defines read operations for zakat data.
type ZakatReaderSvc interface {
	GetCalculation(ctx context.Context, familyID, calculationID, userID string) (*domain.ZakatCalculation, error)
	GetCalculationByYear(ctx context.Context, familyID string, hijriYear int, userID string) (*domain.ZakatCalculation, error)
	ListCalculations(ctx context.Context, familyID, userID string) ([]domain.ZakatCalculation, error)
	GetZakatHistory(ctx context.Context, familyID, userID string) ([]domain.ZakatHistoryEntry, error)
	// DeleteCalculation removes a calculation that has no payments.
	DeleteCalculation(ctx context.Context, familyID, calculationID, userID string) error
}

// ZakatPaymentSvc defines the payment tracker.
type ZakatPaymentSvc interface {
	// RecordPayment inserts a payment and atomically increments zakat_paid. Overpayment is allowed.
	RecordPayment(ctx context.Context, familyID, calculationID string, req dto.RecordZakatPaymentRequest, userID string) (*domain.ZakatPayment, *domain.ZakatCalculation, error)
	ListPayments(ctx context.Context, familyID, calculationID, userID string) ([]domain.ZakatPayment, error)
}

// ZakatReminderSvc scans outstanding calculations.
type ZakatReminderSvc interface {
	// SendZakatReminders publishes a reminder for every calculation of the current Hijri year
	// that still has zakat remaining and returns how many were sent.
	SendZakatReminders(ctx context.Context) (int, error)
}

// ZakatSvcFacade combines all zakat-related service interfaces
type ZakatSvcFacade interface {
	ZakatCalculatorSvc
	ZakatReaderSvc
	ZakatPaymentSvc
	ZakatReminderSvc
}

// NisabSvc resolves nisab thresholds from metal prices.
type NisabSvc interface {
	// GetNisabAmount returns grams(type) × price per gram in currency. It never fails: when
	// the price source is unavailable the static fallback table is used.
	GetNisabAmount(ctx context.Context, nisabType domain.NisabType, currency string) decimal.Decimal
}

// MetalPriceSource supplies per gram metal prices.
type MetalPriceSource interface {
	FetchRates(ctx context.Context, currency string) (domain.MetalRates, error)
}

// RecipientSvc manages zakat recipients.
type RecipientSvc interface {
	CreateRecipient(ctx context.Context, familyID string, req dto.CreateRecipientRequest, userID string) (*domain.ZakatRecipient, error)
	GetRecipient(ctx context.Context, familyID, recipientID, userID string) (*domain.ZakatRecipient, error)
	ListRecipients(ctx context.Context, familyID string, category *domain.RecipientCategory, userID string) ([]domain.ZakatRecipient, error)
	UpdateRecipient(ctx context.Context, familyID, recipientID string, req dto.UpdateRecipientRequest, userID string) (*domain.ZakatRecipient, error)
	DeleteRecipient(ctx context.Context, familyID, recipientID, userID string) error
}
