package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ZakatCalculation is a row of the zakat_calculations table.
type ZakatCalculation struct {
	CalculationID     string          `db:"calculation_id"`
	FamilyID          string          `db:"family_id"`
	HijriYear         int             `db:"hijri_year"`
	CalculationDate   time.Time       `db:"calculation_date"`
	CashInHand        decimal.Decimal `db:"cash_in_hand"`
	CashInBank        decimal.Decimal `db:"cash_in_bank"`
	GoldValue         decimal.Decimal `db:"gold_value"`
	SilverValue       decimal.Decimal `db:"silver_value"`
	BusinessInventory decimal.Decimal `db:"business_inventory"`
	Investments       decimal.Decimal `db:"investments"`
	LoansReceivable   decimal.Decimal `db:"loans_receivable"`
	OtherAssets       decimal.Decimal `db:"other_assets"`
	Debts             decimal.Decimal `db:"debts"`
	TotalAssets       decimal.Decimal `db:"total_assets"`
	NisabAmount       decimal.Decimal `db:"nisab_amount"`
	NisabType         string          `db:"nisab_type"`
	ZakatableAmount   decimal.Decimal `db:"zakatable_amount"`
	ZakatDue          decimal.Decimal `db:"zakat_due"`
	ZakatPaid         decimal.Decimal `db:"zakat_paid"`
	ZakatRemaining    decimal.Decimal `db:"zakat_remaining"`
	Notes             string          `db:"notes"`
	AuditFields
}

// ZakatPayment is a row of the zakat_payments table.
type ZakatPayment struct {
	PaymentID     string          `db:"payment_id"`
	CalculationID string          `db:"calculation_id"`
	FamilyID      string          `db:"family_id"`
	RecipientID   *string         `db:"recipient_id"`
	RecipientName string          `db:"recipient_name"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentDate   time.Time       `db:"payment_date"`
	PaymentType   string          `db:"payment_type"`
	Notes         string          `db:"notes"`
	AuditFields
}

// ZakatRecipient is a row of the zakat_recipients table.
type ZakatRecipient struct {
	RecipientID   string          `db:"recipient_id"`
	FamilyID      string          `db:"family_id"`
	Name          string          `db:"name"`
	Category      string          `db:"category"`
	Phone         string          `db:"phone"`
	Address       string          `db:"address"`
	Notes         string          `db:"notes"`
	IsActive      bool            `db:"is_active"`
	TotalReceived decimal.Decimal `db:"total_received"`
	AuditFields
}
