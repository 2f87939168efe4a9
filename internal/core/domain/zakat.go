package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Classical zakat constants. These are fixed by Shari'a and never configurable.
var (
	ZakatRate        = decimal.RequireFromString("0.025")
	GoldNisabGrams   = decimal.RequireFromString("87.48")
	SilverNisabGrams = decimal.RequireFromString("612.36")
)

// Accepted Hijri year range for calculations.
const (
	MinHijriYear = 1400
	MaxHijriYear = 1500

	// Days from 622-07-16 (Julian), the first day of the Hijri calendar, to the Unix epoch.
	hijriEpochToUnixDays = 492148
	// Days in a 30 year cycle of the tabular Islamic calendar.
	hijriCycleDays = 10631
)

// NisabType selects which metal benchmarks the nisab threshold.
type NisabType string

const (
	NisabGold   NisabType = "gold"
	NisabSilver NisabType = "silver"
)

// IsValidNisabType reports whether t is gold or silver.
func IsValidNisabType(t NisabType) bool {
	return t == NisabGold || t == NisabSilver
}

// Grams returns the nisab weight for the metal.
func (t NisabType) Grams() decimal.Decimal {
	if t == NisabGold {
		return GoldNisabGrams
	}
	return SilverNisabGrams
}

// CurrentHijriYear approximates the Hijri year for now using the tabular calendar.
func CurrentHijriYear(now time.Time) int {
	days := now.UTC().Unix()/86400 + hijriEpochToUnixDays
	return int(days*30/hijriCycleDays) + 1
}

// ValidateHijriYear checks the year is inside the accepted range.
func ValidateHijriYear(year int) error {
	if year < MinHijriYear || year > MaxHijriYear {
		return fmt.Errorf("%w: hijri_year must be between %d and %d", apperrors.ErrValidation, MinHijriYear, MaxHijriYear)
	}
	return nil
}

// AssetSnapshot is the declared wealth a calculation is computed from.
type AssetSnapshot struct {
	CashInHand        decimal.Decimal `json:"cash_in_hand"`
	CashInBank        decimal.Decimal `json:"cash_in_bank"`
	GoldValue         decimal.Decimal `json:"gold_value"`
	SilverValue       decimal.Decimal `json:"silver_value"`
	BusinessInventory decimal.Decimal `json:"business_inventory"`
	Investments       decimal.Decimal `json:"investments"`
	LoansReceivable   decimal.Decimal `json:"loans_receivable"`
	OtherAssets       decimal.Decimal `json:"other_assets"`
	Debts             decimal.Decimal `json:"debts"`
}

// Total sums every asset field. Debts are not included.
func (s AssetSnapshot) Total() decimal.Decimal {
	return decimal.Sum(s.CashInHand, s.CashInBank, s.GoldValue, s.SilverValue,
		s.BusinessInventory, s.Investments, s.LoansReceivable, s.OtherAssets)
}

// Validate rejects negative amounts.
func (s AssetSnapshot) Validate() error {
	fields := map[string]decimal.Decimal{
		"cash_in_hand":       s.CashInHand,
		"cash_in_bank":       s.CashInBank,
		"gold_value":         s.GoldValue,
		"silver_value":       s.SilverValue,
		"business_inventory": s.BusinessInventory,
		"investments":        s.Investments,
		"loans_receivable":   s.LoansReceivable,
		"other_assets":       s.OtherAssets,
		"debts":              s.Debts,
	}
	for name, v := range fields {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", apperrors.ErrValidation, name)
		}
	}
	return nil
}

// ZakatCalculation is the zakat assessment of a family for one Hijri year.
type ZakatCalculation struct {
	CalculationID   string          `json:"calculation_id"`
	FamilyID        string          `json:"family_id"`
	HijriYear       int             `json:"hijri_year"`
	CalculationDate time.Time       `json:"calculation_date"`
	Assets          AssetSnapshot   `json:"assets"`
	TotalAssets     decimal.Decimal `json:"total_assets"`
	NisabAmount     decimal.Decimal `json:"nisab_amount"`
	NisabType       NisabType       `json:"nisab_type"`
	ZakatableAmount decimal.Decimal `json:"zakatable_amount"`
	ZakatDue        decimal.Decimal `json:"zakat_due"`
	ZakatPaid       decimal.Decimal `json:"zakat_paid"`
	ZakatRemaining  decimal.Decimal `json:"zakat_remaining"`
	Notes           string          `json:"notes"`
	AuditFields
}

// Recalculate derives every computed field from the snapshot, nisab and paid amount.
func (c *ZakatCalculation) Recalculate() {
	c.TotalAssets = c.Assets.Total().Round(2)
	c.ZakatableAmount = decimal.Max(decimal.Zero, c.TotalAssets.Sub(c.Assets.Debts)).Round(2)
	if c.ZakatableAmount.GreaterThanOrEqual(c.NisabAmount) {
		c.ZakatDue = c.ZakatableAmount.Mul(ZakatRate).Round(2)
	} else {
		c.ZakatDue = decimal.Zero
	}
	c.refreshRemaining()
}

// ApplyPayment adds amount to the paid total. Overpayment is allowed.
func (c *ZakatCalculation) ApplyPayment(amount decimal.Decimal) {
	c.ZakatPaid = c.ZakatPaid.Add(amount).Round(2)
	c.refreshRemaining()
}

func (c *ZakatCalculation) refreshRemaining() {
	c.ZakatRemaining = decimal.Max(decimal.Zero, c.ZakatDue.Sub(c.ZakatPaid)).Round(2)
}

// IsZakatDue reports whether wealth reached nisab and something is owed.
func (c ZakatCalculation) IsZakatDue() bool {
	return c.ZakatableAmount.GreaterThanOrEqual(c.NisabAmount) && c.ZakatDue.IsPositive()
}

// IsFullyPaid reports whether an owed amount has been settled.
func (c ZakatCalculation) IsFullyPaid() bool {
	return !c.ZakatRemaining.IsPositive() && c.ZakatDue.IsPositive()
}

// CompletionPercentage is the share of zakat_due already paid, capped at 100.
func (c ZakatCalculation) CompletionPercentage() decimal.Decimal {
	if !c.ZakatDue.IsPositive() {
		return decimal.NewFromInt(100)
	}
	pct := c.ZakatPaid.Div(c.ZakatDue).Mul(decimal.NewFromInt(100))
	return decimal.Min(decimal.NewFromInt(100), pct).Round(2)
}

// PaymentType classifies a charitable payment.
type PaymentType string

const (
	PaymentZakat   PaymentType = "zakat"
	PaymentSadaqah PaymentType = "sadaqah"
	PaymentFitrah  PaymentType = "fitrah"
)

// IsValidPaymentType reports whether t is zakat, sadaqah or fitrah.
func IsValidPaymentType(t PaymentType) bool {
	switch t {
	case PaymentZakat, PaymentSadaqah, PaymentFitrah:
		return true
	}
	return false
}

// ZakatPayment is an immutable payment recorded against a calculation.
type ZakatPayment struct {
	PaymentID     string          `json:"payment_id"`
	CalculationID string          `json:"calculation_id"`
	FamilyID      string          `json:"family_id"`
	RecipientID   *string         `json:"recipient_id,omitempty"`
	RecipientName string          `json:"recipient_name"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaymentType   PaymentType     `json:"payment_type"`
	Notes         string          `json:"notes"`
	AuditFields
}

// Validate checks amount, type and recipient identification.
func (p ZakatPayment) Validate(today time.Time) error {
	if p.Amount.LessThan(MinimumAmount) {
		return fmt.Errorf("%w: amount must be at least %s", apperrors.ErrValidation, MinimumAmount.StringFixed(2))
	}
	if !IsValidPaymentType(p.PaymentType) {
		return fmt.Errorf("%w: unknown payment_type %q", apperrors.ErrValidation, p.PaymentType)
	}
	if (p.RecipientID == nil || *p.RecipientID == "") && p.RecipientName == "" {
		return fmt.Errorf("%w: recipient_name is required when recipient_id is not given", apperrors.ErrValidation)
	}
	if p.PaymentDate.IsZero() {
		return fmt.Errorf("%w: payment_date is required", apperrors.ErrValidation)
	}
	if p.PaymentDate.After(today) {
		return fmt.Errorf("%w: payment_date cannot be in the future", apperrors.ErrValidation)
	}
	return nil
}

// RecipientCategory is one of the eight zakat eligible groups.
type RecipientCategory string

const (
	RecipientFuqara       RecipientCategory = "fuqara"
	RecipientMasakin      RecipientCategory = "masakin"
	RecipientAmilin       RecipientCategory = "amilin"
	RecipientMuallaf      RecipientCategory = "muallaf"
	RecipientRiqab        RecipientCategory = "riqab"
	RecipientGharimin     RecipientCategory = "gharimin"
	RecipientFisabilillah RecipientCategory = "fisabilillah"
	RecipientIbnusSabil   RecipientCategory = "ibnus_sabil"
)

// IsValidRecipientCategory reports whether c is one of the eight categories.
func IsValidRecipientCategory(c RecipientCategory) bool {
	switch c {
	case RecipientFuqara, RecipientMasakin, RecipientAmilin, RecipientMuallaf,
		RecipientRiqab, RecipientGharimin, RecipientFisabilillah, RecipientIbnusSabil:
		return true
	}
	return false
}

// ZakatRecipient is a person or organisation a family pays zakat to.
type ZakatRecipient struct {
	RecipientID   string            `json:"recipient_id"`
	FamilyID      string            `json:"family_id"`
	Name          string            `json:"name"`
	Category      RecipientCategory `json:"category"`
	Phone         string            `json:"phone"`
	Address       string            `json:"address"`
	Notes         string            `json:"notes"`
	IsActive      bool              `json:"is_active"`
	TotalReceived decimal.Decimal   `json:"total_received"`
	AuditFields
}

// ZakatHistoryEntry summarises one year of zakat for a family.
type ZakatHistoryEntry struct {
	HijriYear       int             `json:"hijri_year"`
	ZakatDue        decimal.Decimal `json:"zakat_due"`
	ZakatPaid       decimal.Decimal `json:"zakat_paid"`
	ZakatRemaining  decimal.Decimal `json:"zakat_remaining"`
	CalculationDate time.Time       `json:"calculation_date"`
	PaymentsCount   int             `json:"payments_count"`
	IsFullyPaid     bool            `json:"is_fully_paid"`
}

// MetalRates are per gram prices of gold and silver in one currency.
type MetalRates struct {
	Currency string          `json:"currency"`
	Gold     decimal.Decimal `json:"gold"`
	Silver   decimal.Decimal `json:"silver"`
}

// PricePerGram returns the rate for the nisab metal.
func (r MetalRates) PricePerGram(t NisabType) decimal.Decimal {
	if t == NisabGold {
		return r.Gold
	}
	return r.Silver
}
