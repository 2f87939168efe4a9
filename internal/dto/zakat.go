package dto

import (
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateZakatRequest carries the declared asset snapshot for a Hijri year.
// Omitted amounts default to zero.
type CalculateZakatRequest struct {
	HijriYear         int              `json:"hijri_year" binding:"omitempty,min=1400,max=1500"`
	CashInHand        decimal.Decimal  `json:"cash_in_hand"`
	CashInBank        decimal.Decimal  `json:"cash_in_bank"`
	GoldValue         decimal.Decimal  `json:"gold_value"`
	SilverValue       decimal.Decimal  `json:"silver_value"`
	BusinessInventory decimal.Decimal  `json:"business_inventory"`
	Investments       decimal.Decimal  `json:"investments"`
	LoansReceivable   decimal.Decimal  `json:"loans_receivable"`
	OtherAssets       decimal.Decimal  `json:"other_assets"`
	Debts             decimal.Decimal  `json:"debts"`
	NisabType         domain.NisabType `json:"nisab_type" binding:"omitempty,oneof=gold silver"`
	Notes             string           `json:"notes"`
}

// Snapshot returns the asset fields as a domain snapshot.
func (r CalculateZakatRequest) Snapshot() domain.AssetSnapshot {
	return domain.AssetSnapshot{
		CashInHand:        r.CashInHand,
		CashInBank:        r.CashInBank,
		GoldValue:         r.GoldValue,
		SilverValue:       r.SilverValue,
		BusinessInventory: r.BusinessInventory,
		Investments:       r.Investments,
		LoansReceivable:   r.LoansReceivable,
		OtherAssets:       r.OtherAssets,
		Debts:             r.Debts,
	}
}

// AutoCalculateZakatRequest selects the Hijri year for an account based calculation.
type AutoCalculateZakatRequest struct {
	HijriYear int `json:"hijri_year" binding:"omitempty,min=1400,max=1500"`
}

// ZakatCalculationResponse defines the data returned for a calculation.
type ZakatCalculationResponse struct {
	CalculationID        string               `json:"calculation_id"`
	FamilyID             string               `json:"family_id"`
	HijriYear            int                  `json:"hijri_year"`
	CalculationDate      string               `json:"calculation_date"`
	Assets               domain.AssetSnapshot `json:"assets"`
	TotalAssets          decimal.Decimal      `json:"total_assets"`
	NisabAmount          decimal.Decimal      `json:"nisab_amount"`
	NisabType            domain.NisabType     `json:"nisab_type"`
	ZakatableAmount      decimal.Decimal      `json:"zakatable_amount"`
	ZakatDue             decimal.Decimal      `json:"zakat_due"`
	ZakatPaid            decimal.Decimal      `json:"zakat_paid"`
	ZakatRemaining       decimal.Decimal      `json:"zakat_remaining"`
	IsZakatDue           bool                 `json:"is_zakat_due"`
	IsFullyPaid          bool                 `json:"is_fully_paid"`
	CompletionPercentage decimal.Decimal      `json:"completion_percentage"`
	Notes                string               `json:"notes"`
	LastUpdatedAt        time.Time            `json:"last_updated_at"`
}

// ToZakatCalculationResponse converts a calculation to DTO.
func ToZakatCalculationResponse(c *domain.ZakatCalculation) ZakatCalculationResponse {
	return ZakatCalculationResponse{
		CalculationID:        c.CalculationID,
		FamilyID:             c.FamilyID,
		HijriYear:            c.HijriYear,
		CalculationDate:      FormatDate(c.CalculationDate),
		Assets:               c.Assets,
		TotalAssets:          c.TotalAssets,
		NisabAmount:          c.NisabAmount,
		NisabType:            c.NisabType,
		ZakatableAmount:      c.ZakatableAmount,
		ZakatDue:             c.ZakatDue,
		ZakatPaid:            c.ZakatPaid,
		ZakatRemaining:       c.ZakatRemaining,
		IsZakatDue:           c.IsZakatDue(),
		IsFullyPaid:          c.IsFullyPaid(),
		CompletionPercentage: c.CompletionPercentage(),
		Notes:                c.Notes,
		LastUpdatedAt:        c.LastUpdatedAt,
	}
}

// ZakatHistoryResponse wraps the per year history.
type ZakatHistoryResponse struct {
	CurrentHijriYear int                        `json:"current_hijri_year"`
	History          []domain.ZakatHistoryEntry `json:"history"`
}

// NisabResponse is the nisab threshold for a metal and currency.
type NisabResponse struct {
	NisabType    domain.NisabType `json:"nisab_type"`
	CurrencyCode string           `json:"currency"`
	Grams        decimal.Decimal  `json:"grams"`
	NisabAmount  decimal.Decimal  `json:"nisab_amount"`
}

// NisabParams defines query parameters for the nisab lookup.
type NisabParams struct {
	NisabType    string `form:"type,default=silver" binding:"oneof=gold silver"`
	CurrencyCode string `form:"currency"`
}

// RecordZakatPaymentRequest defines a payment against a calculation.
type RecordZakatPaymentRequest struct {
	Amount        decimal.Decimal    `json:"amount" binding:"money"`
	PaymentType   domain.PaymentType `json:"payment_type" binding:"required,oneof=zakat sadaqah fitrah"`
	RecipientID   *string            `json:"recipient_id"`
	RecipientName string             `json:"recipient_name" binding:"max=255"`
	PaymentDate   string             `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	Notes         string             `json:"notes"`
}

// ZakatPaymentResponse defines the data returned for a payment.
type ZakatPaymentResponse struct {
	PaymentID     string             `json:"payment_id"`
	CalculationID string             `json:"calculation_id"`
	RecipientID   *string            `json:"recipient_id,omitempty"`
	RecipientName string             `json:"recipient_name"`
	Amount        decimal.Decimal    `json:"amount"`
	PaymentDate   string             `json:"payment_date"`
	PaymentType   domain.PaymentType `json:"payment_type"`
	Notes         string             `json:"notes"`
	CreatedAt     time.Time          `json:"created_at"`
	CreatedBy     string             `json:"created_by"`
}

// ToZakatPaymentResponse converts a payment to DTO.
func ToZakatPaymentResponse(p *domain.ZakatPayment) ZakatPaymentResponse {
	return ZakatPaymentResponse{
		PaymentID:     p.PaymentID,
		CalculationID: p.CalculationID,
		RecipientID:   p.RecipientID,
		RecipientName: p.RecipientName,
		Amount:        p.Amount,
		PaymentDate:   FormatDate(p.PaymentDate),
		PaymentType:   p.PaymentType,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
	}
}

// RecordZakatPaymentResponse returns the payment and the updated calculation.
type RecordZakatPaymentResponse struct {
	Payment     ZakatPaymentResponse     `json:"payment"`
	Calculation ZakatCalculationResponse `json:"calculation"`
}

// ListZakatPaymentsResponse wraps the payments of a calculation.
type ListZakatPaymentsResponse struct {
	Payments []ZakatPaymentResponse `json:"payments"`
}

// ToListZakatPaymentsResponse converts payments to DTO.
func ToListZakatPaymentsResponse(ps []domain.ZakatPayment) ListZakatPaymentsResponse {
	resp := ListZakatPaymentsResponse{Payments: make([]ZakatPaymentResponse, len(ps))}
	for i := range ps {
		resp.Payments[i] = ToZakatPaymentResponse(&ps[i])
	}
	return resp
}
