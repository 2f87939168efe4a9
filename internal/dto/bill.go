package dto

import (
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBillRequest defines data for registering a bill. is_recurring defaults to true
// and reminder_days to 3.
type CreateBillRequest struct {
	CategoryID    string               `json:"category_id" binding:"required"`
	AccountID     *string              `json:"account_id"`
	Name          string               `json:"name" binding:"required,max=255"`
	Type          domain.BillType      `json:"type" binding:"required,oneof=electricity gas water internet mobile rent school_fees other"`
	Amount        decimal.Decimal      `json:"amount" binding:"money"`
	AverageAmount *decimal.Decimal     `json:"average_amount" binding:"omitempty,money"`
	DueDate       string               `json:"due_date" binding:"required,datetime=2006-01-02"`
	Frequency     domain.BillFrequency `json:"frequency" binding:"required,oneof=monthly quarterly yearly"`
	IsRecurring   *bool                `json:"is_recurring"`
	AutoPay       bool                 `json:"auto_pay"`
	Provider      string               `json:"provider" binding:"max=255"`
	AccountNumber string               `json:"account_number" binding:"max=100"`
	SplitMembers  []string             `json:"split_members" binding:"omitempty,dive,required"`
	ReminderDays  *int                 `json:"reminder_days" binding:"omitempty,min=1,max=30"`
}

// UpdateBillRequest defines the bill fields that may change.
type UpdateBillRequest struct {
	CategoryID    *string               `json:"category_id"`
	AccountID     *string               `json:"account_id"`
	Name          *string               `json:"name" binding:"omitempty,max=255"`
	Type          *domain.BillType      `json:"type" binding:"omitempty,oneof=electricity gas water internet mobile rent school_fees other"`
	Amount        *decimal.Decimal      `json:"amount" binding:"omitempty,money"`
	AverageAmount *decimal.Decimal      `json:"average_amount" binding:"omitempty,money"`
	DueDate       *string               `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Frequency     *domain.BillFrequency `json:"frequency" binding:"omitempty,oneof=monthly quarterly yearly"`
	IsRecurring   *bool                 `json:"is_recurring"`
	AutoPay       *bool                 `json:"auto_pay"`
	Provider      *string               `json:"provider" binding:"omitempty,max=255"`
	AccountNumber *string               `json:"account_number" binding:"omitempty,max=100"`
	SplitMembers  *[]string             `json:"split_members" binding:"omitempty,dive,required"`
	ReminderDays  *int                  `json:"reminder_days" binding:"omitempty,min=1,max=30"`
}

// ListBillsParams filters bills by status and type.
type ListBillsParams struct {
	Status string `form:"status" binding:"omitempty,oneof=pending paid overdue"`
	Type   string `form:"type" binding:"omitempty,oneof=electricity gas water internet mobile rent school_fees other"`
}

// Filter converts the query parameters to a domain filter.
func (p ListBillsParams) Filter() domain.BillFilter {
	var f domain.BillFilter
	if p.Status != "" {
		st := domain.BillStatus(p.Status)
		f.Status = &st
	}
	if p.Type != "" {
		bt := domain.BillType(p.Type)
		f.Type = &bt
	}
	return f
}

// UpcomingBillsParams sets the look-ahead of the upcoming bills view.
type UpcomingBillsParams struct {
	Days int `form:"days" binding:"omitempty,min=1,max=90"`
}

// MarkBillPaidRequest records a bill payment. paid_date defaults to today.
type MarkBillPaidRequest struct {
	PaidDate      *string `json:"paid_date" binding:"omitempty,datetime=2006-01-02"`
	TransactionID *string `json:"transaction_id"`
}

// BillResponse defines the data returned for a bill.
type BillResponse struct {
	BillID            string               `json:"bill_id"`
	CategoryID        string               `json:"category_id"`
	AccountID         *string              `json:"account_id,omitempty"`
	Name              string               `json:"name"`
	Type              domain.BillType      `json:"type"`
	Amount            decimal.Decimal      `json:"amount"`
	AverageAmount     *decimal.Decimal     `json:"average_amount,omitempty"`
	DueDate           string               `json:"due_date"`
	Frequency         domain.BillFrequency `json:"frequency"`
	IsRecurring       bool                 `json:"is_recurring"`
	AutoPay           bool                 `json:"auto_pay"`
	Provider          string               `json:"provider"`
	AccountNumber     string               `json:"account_number"`
	SplitMembers      []string             `json:"split_members"`
	SplitAmounts      []decimal.Decimal    `json:"split_amounts"`
	ReminderDays      int                  `json:"reminder_days"`
	Status            domain.BillStatus    `json:"status"`
	LastPaidDate      *string              `json:"last_paid_date,omitempty"`
	PaidTransactionID *string              `json:"paid_transaction_id,omitempty"`
	PreviousBillID    *string              `json:"previous_bill_id,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

// ToBillResponse converts a bill to DTO.
func ToBillResponse(b *domain.Bill) BillResponse {
	members := b.SplitMembers
	if members == nil {
		members = []string{}
	}
	return BillResponse{
		BillID:            b.BillID,
		CategoryID:        b.CategoryID,
		AccountID:         b.AccountID,
		Name:              b.Name,
		Type:              b.Type,
		Amount:            b.Amount,
		AverageAmount:     b.AverageAmount,
		DueDate:           FormatDate(b.DueDate),
		Frequency:         b.Frequency,
		IsRecurring:       b.IsRecurring,
		AutoPay:           b.AutoPay,
		Provider:          b.Provider,
		AccountNumber:     b.AccountNumber,
		SplitMembers:      members,
		SplitAmounts:      b.SplitAmounts(),
		ReminderDays:      b.ReminderDays,
		Status:            b.Status,
		LastPaidDate:      formatOptionalDate(b.LastPaidDate),
		PaidTransactionID: b.PaidTransactionID,
		PreviousBillID:    b.PreviousBillID,
		CreatedAt:         b.CreatedAt,
	}
}

// ListBillsResponse wraps bills.
type ListBillsResponse struct {
	Bills []BillResponse `json:"bills"`
}

// ToListBillsResponse converts bills to DTO.
func ToListBillsResponse(bs []domain.Bill) ListBillsResponse {
	resp := ListBillsResponse{Bills: make([]BillResponse, len(bs))}
	for i := range bs {
		resp.Bills[i] = ToBillResponse(&bs[i])
	}
	return resp
}

// DueBillResponse is a bill with its distance to the due date. days_until_due is
// negative for bills past due.
type DueBillResponse struct {
	BillResponse
	DaysUntilDue int `json:"days_until_due"`
}

// ListDueBillsResponse wraps bills of the upcoming and overdue views.
type ListDueBillsResponse struct {
	Bills []DueBillResponse `json:"bills"`
}

// ToListDueBillsResponse converts bills to DTO relative to today.
func ToListDueBillsResponse(bs []domain.Bill, today time.Time) ListDueBillsResponse {
	resp := ListDueBillsResponse{Bills: make([]DueBillResponse, len(bs))}
	for i := range bs {
		resp.Bills[i] = DueBillResponse{
			BillResponse: ToBillResponse(&bs[i]),
			DaysUntilDue: bs[i].DaysUntilDue(today),
		}
	}
	return resp
}

// BillPaymentResponse is a paid bill and the next bill it created, if any.
type BillPaymentResponse struct {
	Bill     BillResponse  `json:"bill"`
	NextBill *BillResponse `json:"next_bill,omitempty"`
}

// ToBillPaymentResponse converts a payment to DTO.
func ToBillPaymentResponse(p *domain.BillPayment) BillPaymentResponse {
	resp := BillPaymentResponse{Bill: ToBillResponse(&p.Bill)}
	if p.NextBill != nil {
		next := ToBillResponse(p.NextBill)
		resp.NextBill = &next
	}
	return resp
}
