package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultReminderDays is how many days before the due date a bill reminder starts.
const DefaultReminderDays = 3

// DefaultUpcomingDays is the look-ahead of the upcoming bills view.
const DefaultUpcomingDays = 7

// BillType classifies a household bill.
type BillType string

const (
	BillElectricity BillType = "electricity"
	BillGas         BillType = "gas"
	BillWater       BillType = "water"
	BillInternet    BillType = "internet"
	BillMobile      BillType = "mobile"
	BillRent        BillType = "rent"
	BillSchoolFees  BillType = "school_fees"
	BillOther       BillType = "other"
)

// BillFrequency is the cadence of a recurring bill.
type BillFrequency string

const (
	BillMonthly   BillFrequency = "monthly"
	BillQuarterly BillFrequency = "quarterly"
	BillYearly    BillFrequency = "yearly"
)

// BillStatus is the payment state of a bill.
type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPaid    BillStatus = "paid"
	BillOverdue BillStatus = "overdue"
)

// Bill is a payable owed by the family on a due date. Paying a recurring bill
// creates the next one.
type Bill struct {
	BillID            string           `json:"bill_id"`
	FamilyID          string           `json:"family_id"`
	CategoryID        string           `json:"category_id"`
	AccountID         *string          `json:"account_id,omitempty"`
	Name              string           `json:"name"`
	Type              BillType         `json:"type"`
	Amount            decimal.Decimal  `json:"amount"`
	AverageAmount     *decimal.Decimal `json:"average_amount,omitempty"`
	DueDate           time.Time        `json:"due_date"`
	Frequency         BillFrequency    `json:"frequency"`
	IsRecurring       bool             `json:"is_recurring"`
	AutoPay           bool             `json:"auto_pay"`
	Provider          string           `json:"provider"`
	AccountNumber     string           `json:"account_number"`
	SplitMembers      []string         `json:"split_members"`
	ReminderDays      int              `json:"reminder_days"`
	Status            BillStatus       `json:"status"`
	LastPaidDate      *time.Time       `json:"last_paid_date,omitempty"`
	PaidTransactionID *string          `json:"paid_transaction_id,omitempty"`
	PreviousBillID    *string          `json:"previous_bill_id,omitempty"`
	LastRemindedOn    *time.Time       `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"-"`
}

// IsUnpaid reports whether the bill is still owed.
func (b Bill) IsUnpaid() bool {
	return b.Status == BillPending || b.Status == BillOverdue
}

// IsPastDue reports whether an unpaid bill's due date is before today.
func (b Bill) IsPastDue(today time.Time) bool {
	return b.IsUnpaid() && b.DueDate.Before(today)
}

// DaysUntilDue is negative once the due date has passed.
func (b Bill) DaysUntilDue(today time.Time) int {
	return int(b.DueDate.Sub(today).Hours() / 24)
}

// ShouldRemind reports whether today falls inside the reminder window of a pending bill.
func (b Bill) ShouldRemind(today time.Time) bool {
	if b.Status != BillPending || !today.Before(b.DueDate) {
		return false
	}
	return !today.Before(b.DueDate.AddDate(0, 0, -b.ReminderDays))
}

// MarkPaid records payment on paidOn, optionally linked to the ledger transaction that paid it.
func (b *Bill) MarkPaid(paidOn time.Time, transactionID *string, userID string, now time.Time) {
	b.Status = BillPaid
	b.LastPaidDate = &paidOn
	b.PaidTransactionID = transactionID
	b.LastUpdatedAt = now
	b.LastUpdatedBy = userID
}

// NextDueDate adds one billing period to the due date. ok is false for unknown frequencies.
func (b Bill) NextDueDate() (next time.Time, ok bool) {
	switch b.Frequency {
	case BillMonthly:
		return b.DueDate.AddDate(0, 1, 0), true
	case BillQuarterly:
		return b.DueDate.AddDate(0, 3, 0), true
	case BillYearly:
		return b.DueDate.AddDate(1, 0, 0), true
	}
	return time.Time{}, false
}

// NextBill clones a paid recurring bill into the pending bill of the next period.
func (b Bill) NextBill(id string, dueDate, now time.Time, userID string) Bill {
	previous := b.BillID
	return Bill{
		BillID:         id,
		FamilyID:       b.FamilyID,
		CategoryID:     b.CategoryID,
		AccountID:      b.AccountID,
		Name:           b.Name,
		Type:           b.Type,
		Amount:         b.Amount,
		AverageAmount:  b.AverageAmount,
		DueDate:        dueDate,
		Frequency:      b.Frequency,
		IsRecurring:    b.IsRecurring,
		AutoPay:        b.AutoPay,
		Provider:       b.Provider,
		AccountNumber:  b.AccountNumber,
		SplitMembers:   append([]string(nil), b.SplitMembers...),
		ReminderDays:   b.ReminderDays,
		Status:         BillPending,
		PreviousBillID: &previous,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

// SplitAmounts divides the amount between the payer and every split member. The
// shares add up to the amount exactly; leftover cents go to the first shares.
func (b Bill) SplitAmounts() []decimal.Decimal {
	parts := int64(len(b.SplitMembers) + 1)
	cents := b.Amount.Shift(2).Round(0).IntPart()
	base, rest := cents/parts, cents%parts
	out := make([]decimal.Decimal, parts)
	for i := range out {
		share := base
		if int64(i) < rest {
			share++
		}
		out[i] = decimal.New(share, -2)
	}
	return out
}

// Estimate bases of a BillEstimate.
const (
	EstimateFromAverage     = "average_amount"
	EstimateFromRecentPaid  = "recent_payments"
	EstimateFromBillAmount  = "amount"
	EstimateRecentPaidLimit = 3
)

// BillEstimate is the predicted amount of the next bill.
type BillEstimate struct {
	BillID     string          `json:"bill_id"`
	Amount     decimal.Decimal `json:"estimated_amount"`
	Basis      string          `json:"basis"`
	SampleSize int             `json:"sample_size"`
}

// EstimateBill predicts the next amount of a bill: its configured average, else
// the mean of recently paid amounts, else its own amount.
func EstimateBill(b Bill, recentPaid []decimal.Decimal) BillEstimate {
	if b.AverageAmount != nil {
		return BillEstimate{BillID: b.BillID, Amount: *b.AverageAmount, Basis: EstimateFromAverage}
	}
	if len(recentPaid) == 0 {
		return BillEstimate{BillID: b.BillID, Amount: b.Amount, Basis: EstimateFromBillAmount}
	}
	mean := decimal.Sum(recentPaid[0], recentPaid[1:]...).
		Div(decimal.NewFromInt(int64(len(recentPaid)))).Round(2)
	return BillEstimate{BillID: b.BillID, Amount: mean, Basis: EstimateFromRecentPaid, SampleSize: len(recentPaid)}
}

// BillPayment is a paid bill and, for recurring bills, the bill of the next period.
type BillPayment struct {
	Bill     Bill  `json:"bill"`
	NextBill *Bill `json:"next_bill,omitempty"`
}

// BillFilter narrows a bill listing.
type BillFilter struct {
	Status *BillStatus
	Type   *BillType
}

// BillStatistics summarizes the bills of a family.
type BillStatistics struct {
	TotalBills        int             `json:"total_bills"`
	PendingBills      int             `json:"pending_bills"`
	OverdueBills      int             `json:"overdue_bills"`
	PaidThisMonth     int             `json:"paid_this_month"`
	TotalDueAmount    decimal.Decimal `json:"total_due_amount"`
	AverageBillAmount decimal.Decimal `json:"average_bill_amount"`
}

// NewBillStatistics aggregates bills as of today.
func NewBillStatistics(bills []Bill, today time.Time) BillStatistics {
	stats := BillStatistics{TotalBills: len(bills)}
	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(b.Amount)
		switch {
		case b.IsPastDue(today):
			stats.OverdueBills++
			stats.TotalDueAmount = stats.TotalDueAmount.Add(b.Amount)
		case b.IsUnpaid():
			stats.PendingBills++
			stats.TotalDueAmount = stats.TotalDueAmount.Add(b.Amount)
		}
		if b.Status == BillPaid && b.LastPaidDate != nil &&
			b.LastPaidDate.Year() == today.Year() && b.LastPaidDate.Month() == today.Month() {
			stats.PaidThisMonth++
		}
	}
	if len(bills) > 0 {
		stats.AverageBillAmount = total.Div(decimal.NewFromInt(int64(len(bills)))).Round(2)
	}
	return stats
}
