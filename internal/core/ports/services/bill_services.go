package services

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
)

// BillSvc manages the bills of a family.
type BillSvc interface {
	CreateBill(ctx context.Context, familyID string, req dto.CreateBillRequest, userID string) (*domain.Bill, error)
	GetBill(ctx context.Context, familyID, billID, userID string) (*domain.Bill, error)
	ListBills(ctx context.Context, familyID string, filter domain.BillFilter, userID string) ([]domain.Bill, error)
	UpdateBill(ctx context.Context, familyID, billID string, req dto.UpdateBillRequest, userID string) (*domain.Bill, error)
	DeleteBill(ctx context.Context, familyID, billID, userID string) error

	// MarkBillPaid pays an unpaid bill and, when it recurs, creates the bill of the next period.
	MarkBillPaid(ctx context.Context, familyID, billID string, req dto.MarkBillPaidRequest, userID string) (*domain.BillPayment, error)

	// GetUpcomingBills returns unpaid bills due within days from today.
	GetUpcomingBills(ctx context.Context, familyID string, days int, userID string) ([]domain.Bill, error)

	// GetOverdueBills returns unpaid bills whose due date has passed.
	GetOverdueBills(ctx context.Context, familyID, userID string) ([]domain.Bill, error)

	GetBillStatistics(ctx context.Context, familyID, userID string) (*domain.BillStatistics, error)
	EstimateNextBill(ctx context.Context, familyID, billID, userID string) (*domain.BillEstimate, error)

	// Today is the date due distances are computed against.
	Today() time.Time
}

// BillSchedulerSvc holds the idempotent bill jobs run by the worker.
type BillSchedulerSvc interface {
	// CheckOverdueBills flips pending bills past their due date to overdue and
	// publishes one event per bill flipped.
	CheckOverdueBills(ctx context.Context) (int, error)

	// SendBillReminders publishes at most one reminder per bill and day for pending
	// bills inside their reminder window.
	SendBillReminders(ctx context.Context) (int, error)
}

// BillSvcFacade combines all bill-related service interfaces
type BillSvcFacade interface {
	BillSvc
	BillSchedulerSvc
}
