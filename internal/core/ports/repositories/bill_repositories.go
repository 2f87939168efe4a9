package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BillReader defines read operations for bills. Soft deleted bills are never returned.
type BillReader interface {
	FindBillByID(ctx context.Context, billID string) (*domain.Bill, error)

	// ListBills returns the bills of a family ordered by due date.
	ListBills(ctx context.Context, familyID string, filter domain.BillFilter) ([]domain.Bill, error)

	// ListUnpaidBillsDueBetween returns unpaid bills of a family due between from and to inclusive.
	ListUnpaidBillsDueBetween(ctx context.Context, familyID string, from, to time.Time) ([]domain.Bill, error)

	// ListUnpaidBillsDueBefore returns unpaid bills of a family due strictly before date.
	ListUnpaidBillsDueBefore(ctx context.Context, familyID string, date time.Time) ([]domain.Bill, error)

	// ListRecentPaidAmounts returns up to limit amounts of paid bills sharing name, newest first.
	ListRecentPaidAmounts(ctx context.Context, familyID, name string, limit int) ([]decimal.Decimal, error)

	// ListPendingBillsDueBefore returns pending bills of every family due strictly before date.
	ListPendingBillsDueBefore(ctx context.Context, date time.Time) ([]domain.Bill, error)

	// ListPendingBillsDueBetween returns pending bills of every family due between from and to inclusive.
	ListPendingBillsDueBetween(ctx context.Context, from, to time.Time) ([]domain.Bill, error)
}

// BillWriter defines write operations for bills
type BillWriter interface {
	SaveBill(ctx context.Context, bill domain.Bill) error
	UpdateBill(ctx context.Context, bill domain.Bill) error
	SoftDeleteBill(ctx context.Context, billID, userID string, now time.Time) error

	// MarkBillOverdue flips a pending bill to overdue. It reports false when the
	// bill was no longer pending.
	MarkBillOverdue(ctx context.Context, billID string, now time.Time) (bool, error)

	// ClaimBillReminder records that a reminder for the bill went out on day. It
	// reports false when one was already recorded for that day.
	ClaimBillReminder(ctx context.Context, billID string, day time.Time) (bool, error)
}

// BillTxSupport defines the writes of paying a bill, run in one database transaction.
type BillTxSupport interface {
	// FindBillByIDForUpdate locks the bill row.
	FindBillByIDForUpdate(ctx context.Context, tx pgx.Tx, billID string) (*domain.Bill, error)

	// MarkBillPaidInTx writes the payment columns of bill.
	MarkBillPaidInTx(ctx context.Context, tx pgx.Tx, bill domain.Bill) error

	// SaveBillInTx inserts a bill. A second successor of the same bill returns apperrors.ErrDuplicate.
	SaveBillInTx(ctx context.Context, tx pgx.Tx, bill domain.Bill) error
}

// BillRepositoryFacade combines all bill-related repository interfaces
type BillRepositoryFacade interface {
	BillReader
	BillWriter
	BillTxSupport
}

// BillRepositoryWithTx extends BillRepositoryFacade with transaction capabilities
type BillRepositoryWithTx interface {
	BillRepositoryFacade
	TransactionManager
}
