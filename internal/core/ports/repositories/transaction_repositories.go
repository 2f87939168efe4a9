package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction. Soft deleted rows are reported as not found.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a page of transactions ordered by date then created_at, newest first.
	// An empty nextToken starts from the newest row.
	ListTransactions(ctx context.Context, familyID string, filter domain.TransactionFilter, limit int, nextToken string) ([]domain.Transaction, string, error)

	// SumApprovedExpenses totals approved expenses of a category between start and end inclusive.
	SumApprovedExpenses(ctx context.Context, familyID, categoryID string, start, end time.Time) (decimal.Decimal, error)

	// ListRecurringRoots returns approved, non deleted recurring templates across all families.
	ListRecurringRoots(ctx context.Context) ([]domain.Transaction, error)
}

// TransactionTxSupport defines ledger writes that run inside a database transaction
// together with the account balance updates they cause.
type TransactionTxSupport interface {
	// FindTransactionByIDForUpdate locks the transaction row.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error)

	// SaveTransactionInTx inserts a transaction. A second occurrence of the same recurring
	// root on the same date violates a unique index and returns apperrors.ErrDuplicate.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// UpdateTransactionInTx rewrites the mutable columns of a transaction.
	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// SoftDeleteTransactionInTx sets deleted_at.
	SoftDeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string, userID string, now time.Time) error

	// LatestOccurrenceDate returns the date of the newest child of a recurring root, or nil.
	LatestOccurrenceDate(ctx context.Context, tx pgx.Tx, parentID string) (*time.Time, error)

	// OccurrenceExists reports whether a child of parentID is already dated on date.
	OccurrenceExists(ctx context.Context, tx pgx.Tx, parentID string, date time.Time) (bool, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionTxSupport
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
