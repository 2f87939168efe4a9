package services

import (
	"context"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for ledger transactions
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, familyID, transactionID, userID string) (*domain.Transaction, error)
	// ListTransactions returns a page of transactions and the token of the next page.
	ListTransactions(ctx context.Context, familyID string, filter domain.TransactionFilter, limit int, nextToken string, userID string) ([]domain.Transaction, string, error)
	ListPendingTransactions(ctx context.Context, familyID, userID string) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines the ledger mutations. Each call is atomic: the transaction
// row and every balance it affects commit together or not at all.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, familyID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, familyID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, familyID, transactionID, userID string) error
}

// TransactionApprovalSvc defines the approval workflow.
type TransactionApprovalSvc interface {
	// ApproveTransaction applies the balance effect of a pending transaction.
	// Approving an approved transaction changes nothing.
	ApproveTransaction(ctx context.Context, familyID, transactionID, userID string) (*domain.Transaction, error)

	// RejectTransaction marks a pending transaction rejected. Rejection is terminal.
	RejectTransaction(ctx context.Context, familyID, transactionID, userID string) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransactionApprovalSvc
}

// RecurringRunResult summarises one pass of the recurring expander.
type RecurringRunResult struct {
	Scanned   int
	Generated int
	Skipped   int
	Failed    int
}

// RecurringSvc expands recurring templates into dated occurrences.
type RecurringSvc interface {
	// ProcessRecurringTransactions generates the next due occurrence of every recurring root.
	// Running it twice for the same due date generates nothing the second time.
	ProcessRecurringTransactions(ctx context.Context) (RecurringRunResult, error)
}
