package services

import (
	"context"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account of the family. Accounts of other families are not found.
	GetAccountByID(ctx context.Context, familyID string, accountID string, userID string) (*domain.Account, error)

	// ListAccounts retrieves the accounts of a family.
	ListAccounts(ctx context.Context, familyID string, includeInactive bool, userID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account with balance equal to its initial balance.
	CreateAccount(ctx context.Context, familyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates descriptive fields. The balance cannot be changed here.
	UpdateAccount(ctx context.Context, familyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount soft deletes an account.
	DeleteAccount(ctx context.Context, familyID string, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

// CategorySvc manages the categories of a family.
type CategorySvc interface {
	CreateCategory(ctx context.Context, familyID string, req dto.CreateCategoryRequest, userID string) (*domain.Category, error)
	ListCategories(ctx context.Context, familyID string, txType *domain.TransactionType, userID string) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, familyID, categoryID, userID string) error
}
