package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	familyRepo  portsrepo.FamilyReader
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, familyRepo portsrepo.FamilyReader, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBase(options),
		accountRepo: accountRepo,
		familyRepo:  familyRepo,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, familyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	if !domain.IsValidAccountType(req.AccountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", apperrors.ErrValidation)
	}
	if !req.InitialBalance.Equal(req.InitialBalance.Round(2)) {
		return nil, fmt.Errorf("%w: initial balance must have at most 2 decimal places", apperrors.ErrValidation)
	}

	currency := strings.ToUpper(req.CurrencyCode)
	if currency == "" {
		currency = domain.DefaultCurrency
		if family, err := s.familyRepo.FindFamilyByID(ctx, familyID); err == nil {
			currency = family.CurrencyCode
		}
	}
	if !domain.IsSupportedCurrency(currency) {
		return nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, currency)
	}

	includeInZakat := true
	if req.IncludeInZakat != nil {
		includeInZakat = *req.IncludeInZakat
	}

	account := domain.Account{
		AccountID:      uuid.NewString(),
		FamilyID:       familyID,
		Name:           req.Name,
		AccountType:    req.AccountType,
		CurrencyCode:   currency,
		Balance:        req.InitialBalance,
		InitialBalance: req.InitialBalance,
		IsActive:       true,
		IncludeInZakat: includeInZakat,
		Description:    req.Description,
		AuditFields:    auditFields(userID, s.Now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("family_id", familyID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("family_id", familyID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, familyID string, accountID string, userID string) (*domain.Account, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	return s.findFamilyAccount(ctx, familyID, accountID)
}

// findFamilyAccount loads an account and hides accounts of other families.
func (s *accountService) findFamilyAccount(ctx context.Context, familyID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.FamilyID != familyID {
		s.LogDebug(ctx, "Account requested through another family",
			slog.String("account_id", accountID),
			slog.String("family_id", familyID))
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, familyID string, includeInactive bool, userID string) ([]domain.Account, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, familyID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("family_id", familyID))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount updates descriptive fields only.
func (s *accountService) UpdateAccount(ctx context.Context, familyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	account, err := s.findFamilyAccount(ctx, familyID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && *req.Name != account.Name {
		account.Name = *req.Name
		updated = true
	}
	if req.AccountType != nil && *req.AccountType != account.AccountType {
		if !domain.IsValidAccountType(*req.AccountType) {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		account.AccountType = *req.AccountType
		updated = true
	}
	if req.Description != nil && *req.Description != account.Description {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil && *req.IsActive != account.IsActive {
		account.IsActive = *req.IsActive
		updated = true
	}
	if req.IncludeInZakat != nil && *req.IncludeInZakat != account.IncludeInZakat {
		account.IncludeInZakat = *req.IncludeInZakat
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, familyID string, accountID string, userID string) error {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return err
	}
	if _, err := s.findFamilyAccount(ctx, familyID, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.SoftDeleteAccount(ctx, accountID, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("family_id", familyID))
	return nil
}
