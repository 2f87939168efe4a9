package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/SscSPs/hifzmaal_backend/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const pendingPageSize = 200

// transactionService implements the ledger engine: every mutation writes the transaction
// row and the balances it affects in one database transaction.
type transactionService struct {
	BaseService
	ledgerPoster
	txnRepo      portsrepo.TransactionRepositoryWithTx
	categoryRepo portsrepo.CategoryRepositoryFacade
	budgetAlerts portssvc.BudgetAlertSvc
}

// NewTransactionService creates the ledger engine.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryWithTx,
	accountRepo portsrepo.AccountTransactionSupport,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	budgetAlerts portssvc.BudgetAlertSvc,
	options ...ServiceOption,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService:  newBase(options),
		ledgerPoster: ledgerPoster{accountRepo: accountRepo},
		txnRepo:      txnRepo,
		categoryRepo: categoryRepo,
		budgetAlerts: budgetAlerts,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, familyID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	member, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit)
	if err != nil {
		return nil, err
	}

	txnDate, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	endDate, err := dto.ParseOptionalDate("recurring_end_date", req.RecurringEndDate)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	txn := domain.Transaction{
		TransactionID:       uuid.NewString(),
		FamilyID:            familyID,
		AccountID:           req.AccountID,
		CategoryID:          req.CategoryID,
		Type:                req.Type,
		Amount:              req.Amount,
		Date:                txnDate,
		Description:         req.Description,
		Notes:               req.Notes,
		TransferToAccountID: req.TransferToAccountID,
		IsRecurring:         req.IsRecurring,
		AuditFields:         auditFields(userID, now),
	}
	if txn.TransferToAccountID != nil && *txn.TransferToAccountID == "" {
		txn.TransferToAccountID = nil
	}
	if req.IsRecurring {
		txn.RecurringFrequency = req.RecurringFrequency
		txn.RecurringEndDate = endDate
	}
	if err := txn.Validate(s.Today()); err != nil {
		return nil, err
	}
	if _, err := findFamilyCategory(ctx, s.categoryRepo, familyID, txn.CategoryID); err != nil {
		return nil, err
	}

	txn.NeedsApproval = member.RequiresApproval(txn.Type, txn.Amount)
	if txn.NeedsApproval {
		txn.Status = domain.StatusPending
	} else {
		txn.Status = domain.StatusApproved
		txn.ApprovedBy = &userID
		txn.ApprovedAt = &now
	}

	err = runInTx(ctx, s.txnRepo, func(tx pgx.Tx) error {
		accounts, err := s.lockAccounts(ctx, tx, familyID, txn)
		if err != nil {
			return err
		}
		if err := requireMutable(accounts, txn.AccountIDs()); err != nil {
			return err
		}
		if err := checkFunds(txn, accounts, nil); err != nil {
			return err
		}
		if err := s.txnRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
			return err
		}
		changes, err := effect(nil, &txn)
		if err != nil {
			return err
		}
		return s.post(ctx, tx, accounts, changes, userID, now)
	})
	if err != nil {
		s.logLedgerFailure(ctx, err, "Failed to create transaction", familyID, txn.TransactionID)
		return nil, err
	}

	s.Metrics.RecordLedgerTransaction(string(txn.Type), string(txn.Status))
	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("family_id", familyID),
		slog.String("status", string(txn.Status)))
	s.publish(ctx, domain.EventTransactionCreated, familyID, userID, transactionPayload(txn))
	s.afterApprovedExpense(ctx, txn)
	return &txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, familyID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}

	var updated domain.Transaction
	err := runInTx(ctx, s.txnRepo, func(tx pgx.Tx) error {
		old, err := s.lockFamilyTransaction(ctx, tx, familyID, transactionID)
		if err != nil {
			return err
		}
		if old.Status == domain.StatusRejected {
			return fmt.Errorf("%w: rejected transactions cannot be changed", apperrors.ErrInvalidTransaction)
		}

		updated, err = s.applyUpdate(ctx, *old, req)
		if err != nil {
			return err
		}
		now := s.Now()
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = userID

		accounts, err := s.lockAccounts(ctx, tx, familyID, *old, updated)
		if err != nil {
			return err
		}
		if err := requireMutable(accounts, updated.AccountIDs()); err != nil {
			return err
		}
		if err := checkFunds(updated, accounts, old); err != nil {
			return err
		}
		if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, updated); err != nil {
			return err
		}
		changes, err := effect(old, &updated)
		if err != nil {
			return err
		}
		return s.post(ctx, tx, accounts, changes, userID, now)
	})
	if err != nil {
		s.logLedgerFailure(ctx, err, "Failed to update transaction", familyID, transactionID)
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated",
		slog.String("transaction_id", transactionID),
		slog.String("family_id", familyID))
	s.afterApprovedExpense(ctx, updated)
	return &updated, nil
}

// applyUpdate copies the provided fields of req onto txn and validates the result.
func (s *transactionService) applyUpdate(ctx context.Context, txn domain.Transaction, req dto.UpdateTransactionRequest) (domain.Transaction, error) {
	if req.AccountID != nil {
		txn.AccountID = *req.AccountID
	}
	if req.CategoryID != nil && *req.CategoryID != txn.CategoryID {
		if _, err := findFamilyCategory(ctx, s.categoryRepo, txn.FamilyID, *req.CategoryID); err != nil {
			return txn, err
		}
		txn.CategoryID = *req.CategoryID
	}
	if req.Type != nil {
		txn.Type = *req.Type
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.Date != nil {
		d, err := dto.ParseDate("date", *req.Date)
		if err != nil {
			return txn, err
		}
		txn.Date = d
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Notes != nil {
		txn.Notes = *req.Notes
	}
	if req.TransferToAccountID != nil {
		if *req.TransferToAccountID == "" {
			txn.TransferToAccountID = nil
		} else {
			dest := *req.TransferToAccountID
			txn.TransferToAccountID = &dest
		}
	}
	if txn.Type != domain.TransactionTypeTransfer && req.Type != nil && req.TransferToAccountID == nil {
		txn.TransferToAccountID = nil
	}
	return txn, txn.Validate(s.Today())
}

func (s *transactionService) DeleteTransaction(ctx context.Context, familyID, transactionID, userID string) error {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return err
	}

	err := runInTx(ctx, s.txnRepo, func(tx pgx.Tx) error {
		txn, err := s.lockFamilyTransaction(ctx, tx, familyID, transactionID)
		if err != nil {
			return err
		}
		now := s.Now()
		if txn.IsApproved() {
			accounts, err := s.lockAccounts(ctx, tx, familyID, *txn)
			if err != nil {
				return err
			}
			changes, err := effect(txn, nil)
			if err != nil {
				return err
			}
			if err := s.post(ctx, tx, accounts, changes, userID, now); err != nil {
				return err
			}
		}
		return s.txnRepo.SoftDeleteTransactionInTx(ctx, tx, transactionID, userID, now)
	})
	if err != nil {
		s.logLedgerFailure(ctx, err, "Failed to delete transaction", familyID, transactionID)
		return err
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("family_id", familyID))
	return nil
}

// ApproveTransaction applies a pending transaction. Approving twice applies the effect once.
func (s *transactionService) ApproveTransaction(ctx context.Context, familyID, transactionID, userID string) (*domain.Transaction, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionApprove); err != nil {
		return nil, err
	}

	var txn *domain.Transaction
	alreadyApproved := false
	err := runInTx(ctx, s.txnRepo, func(tx pgx.Tx) error {
		var err error
		txn, err = s.lockFamilyTransaction(ctx, tx, familyID, transactionID)
		if err != nil {
			return err
		}
		switch txn.Status {
		case domain.StatusApproved:
			alreadyApproved = true
			return nil
		case domain.StatusRejected:
			return fmt.Errorf("%w: rejected transactions cannot be approved", apperrors.ErrInvalidTransaction)
		}

		accounts, err := s.lockAccounts(ctx, tx, familyID, *txn)
		if err != nil {
			return err
		}
		if err := checkFunds(*txn, accounts, nil); err != nil {
			return err
		}

		now := s.Now()
		txn.Status = domain.StatusApproved
		txn.ApprovedBy = &userID
		txn.ApprovedAt = &now
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = userID
		if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, *txn); err != nil {
			return err
		}
		changes, err := effect(nil, txn)
		if err != nil {
			return err
		}
		return s.post(ctx, tx, accounts, changes, userID, now)
	})
	if err != nil {
		s.logLedgerFailure(ctx, err, "Failed to approve transaction", familyID, transactionID)
		return nil, err
	}
	if alreadyApproved {
		s.LogDebug(ctx, "Transaction already approved", slog.String("transaction_id", transactionID))
		return txn, nil
	}

	s.Metrics.RecordLedgerTransaction(string(txn.Type), string(txn.Status))
	s.LogInfo(ctx, "Transaction approved",
		slog.String("transaction_id", transactionID),
		slog.String("approved_by", userID))
	s.publish(ctx, domain.EventTransactionApproved, familyID, userID, transactionPayload(*txn))
	s.afterApprovedExpense(ctx, *txn)
	return txn, nil
}

// RejectTransaction marks a pending transaction rejected without touching balances.
func (s *transactionService) RejectTransaction(ctx context.Context, familyID, transactionID, userID string) (*domain.Transaction, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionApprove); err != nil {
		return nil, err
	}

	var txn *domain.Transaction
	changed := false
	err := runInTx(ctx, s.txnRepo, func(tx pgx.Tx) error {
		var err error
		txn, err = s.lockFamilyTransaction(ctx, tx, familyID, transactionID)
		if err != nil {
			return err
		}
		switch txn.Status {
		case domain.StatusRejected:
			return nil
		case domain.StatusApproved:
			return fmt.Errorf("%w: approved transactions cannot be rejected", apperrors.ErrInvalidTransaction)
		}
		now := s.Now()
		txn.Status = domain.StatusRejected
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = userID
		changed = true
		return s.txnRepo.UpdateTransactionInTx(ctx, tx, *txn)
	})
	if err != nil {
		s.logLedgerFailure(ctx, err, "Failed to reject transaction", familyID, transactionID)
		return nil, err
	}
	if changed {
		s.Metrics.RecordLedgerTransaction(string(txn.Type), string(txn.Status))
		s.LogInfo(ctx, "Transaction rejected",
			slog.String("transaction_id", transactionID),
			slog.String("rejected_by", userID))
		s.publish(ctx, domain.EventTransactionRejected, familyID, userID, transactionPayload(*txn))
	}
	return txn, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, familyID, transactionID, userID string) (*domain.Transaction, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	if txn.FamilyID != familyID {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, familyID string, filter domain.TransactionFilter, limit int, nextToken string, userID string) ([]domain.Transaction, string, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, "", err
	}
	txns, next, err := s.txnRepo.ListTransactions(ctx, familyID, filter, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("family_id", familyID))
		return nil, "", err
	}
	return txns, next, nil
}

// ListPendingTransactions returns every transaction waiting for approval.
func (s *transactionService) ListPendingTransactions(ctx context.Context, familyID, userID string) ([]domain.Transaction, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	pending := domain.StatusPending
	filter := domain.TransactionFilter{Status: &pending}

	all := []domain.Transaction{}
	token := ""
	for {
		page, next, err := s.txnRepo.ListTransactions(ctx, familyID, filter, pendingPageSize, token)
		if err != nil {
			s.LogError(ctx, err, "Failed to list pending transactions", slog.String("family_id", familyID))
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		token = next
	}
}

// lockFamilyTransaction locks the transaction row and hides rows of other families.
func (s *transactionService) lockFamilyTransaction(ctx context.Context, tx pgx.Tx, familyID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.FamilyID != familyID {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return txn, nil
}

// afterApprovedExpense runs the budget alert check once an expense affects balances.
func (s *transactionService) afterApprovedExpense(ctx context.Context, txn domain.Transaction) {
	if s.budgetAlerts == nil || !txn.IsApproved() || txn.Type != domain.TransactionTypeExpense {
		return
	}
	s.budgetAlerts.CheckBudgetAlert(ctx, txn)
}

func (s *transactionService) logLedgerFailure(ctx context.Context, err error, msg, familyID, transactionID string) {
	if errors.Is(err, apperrors.ErrInsufficientBalance) {
		s.Metrics.RecordInsufficientBalance()
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindInternal:
		s.LogError(ctx, err, msg,
			slog.String("family_id", familyID),
			slog.String("transaction_id", transactionID))
	default:
		s.LogDebug(ctx, msg,
			slog.String("family_id", familyID),
			slog.String("transaction_id", transactionID),
			slog.String("reason", err.Error()))
	}
}

func transactionPayload(txn domain.Transaction) map[string]any {
	payload := map[string]any{
		"transaction_id": txn.TransactionID,
		"account_id":     txn.AccountID,
		"category_id":    txn.CategoryID,
		"type":           string(txn.Type),
		"amount":         utils.FormatAmount(txn.Amount),
		"date":           dto.FormatDate(txn.Date),
		"status":         string(txn.Status),
		"created_by":     txn.CreatedBy,
	}
	if txn.TransferToAccountID != nil {
		payload["transfer_to_account_id"] = *txn.TransferToAccountID
	}
	return payload
}
