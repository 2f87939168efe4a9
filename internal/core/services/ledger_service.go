package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	"github.com/SscSPs/hifzmaal_backend/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// runInTx runs fn inside a database transaction and commits when it returns nil.
func runInTx(ctx context.Context, tm portsrepo.TransactionManager, fn func(tx pgx.Tx) error) error {
	tx, err := tm.Begin(ctx)
	if err != nil {
		return err
	}
	defer tm.Rollback(ctx, tx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tm.Commit(ctx, tx)
}

// ledgerPoster moves account balances for ledger transactions. Every method must run
// inside the database transaction that also writes the transaction row.
type ledgerPoster struct {
	accountRepo portsrepo.AccountTransactionSupport
}

// lockAccounts locks every account touched by txns in ascending id order. Accounts of
// another family are reported as not found.
func (l ledgerPoster) lockAccounts(ctx context.Context, tx pgx.Tx, familyID string, txns ...domain.Transaction) (map[string]domain.Account, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0, 2*len(txns))
	for _, t := range txns {
		for _, id := range t.AccountIDs() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)

	accounts, err := l.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	for id, acc := range accounts {
		if acc.FamilyID != familyID {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// effect returns the combined balance changes of reverting before and applying after.
// Either side may be nil.
func effect(before, after *domain.Transaction) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal)
	if before != nil && before.IsApproved() {
		reverted, err := accounting.BalanceChanges(*before, accounting.Revert)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidTransaction, err)
		}
		accounting.MergeChanges(changes, reverted)
	}
	if after != nil && after.IsApproved() {
		applied, err := accounting.BalanceChanges(*after, accounting.Apply)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidTransaction, err)
		}
		accounting.MergeChanges(changes, applied)
	}
	return changes, nil
}

// checkFunds refuses an expense larger than its account balance. The balance is taken
// after the old version of the transaction has been reverted.
func checkFunds(txn domain.Transaction, accounts map[string]domain.Account, before *domain.Transaction) error {
	if txn.Type != domain.TransactionTypeExpense {
		return nil
	}
	acc, ok := accounts[txn.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, txn.AccountID)
	}
	available := acc.Balance
	if before != nil {
		reverted, err := effect(before, nil)
		if err != nil {
			return err
		}
		available = available.Add(reverted[txn.AccountID])
	}
	if available.LessThan(txn.Amount) {
		return apperrors.NewInsufficientBalanceError(acc.AccountID, available, txn.Amount)
	}
	return nil
}

// requireMutable refuses inactive or deleted accounts.
func requireMutable(accounts map[string]domain.Account, ids []string) error {
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !acc.CanMutate() {
			return fmt.Errorf("%w: account %s is inactive or deleted", apperrors.ErrValidation, id)
		}
	}
	return nil
}

// post writes the balance changes. Accounts that actually move must be mutable.
func (l ledgerPoster) post(ctx context.Context, tx pgx.Tx, accounts map[string]domain.Account, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(changes) == 0 {
		return nil
	}
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	if err := requireMutable(accounts, ids); err != nil {
		return err
	}
	return l.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now)
}
