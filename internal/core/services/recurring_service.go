package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type recurringOutcome int

const (
	occurrenceGenerated recurringOutcome = iota
	occurrenceSkipped
)

type recurringService struct {
	BaseService
	ledgerPoster
	txnRepo      portsrepo.TransactionRepositoryWithTx
	budgetAlerts portssvc.BudgetAlertSvc
}

// NewRecurringService creates the recurring expander.
func NewRecurringService(
	txnRepo portsrepo.TransactionRepositoryWithTx,
	accountRepo portsrepo.AccountTransactionSupport,
	budgetAlerts portssvc.BudgetAlertSvc,
	options ...ServiceOption,
) portssvc.RecurringSvc {
	return &recurringService{
		BaseService:  newBase(options),
		ledgerPoster: ledgerPoster{accountRepo: accountRepo},
		txnRepo:      txnRepo,
		budgetAlerts: budgetAlerts,
	}
}

var _ portssvc.RecurringSvc = (*recurringService)(nil)

// ProcessRecurringTransactions generates at most one occurrence per root per run. A root
// that fails is counted and the scan moves on.
func (s *recurringService) ProcessRecurringTransactions(ctx context.Context) (portssvc.RecurringRunResult, error) {
	var result portssvc.RecurringRunResult

	roots, err := s.txnRepo.ListRecurringRoots(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring transactions")
		return result, err
	}

	today := s.Today()
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		child, outcome, err := s.expand(ctx, root, today)
		switch {
		case err != nil:
			result.Failed++
			if errors.Is(err, apperrors.ErrInsufficientBalance) {
				s.Metrics.RecordInsufficientBalance()
			}
			s.LogError(ctx, err, "Failed to expand recurring transaction",
				slog.String("transaction_id", root.TransactionID),
				slog.String("family_id", root.FamilyID))
		case outcome == occurrenceSkipped:
			result.Skipped++
		default:
			result.Generated++
			s.Metrics.RecordLedgerTransaction(string(child.Type), string(child.Status))
			s.publish(ctx, domain.EventTransactionCreated, child.FamilyID, child.CreatedBy, transactionPayload(*child))
			if s.budgetAlerts != nil && child.Type == domain.TransactionTypeExpense {
				s.budgetAlerts.CheckBudgetAlert(ctx, *child)
			}
		}
	}

	s.Metrics.RecordRecurringRun(result.Generated, result.Failed)
	s.LogInfo(ctx, "Recurring transactions processed",
		slog.Int("scanned", result.Scanned),
		slog.Int("generated", result.Generated),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed))
	return result, nil
}

// expand writes the next due occurrence of root together with its balance effect.
func (s *recurringService) expand(ctx context.Context, root domain.Transaction, today time.Time) (*domain.Transaction, recurringOutcome, error) {
	if root.RecurringFrequency == nil || !domain.IsValidFrequency(*root.RecurringFrequency) {
		s.LogDebug(ctx, "Skipping recurring transaction with unknown frequency",
			slog.String("transaction_id", root.TransactionID))
		return nil, occurrenceSkipped, nil
	}

	var child domain.Transaction
	outcome := occurrenceSkipped
	err := runInTx(ctx, s.txnRepo, func(tx pgx.Tx) error {
		base := root.Date
		latest, err := s.txnRepo.LatestOccurrenceDate(ctx, tx, root.TransactionID)
		if err != nil {
			return err
		}
		if latest != nil {
			base = *latest
		}

		next, _ := domain.NextOccurrence(base, *root.RecurringFrequency)
		if root.RecurringEndDate != nil && next.After(*root.RecurringEndDate) {
			return nil
		}
		if next.After(today) {
			return nil
		}
		exists, err := s.txnRepo.OccurrenceExists(ctx, tx, root.TransactionID, next)
		if err != nil || exists {
			return err
		}

		now := s.Now()
		child = root.NewOccurrence(uuid.NewString(), next, now)
		accounts, err := s.lockAccounts(ctx, tx, root.FamilyID, child)
		if err != nil {
			return err
		}
		if err := checkFunds(child, accounts, nil); err != nil {
			return err
		}
		if err := s.txnRepo.SaveTransactionInTx(ctx, tx, child); err != nil {
			return err
		}
		changes, err := effect(nil, &child)
		if err != nil {
			return err
		}
		if err := s.post(ctx, tx, accounts, changes, root.CreatedBy, now); err != nil {
			return err
		}
		outcome = occurrenceGenerated
		return nil
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		s.LogDebug(ctx, "Recurring occurrence already generated",
			slog.String("transaction_id", root.TransactionID))
		return nil, occurrenceSkipped, nil
	}
	if err != nil {
		return nil, occurrenceSkipped, err
	}
	if outcome == occurrenceSkipped {
		return nil, occurrenceSkipped, nil
	}
	return &child, occurrenceGenerated, nil
}
