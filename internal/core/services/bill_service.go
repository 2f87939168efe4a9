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
	"github.com/shopspring/decimal"
)

// reminderLookahead bounds the due dates scanned for reminders. It matches the
// largest reminder_days a bill may carry.
const reminderLookahead = 30

type billService struct {
	BaseService
	billRepo     portsrepo.BillRepositoryWithTx
	categoryRepo portsrepo.CategoryRepositoryFacade
	accountRepo  portsrepo.AccountReader
	txnReader    portsrepo.TransactionReader
}

// NewBillService creates the bill service. Split members are checked through the
// family authorizer.
func NewBillService(
	billRepo portsrepo.BillRepositoryWithTx,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	txnReader portsrepo.TransactionReader,
	options ...ServiceOption,
) portssvc.BillSvcFacade {
	return &billService{
		BaseService:  newBase(options),
		billRepo:     billRepo,
		categoryRepo: categoryRepo,
		accountRepo:  accountRepo,
		txnReader:    txnReader,
	}
}

var _ portssvc.BillSvcFacade = (*billService)(nil)

func (s *billService) CreateBill(ctx context.Context, familyID string, req dto.CreateBillRequest, userID string) (*domain.Bill, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	due, err := dto.ParseDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.Amount.LessThan(domain.MinimumAmount) {
		return nil, fmt.Errorf("%w: amount must be at least %s", apperrors.ErrValidation, utils.FormatAmount(domain.MinimumAmount))
	}
	if err := s.checkCategory(ctx, familyID, req.CategoryID); err != nil {
		return nil, err
	}
	if req.AccountID != nil {
		if _, err := familyAccount(ctx, s.accountRepo, familyID, *req.AccountID); err != nil {
			return nil, err
		}
	}
	if err := s.checkSplitMembers(ctx, familyID, req.SplitMembers); err != nil {
		return nil, err
	}

	recurring := true
	if req.IsRecurring != nil {
		recurring = *req.IsRecurring
	}
	reminderDays := domain.DefaultReminderDays
	if req.ReminderDays != nil {
		reminderDays = *req.ReminderDays
	}
	bill := domain.Bill{
		BillID:        uuid.NewString(),
		FamilyID:      familyID,
		CategoryID:    req.CategoryID,
		AccountID:     req.AccountID,
		Name:          req.Name,
		Type:          req.Type,
		Amount:        req.Amount,
		AverageAmount: req.AverageAmount,
		DueDate:       due,
		Frequency:     req.Frequency,
		IsRecurring:   recurring,
		AutoPay:       req.AutoPay,
		Provider:      req.Provider,
		AccountNumber: req.AccountNumber,
		SplitMembers:  req.SplitMembers,
		ReminderDays:  reminderDays,
		Status:        domain.BillPending,
		AuditFields:   auditFields(userID, s.Now()),
	}
	if err := s.billRepo.SaveBill(ctx, bill); err != nil {
		s.LogError(ctx, err, "Failed to save bill", slog.String("family_id", familyID))
		return nil, err
	}
	s.LogInfo(ctx, "Bill created", slog.String("bill_id", bill.BillID), slog.String("family_id", familyID))
	return &bill, nil
}

func (s *billService) GetBill(ctx context.Context, familyID, billID, userID string) (*domain.Bill, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	return s.findFamilyBill(ctx, familyID, billID)
}

func (s *billService) ListBills(ctx context.Context, familyID string, filter domain.BillFilter, userID string) ([]domain.Bill, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	bills, err := s.billRepo.ListBills(ctx, familyID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bills", slog.String("family_id", familyID))
		return nil, err
	}
	return bills, nil
}

// UpdateBill edits an unpaid bill. Paid bills are history and reject changes.
func (s *billService) UpdateBill(ctx context.Context, familyID, billID string, req dto.UpdateBillRequest, userID string) (*domain.Bill, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	bill, err := s.findFamilyBill(ctx, familyID, billID)
	if err != nil {
		return nil, err
	}
	if !bill.IsUnpaid() {
		return nil, fmt.Errorf("%w: bill %s is already paid", apperrors.ErrConflict, billID)
	}

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, familyID, *req.CategoryID); err != nil {
			return nil, err
		}
		bill.CategoryID = *req.CategoryID
	}
	if req.AccountID != nil {
		if *req.AccountID == "" {
			bill.AccountID = nil
		} else {
			if _, err := familyAccount(ctx, s.accountRepo, familyID, *req.AccountID); err != nil {
				return nil, err
			}
			bill.AccountID = req.AccountID
		}
	}
	if req.Name != nil {
		bill.Name = *req.Name
	}
	if req.Type != nil {
		bill.Type = *req.Type
	}
	if req.Amount != nil {
		if req.Amount.LessThan(domain.MinimumAmount) {
			return nil, fmt.Errorf("%w: amount must be at least %s", apperrors.ErrValidation, utils.FormatAmount(domain.MinimumAmount))
		}
		bill.Amount = *req.Amount
	}
	if req.AverageAmount != nil {
		bill.AverageAmount = req.AverageAmount
	}
	if req.DueDate != nil {
		due, err := dto.ParseDate("due_date", *req.DueDate)
		if err != nil {
			return nil, err
		}
		bill.DueDate = due
	}
	if req.Frequency != nil {
		bill.Frequency = *req.Frequency
	}
	if req.IsRecurring != nil {
		bill.IsRecurring = *req.IsRecurring
	}
	if req.AutoPay != nil {
		bill.AutoPay = *req.AutoPay
	}
	if req.Provider != nil {
		bill.Provider = *req.Provider
	}
	if req.AccountNumber != nil {
		bill.AccountNumber = *req.AccountNumber
	}
	if req.SplitMembers != nil {
		if err := s.checkSplitMembers(ctx, familyID, *req.SplitMembers); err != nil {
			return nil, err
		}
		bill.SplitMembers = *req.SplitMembers
	}
	if req.ReminderDays != nil {
		bill.ReminderDays = *req.ReminderDays
	}
	// A due date moved forward takes an overdue bill back to pending.
	if bill.Status == domain.BillOverdue && !bill.DueDate.Before(s.Today()) {
		bill.Status = domain.BillPending
	}
	bill.LastUpdatedAt = s.Now()
	bill.LastUpdatedBy = userID

	if err := s.billRepo.UpdateBill(ctx, *bill); err != nil {
		s.LogError(ctx, err, "Failed to update bill", slog.String("bill_id", billID))
		return nil, err
	}
	return bill, nil
}

func (s *billService) DeleteBill(ctx context.Context, familyID, billID, userID string) error {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return err
	}
	if _, err := s.findFamilyBill(ctx, familyID, billID); err != nil {
		return err
	}
	if err := s.billRepo.SoftDeleteBill(ctx, billID, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete bill", slog.String("bill_id", billID))
		return err
	}
	return nil
}

// MarkBillPaid locks the bill so two concurrent payments cannot both create the
// next period's bill.
func (s *billService) MarkBillPaid(ctx context.Context, familyID, billID string, req dto.MarkBillPaidRequest, userID string) (*domain.BillPayment, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	today := s.Today()
	paidOn := today
	if req.PaidDate != nil {
		d, err := dto.ParseDate("paid_date", *req.PaidDate)
		if err != nil {
			return nil, err
		}
		if d.After(today) {
			return nil, fmt.Errorf("%w: paid_date must not be in the future", apperrors.ErrValidation)
		}
		paidOn = d
	}
	if req.TransactionID != nil {
		if err := s.checkPaymentTransaction(ctx, familyID, *req.TransactionID); err != nil {
			return nil, err
		}
	}

	var payment domain.BillPayment
	err := runInTx(ctx, s.billRepo, func(tx pgx.Tx) error {
		bill, err := s.billRepo.FindBillByIDForUpdate(ctx, tx, billID)
		if err != nil {
			return err
		}
		if bill.FamilyID != familyID {
			return fmt.Errorf("%w: bill %s", apperrors.ErrNotFound, billID)
		}
		if !bill.IsUnpaid() {
			return fmt.Errorf("%w: bill %s is already paid", apperrors.ErrConflict, billID)
		}

		now := s.Now()
		bill.MarkPaid(paidOn, req.TransactionID, userID, now)
		if err := s.billRepo.MarkBillPaidInTx(ctx, tx, *bill); err != nil {
			return err
		}
		payment.Bill = *bill

		if !bill.IsRecurring {
			return nil
		}
		due, ok := bill.NextDueDate()
		if !ok {
			return fmt.Errorf("%w: unknown bill frequency %q", apperrors.ErrValidation, bill.Frequency)
		}
		next := bill.NextBill(uuid.NewString(), due, now, userID)
		if err := s.billRepo.SaveBillInTx(ctx, tx, next); err != nil {
			return err
		}
		payment.NextBill = &next
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			s.LogError(ctx, err, "Failed to mark bill paid", slog.String("bill_id", billID))
		}
		return nil, err
	}

	s.Metrics.RecordBillPaid()
	payload := map[string]any{
		"bill_id":   payment.Bill.BillID,
		"bill_name": payment.Bill.Name,
		"amount":    utils.FormatAmount(payment.Bill.Amount),
		"paid_date": dto.FormatDate(paidOn),
	}
	if payment.NextBill != nil {
		payload["next_bill_id"] = payment.NextBill.BillID
		payload["next_due_date"] = dto.FormatDate(payment.NextBill.DueDate)
	}
	s.publish(ctx, domain.EventBillPaid, familyID, userID, payload)
	s.LogInfo(ctx, "Bill paid", slog.String("bill_id", billID), slog.String("family_id", familyID))
	return &payment, nil
}

func (s *billService) GetUpcomingBills(ctx context.Context, familyID string, days int, userID string) ([]domain.Bill, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = domain.DefaultUpcomingDays
	}
	today := s.Today()
	bills, err := s.billRepo.ListUnpaidBillsDueBetween(ctx, familyID, today, today.AddDate(0, 0, days))
	if err != nil {
		s.LogError(ctx, err, "Failed to list upcoming bills", slog.String("family_id", familyID))
		return nil, err
	}
	return bills, nil
}

func (s *billService) GetOverdueBills(ctx context.Context, familyID, userID string) ([]domain.Bill, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	bills, err := s.billRepo.ListUnpaidBillsDueBefore(ctx, familyID, s.Today())
	if err != nil {
		s.LogError(ctx, err, "Failed to list overdue bills", slog.String("family_id", familyID))
		return nil, err
	}
	return bills, nil
}

func (s *billService) GetBillStatistics(ctx context.Context, familyID, userID string) (*domain.BillStatistics, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	bills, err := s.billRepo.ListBills(ctx, familyID, domain.BillFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list bills for statistics", slog.String("family_id", familyID))
		return nil, err
	}
	stats := domain.NewBillStatistics(bills, s.Today())
	return &stats, nil
}

func (s *billService) EstimateNextBill(ctx context.Context, familyID, billID, userID string) (*domain.BillEstimate, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	bill, err := s.findFamilyBill(ctx, familyID, billID)
	if err != nil {
		return nil, err
	}
	var recent []decimal.Decimal
	if bill.AverageAmount == nil {
		recent, err = s.billRepo.ListRecentPaidAmounts(ctx, familyID, bill.Name, domain.EstimateRecentPaidLimit)
		if err != nil {
			s.LogError(ctx, err, "Failed to load paid bill amounts", slog.String("bill_id", billID))
			return nil, err
		}
	}
	estimate := domain.EstimateBill(*bill, recent)
	return &estimate, nil
}

func (s *billService) CheckOverdueBills(ctx context.Context) (int, error) {
	today := s.Today()
	bills, err := s.billRepo.ListPendingBillsDueBefore(ctx, today)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bills past due")
		return 0, err
	}
	flipped := 0
	for _, b := range bills {
		changed, err := s.billRepo.MarkBillOverdue(ctx, b.BillID, s.Now())
		if err != nil {
			s.LogError(ctx, err, "Failed to mark bill overdue", slog.String("bill_id", b.BillID))
			continue
		}
		if !changed {
			continue
		}
		s.publish(ctx, domain.EventBillOverdue, b.FamilyID, "", map[string]any{
			"bill_id":      b.BillID,
			"bill_name":    b.Name,
			"amount":       utils.FormatAmount(b.Amount),
			"due_date":     dto.FormatDate(b.DueDate),
			"days_overdue": -b.DaysUntilDue(today),
		})
		flipped++
	}
	s.LogInfo(ctx, "Overdue bills checked", slog.Int("scanned", len(bills)), slog.Int("marked_overdue", flipped))
	return flipped, nil
}

func (s *billService) SendBillReminders(ctx context.Context) (int, error) {
	today := s.Today()
	bills, err := s.billRepo.ListPendingBillsDueBetween(ctx, today.AddDate(0, 0, 1), today.AddDate(0, 0, reminderLookahead))
	if err != nil {
		s.LogError(ctx, err, "Failed to list bills for reminders")
		return 0, err
	}
	sent := 0
	for _, b := range bills {
		if !b.ShouldRemind(today) {
			continue
		}
		claimed, err := s.billRepo.ClaimBillReminder(ctx, b.BillID, today)
		if err != nil {
			s.LogError(ctx, err, "Failed to record bill reminder", slog.String("bill_id", b.BillID))
			continue
		}
		if !claimed {
			continue
		}
		s.publish(ctx, domain.EventBillDueReminder, b.FamilyID, "", map[string]any{
			"bill_id":        b.BillID,
			"bill_name":      b.Name,
			"amount":         utils.FormatAmount(b.Amount),
			"due_date":       dto.FormatDate(b.DueDate),
			"days_until_due": b.DaysUntilDue(today),
		})
		sent++
	}
	s.LogInfo(ctx, "Bill reminders sent", slog.Int("count", sent))
	return sent, nil
}

func (s *billService) findFamilyBill(ctx context.Context, familyID, billID string) (*domain.Bill, error) {
	bill, err := s.billRepo.FindBillByID(ctx, billID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find bill", slog.String("bill_id", billID))
		}
		return nil, err
	}
	if bill.FamilyID != familyID {
		return nil, fmt.Errorf("%w: bill %s", apperrors.ErrNotFound, billID)
	}
	return bill, nil
}

func (s *billService) checkCategory(ctx context.Context, familyID, categoryID string) error {
	category, err := findFamilyCategory(ctx, s.categoryRepo, familyID, categoryID)
	if err != nil {
		return err
	}
	if category.Type != domain.TransactionTypeExpense {
		return fmt.Errorf("%w: bills must use an expense category", apperrors.ErrValidation)
	}
	return nil
}

// checkSplitMembers requires every member to be distinct and an active member of the family.
func (s *billService) checkSplitMembers(ctx context.Context, familyID string, members []string) error {
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m]; dup {
			return fmt.Errorf("%w: split member %s is listed twice", apperrors.ErrValidation, m)
		}
		seen[m] = struct{}{}
		if _, err := s.FamilyAuthorizer.AuthorizeMember(ctx, m, familyID, domain.PermissionView); err != nil {
			return fmt.Errorf("%w: split member %s is not a member of the family", apperrors.ErrValidation, m)
		}
	}
	return nil
}

// checkPaymentTransaction requires the linked transaction to be an expense of the family.
func (s *billService) checkPaymentTransaction(ctx context.Context, familyID, transactionID string) error {
	txn, err := s.txnReader.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.FamilyID != familyID {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	if txn.Type != domain.TransactionTypeExpense {
		return fmt.Errorf("%w: a bill can only be paid by an expense transaction", apperrors.ErrValidation)
	}
	return nil
}

// familyAccount loads an account and hides accounts of other families.
func familyAccount(ctx context.Context, repo portsrepo.AccountReader, familyID, accountID string) (*domain.Account, error) {
	account, err := repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.FamilyID != familyID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return account, nil
}
