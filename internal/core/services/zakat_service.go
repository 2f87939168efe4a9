package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

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

type zakatService struct {
	BaseService
	zakatRepo     portsrepo.ZakatRepositoryWithTx
	accountRepo   portsrepo.AccountReader
	familyRepo    portsrepo.FamilyReader
	recipientRepo portsrepo.RecipientRepositoryFacade
	nisab         portssvc.NisabSvc
}

// NewZakatService creates the zakat calculation engine and payment tracker.
func NewZakatService(
	zakatRepo portsrepo.ZakatRepositoryWithTx,
	accountRepo portsrepo.AccountReader,
	familyRepo portsrepo.FamilyReader,
	recipientRepo portsrepo.RecipientRepositoryFacade,
	nisab portssvc.NisabSvc,
	options ...ServiceOption,
) portssvc.ZakatSvcFacade {
	return &zakatService{
		BaseService:   newBase(options),
		zakatRepo:     zakatRepo,
		accountRepo:   accountRepo,
		familyRepo:    familyRepo,
		recipientRepo: recipientRepo,
		nisab:         nisab,
	}
}

var _ portssvc.ZakatSvcFacade = (*zakatService)(nil)

func (s *zakatService) CurrentHijriYear() int {
	return domain.CurrentHijriYear(s.Now())
}

func (s *zakatService) CalculateZakat(ctx context.Context, familyID string, hijriYear int, snapshot domain.AssetSnapshot, nisabType domain.NisabType, notes string, userID string) (*domain.ZakatCalculation, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	return s.calculate(ctx, familyID, hijriYear, snapshot, nisabType, notes, userID)
}

// AutoCalculateFromAccounts declares cash accounts as cash in hand and bank or savings
// accounts as cash in bank. Other account types are not zakatable here.
func (s *zakatService) AutoCalculateFromAccounts(ctx context.Context, familyID string, hijriYear int, userID string) (*domain.ZakatCalculation, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListZakatableAccounts(ctx, familyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list zakatable accounts", slog.String("family_id", familyID))
		return nil, err
	}

	snapshot := domain.AssetSnapshot{}
	for _, acc := range accounts {
		switch acc.AccountType {
		case domain.AccountTypeCash:
			snapshot.CashInHand = snapshot.CashInHand.Add(acc.Balance)
		case domain.AccountTypeBank, domain.AccountTypeSavings:
			snapshot.CashInBank = snapshot.CashInBank.Add(acc.Balance)
		}
	}
	// Overdrawn accounts do not produce negative assets.
	snapshot.CashInHand = decimal.Max(decimal.Zero, snapshot.CashInHand)
	snapshot.CashInBank = decimal.Max(decimal.Zero, snapshot.CashInBank)

	return s.calculate(ctx, familyID, hijriYear, snapshot, domain.NisabSilver,
		fmt.Sprintf("Auto-calculated from %d accounts", len(accounts)), userID)
}

func (s *zakatService) calculate(ctx context.Context, familyID string, hijriYear int, snapshot domain.AssetSnapshot, nisabType domain.NisabType, notes string, userID string) (*domain.ZakatCalculation, error) {
	if hijriYear == 0 {
		hijriYear = s.CurrentHijriYear()
	}
	if err := domain.ValidateHijriYear(hijriYear); err != nil {
		return nil, err
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	if nisabType == "" {
		nisabType = domain.NisabSilver
	}
	if !domain.IsValidNisabType(nisabType) {
		return nil, fmt.Errorf("%w: unknown nisab_type %q", apperrors.ErrValidation, nisabType)
	}

	family, err := s.familyRepo.FindFamilyByID(ctx, familyID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	calc := domain.ZakatCalculation{
		CalculationID:   uuid.NewString(),
		FamilyID:        familyID,
		HijriYear:       hijriYear,
		CalculationDate: s.Today(),
		Assets:          snapshot,
		NisabType:       nisabType,
		NisabAmount:     s.nisab.GetNisabAmount(ctx, nisabType, family.CurrencyCode).Round(2),
		Notes:           notes,
		AuditFields:     auditFields(userID, now),
	}
	calc.Recalculate()

	saved, err := s.zakatRepo.UpsertCalculation(ctx, calc)
	if err != nil {
		s.LogError(ctx, err, "Failed to save zakat calculation",
			slog.String("family_id", familyID),
			slog.Int("hijri_year", hijriYear))
		return nil, err
	}
	s.LogInfo(ctx, "Zakat calculated",
		slog.String("family_id", familyID),
		slog.Int("hijri_year", hijriYear),
		slog.String("zakat_due", utils.FormatAmount(saved.ZakatDue)))
	return saved, nil
}

func (s *zakatService) GetCalculation(ctx context.Context, familyID, calculationID, userID string) (*domain.ZakatCalculation, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	return s.findFamilyCalculation(ctx, familyID, calculationID)
}

func (s *zakatService) GetCalculationByYear(ctx context.Context, familyID string, hijriYear int, userID string) (*domain.ZakatCalculation, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	if err := domain.ValidateHijriYear(hijriYear); err != nil {
		return nil, err
	}
	return s.zakatRepo.FindCalculationByYear(ctx, familyID, hijriYear)
}

func (s *zakatService) ListCalculations(ctx context.Context, familyID, userID string) ([]domain.ZakatCalculation, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	calcs, err := s.zakatRepo.ListCalculations(ctx, familyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list zakat calculations", slog.String("family_id", familyID))
		return nil, err
	}
	return calcs, nil
}

// GetZakatHistory summarises every calculated year, newest first.
func (s *zakatService) GetZakatHistory(ctx context.Context, familyID, userID string) ([]domain.ZakatHistoryEntry, error) {
	calcs, err := s.ListCalculations(ctx, familyID, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.zakatRepo.CountPaymentsByCalculation(ctx, familyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count zakat payments", slog.String("family_id", familyID))
		return nil, err
	}

	history := make([]domain.ZakatHistoryEntry, 0, len(calcs))
	for _, c := range calcs {
		history = append(history, domain.ZakatHistoryEntry{
			HijriYear:       c.HijriYear,
			ZakatDue:        c.ZakatDue,
			ZakatPaid:       c.ZakatPaid,
			ZakatRemaining:  c.ZakatRemaining,
			CalculationDate: c.CalculationDate,
			PaymentsCount:   counts[c.CalculationID],
			IsFullyPaid:     c.IsFullyPaid(),
		})
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].HijriYear > history[j].HijriYear })
	return history, nil
}

func (s *zakatService) DeleteCalculation(ctx context.Context, familyID, calculationID, userID string) error {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionManage); err != nil {
		return err
	}
	if _, err := s.findFamilyCalculation(ctx, familyID, calculationID); err != nil {
		return err
	}
	counts, err := s.zakatRepo.CountPaymentsByCalculation(ctx, familyID)
	if err != nil {
		return err
	}
	if counts[calculationID] > 0 {
		return fmt.Errorf("%w: calculation %s has recorded payments", apperrors.ErrConflict, calculationID)
	}
	if err := s.zakatRepo.DeleteCalculation(ctx, calculationID); err != nil {
		s.LogError(ctx, err, "Failed to delete zakat calculation", slog.String("calculation_id", calculationID))
		return err
	}
	return nil
}

// RecordPayment inserts the payment, increments zakat_paid and the recipient total in one
// database transaction. The increment is done in SQL so concurrent payments both count.
func (s *zakatService) RecordPayment(ctx context.Context, familyID, calculationID string, req dto.RecordZakatPaymentRequest, userID string) (*domain.ZakatPayment, *domain.ZakatCalculation, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, nil, err
	}
	if _, err := s.findFamilyCalculation(ctx, familyID, calculationID); err != nil {
		return nil, nil, err
	}

	paymentDate := s.Today()
	if req.PaymentDate != "" {
		d, err := dto.ParseDate("payment_date", req.PaymentDate)
		if err != nil {
			return nil, nil, err
		}
		paymentDate = d
	}

	now := s.Now()
	payment := domain.ZakatPayment{
		PaymentID:     uuid.NewString(),
		CalculationID: calculationID,
		FamilyID:      familyID,
		RecipientName: req.RecipientName,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		PaymentType:   req.PaymentType,
		Notes:         req.Notes,
		AuditFields:   auditFields(userID, now),
	}
	if req.RecipientID != nil && *req.RecipientID != "" {
		recipient, err := s.findFamilyRecipient(ctx, familyID, *req.RecipientID)
		if err != nil {
			return nil, nil, err
		}
		payment.RecipientID = &recipient.RecipientID
		if payment.RecipientName == "" {
			payment.RecipientName = recipient.Name
		}
	}
	if err := payment.Validate(s.Today()); err != nil {
		return nil, nil, err
	}

	var calc *domain.ZakatCalculation
	err := runInTx(ctx, s.zakatRepo, func(tx pgx.Tx) error {
		var err error
		calc, err = s.zakatRepo.IncrementZakatPaidInTx(ctx, tx, calculationID, payment.Amount, userID, now)
		if err != nil {
			return err
		}
		if err := s.zakatRepo.SavePaymentInTx(ctx, tx, payment); err != nil {
			return err
		}
		if payment.RecipientID != nil {
			return s.recipientRepo.IncrementTotalReceivedInTx(ctx, tx, *payment.RecipientID, payment.Amount, now)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record zakat payment",
			slog.String("calculation_id", calculationID),
			slog.String("family_id", familyID))
		return nil, nil, err
	}

	s.Metrics.RecordZakatPayment(string(payment.PaymentType))
	s.LogInfo(ctx, "Zakat payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("calculation_id", calculationID),
		slog.String("amount", utils.FormatAmount(payment.Amount)))
	s.publish(ctx, domain.EventZakatPaymentRecorded, familyID, userID, map[string]any{
		"payment_id":      payment.PaymentID,
		"calculation_id":  calculationID,
		"hijri_year":      calc.HijriYear,
		"amount":          utils.FormatAmount(payment.Amount),
		"payment_type":    string(payment.PaymentType),
		"recipient_name":  payment.RecipientName,
		"zakat_paid":      utils.FormatAmount(calc.ZakatPaid),
		"zakat_remaining": utils.FormatAmount(calc.ZakatRemaining),
	})
	return &payment, calc, nil
}

func (s *zakatService) ListPayments(ctx context.Context, familyID, calculationID, userID string) ([]domain.ZakatPayment, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	if _, err := s.findFamilyCalculation(ctx, familyID, calculationID); err != nil {
		return nil, err
	}
	payments, err := s.zakatRepo.ListPayments(ctx, calculationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list zakat payments", slog.String("calculation_id", calculationID))
		return nil, err
	}
	return payments, nil
}

func (s *zakatService) SendZakatReminders(ctx context.Context) (int, error) {
	year := s.CurrentHijriYear()
	calcs, err := s.zakatRepo.ListOutstandingCalculations(ctx, year)
	if err != nil {
		s.LogError(ctx, err, "Failed to list outstanding zakat", slog.Int("hijri_year", year))
		return 0, err
	}
	sent := 0
	for _, c := range calcs {
		if !c.ZakatRemaining.IsPositive() {
			continue
		}
		s.publish(ctx, domain.EventZakatDueReminder, c.FamilyID, "", map[string]any{
			"calculation_id":        c.CalculationID,
			"hijri_year":            c.HijriYear,
			"zakat_due":             utils.FormatAmount(c.ZakatDue),
			"zakat_paid":            utils.FormatAmount(c.ZakatPaid),
			"zakat_remaining":       utils.FormatAmount(c.ZakatRemaining),
			"completion_percentage": utils.FormatAmount(c.CompletionPercentage()),
		})
		sent++
	}
	s.LogInfo(ctx, "Zakat reminders sent", slog.Int("hijri_year", year), slog.Int("count", sent))
	return sent, nil
}

func (s *zakatService) findFamilyCalculation(ctx context.Context, familyID, calculationID string) (*domain.ZakatCalculation, error) {
	calc, err := s.zakatRepo.FindCalculationByID(ctx, calculationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find zakat calculation", slog.String("calculation_id", calculationID))
		}
		return nil, err
	}
	if calc.FamilyID != familyID {
		return nil, fmt.Errorf("%w: zakat calculation %s", apperrors.ErrNotFound, calculationID)
	}
	return calc, nil
}

func (s *zakatService) findFamilyRecipient(ctx context.Context, familyID, recipientID string) (*domain.ZakatRecipient, error) {
	return findFamilyRecipient(ctx, s.recipientRepo, familyID, recipientID)
}
