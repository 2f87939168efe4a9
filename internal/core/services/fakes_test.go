package services_test

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock event publisher ---

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// eventsOfType returns the published events of type t.
func (m *MockEventPublisher) eventsOfType(t domain.EventType) []domain.Event {
	var out []domain.Event
	for _, call := range m.Calls {
		if call.Method != "Publish" {
			continue
		}
		if e := call.Arguments.Get(1).(domain.Event); e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// --- Membership based authorizer ---

type memberAuthorizer struct {
	members map[string]map[string]domain.FamilyMember
}

func newMemberAuthorizer() *memberAuthorizer {
	return &memberAuthorizer{members: map[string]map[string]domain.FamilyMember{}}
}

func (a *memberAuthorizer) add(familyID, userID string, role domain.FamilyRole, limit *decimal.Decimal) {
	if a.members[familyID] == nil {
		a.members[familyID] = map[string]domain.FamilyMember{}
	}
	a.members[familyID][userID] = domain.FamilyMember{
		FamilyID: familyID, UserID: userID, Role: role, SpendingLimit: limit, IsActive: true,
	}
}

func (a *memberAuthorizer) AuthorizeMember(_ context.Context, userID, familyID string, perm domain.FamilyPermission) (*domain.FamilyMember, error) {
	m, ok := a.members[familyID][userID]
	if !ok || !m.IsActive {
		return nil, apperrors.ErrUnauthorizedFamilyAccess
	}
	if !m.Has(perm) {
		return nil, apperrors.ErrForbidden
	}
	return &m, nil
}

var _ portssvc.FamilyAuthorizerSvc = (*memberAuthorizer)(nil)

// --- In-memory store ---

type memState struct {
	accounts   map[string]domain.Account
	txns       map[string]domain.Transaction
	categories map[string]domain.Category
	budgets    map[string]domain.Budget
	calcs      map[string]domain.ZakatCalculation
	payments   map[string]domain.ZakatPayment
	recipients map[string]domain.ZakatRecipient
	bills      map[string]domain.Bill
	goals      map[string]domain.SavingsGoal
}

func (s memState) clone() memState {
	return memState{
		accounts:   maps.Clone(s.accounts),
		txns:       maps.Clone(s.txns),
		categories: maps.Clone(s.categories),
		budgets:    maps.Clone(s.budgets),
		calcs:      maps.Clone(s.calcs),
		payments:   maps.Clone(s.payments),
		recipients: maps.Clone(s.recipients),
		bills:      maps.Clone(s.bills),
		goals:      maps.Clone(s.goals),
	}
}

// memStore backs every repository port with maps. Begin snapshots the state and
// Rollback restores it unless Commit ran first, so atomicity is observable in tests.
type memStore struct {
	memState
	snapshot *memState
	commits  int

	failBalanceUpdate error
	failBillInsert    error
}

func newMemStore() *memStore {
	return &memStore{memState: memState{
		accounts:   map[string]domain.Account{},
		txns:       map[string]domain.Transaction{},
		categories: map[string]domain.Category{},
		budgets:    map[string]domain.Budget{},
		calcs:      map[string]domain.ZakatCalculation{},
		payments:   map[string]domain.ZakatPayment{},
		recipients: map[string]domain.ZakatRecipient{},
		bills:      map[string]domain.Bill{},
		goals:      map[string]domain.SavingsGoal{},
	}}
}

var (
	_ portsrepo.TransactionRepositoryWithTx = (*memStore)(nil)
	_ portsrepo.AccountTransactionSupport   = (*memStore)(nil)
	_ portsrepo.AccountReader               = (*memStore)(nil)
	_ portsrepo.CategoryRepositoryFacade    = (*memStore)(nil)
	_ portsrepo.BudgetRepositoryFacade      = (*memStore)(nil)
	_ portsrepo.ZakatRepositoryWithTx       = (*memStore)(nil)
	_ portsrepo.RecipientRepositoryFacade   = (*memStore)(nil)
	_ portsrepo.BillRepositoryWithTx        = (*memStore)(nil)
	_ portsrepo.SavingsGoalRepositoryFacade = (*memStore)(nil)
)

func (s *memStore) Begin(context.Context) (pgx.Tx, error) {
	snap := s.memState.clone()
	s.snapshot = &snap
	return nil, nil
}

func (s *memStore) Commit(context.Context, pgx.Tx) error {
	s.snapshot = nil
	s.commits++
	return nil
}

func (s *memStore) Rollback(context.Context, pgx.Tx) error {
	if s.snapshot != nil {
		s.memState = *s.snapshot
		s.snapshot = nil
	}
	return nil
}

func (s *memStore) balance(accountID string) decimal.Decimal {
	return s.accounts[accountID].Balance
}

func (s *memStore) totalBalance(familyID string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.accounts {
		if a.FamilyID == familyID {
			total = total.Add(a.Balance)
		}
	}
	return total
}

// Accounts

func (s *memStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	a, ok := s.accounts[accountID]
	if !ok || a.IsDeleted() {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *memStore) FindAccountsByIDs(_ context.Context, ids []string) (map[string]domain.Account, error) {
	out := map[string]domain.Account{}
	for _, id := range ids {
		if a, ok := s.accounts[id]; ok && !a.IsDeleted() {
			out[id] = a
		}
	}
	return out, nil
}

func (s *memStore) ListAccounts(_ context.Context, familyID string, includeInactive bool) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range s.accounts {
		if a.FamilyID == familyID && !a.IsDeleted() && (includeInactive || a.IsActive) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) ListZakatableAccounts(_ context.Context, familyID string) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range s.accounts {
		if a.FamilyID == familyID && a.CanMutate() && a.IncludeInZakat {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) FindAccountsByIDsForUpdate(_ context.Context, _ pgx.Tx, ids []string) (map[string]domain.Account, error) {
	out := map[string]domain.Account{}
	for _, id := range ids {
		a, ok := s.accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		out[id] = a
	}
	return out, nil
}

func (s *memStore) UpdateAccountBalancesInTx(_ context.Context, _ pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	if s.failBalanceUpdate != nil {
		return s.failBalanceUpdate
	}
	for id, delta := range changes {
		a := s.accounts[id]
		a.Balance = a.Balance.Add(delta)
		a.LastUpdatedAt = now
		a.LastUpdatedBy = userID
		s.accounts[id] = a
	}
	return nil
}

// Categories

func (s *memStore) SaveCategory(_ context.Context, c domain.Category) error {
	s.categories[c.CategoryID] = c
	return nil
}

func (s *memStore) FindCategoryByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *memStore) ListCategories(_ context.Context, familyID string, txType *domain.TransactionType) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range s.categories {
		if c.FamilyID == familyID && (txType == nil || c.Type == *txType) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) DeleteCategory(_ context.Context, id string) error {
	delete(s.categories, id)
	return nil
}

// Transactions

func (s *memStore) FindTransactionByID(_ context.Context, id string) (*domain.Transaction, error) {
	t, ok := s.txns[id]
	if !ok || t.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (s *memStore) ListTransactions(_ context.Context, familyID string, f domain.TransactionFilter, _ int, _ string) ([]domain.Transaction, string, error) {
	var out []domain.Transaction
	for _, t := range s.txns {
		if t.FamilyID != familyID || t.DeletedAt != nil {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Type != nil && t.Type != *f.Type {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, "", nil
}

func (s *memStore) SumApprovedExpenses(_ context.Context, familyID, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range s.txns {
		if t.FamilyID == familyID && t.CategoryID == categoryID && t.DeletedAt == nil &&
			t.Type == domain.TransactionTypeExpense && t.IsApproved() &&
			!t.Date.Before(start) && !t.Date.After(end) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (s *memStore) ListRecurringRoots(context.Context) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, t := range s.txns {
		if t.IsRecurringRoot() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out, nil
}

func (s *memStore) FindTransactionByIDForUpdate(ctx context.Context, _ pgx.Tx, id string) (*domain.Transaction, error) {
	return s.FindTransactionByID(ctx, id)
}

func (s *memStore) SaveTransactionInTx(_ context.Context, _ pgx.Tx, txn domain.Transaction) error {
	if txn.ParentTransactionID != nil {
		for _, t := range s.txns {
			if t.ParentTransactionID != nil && *t.ParentTransactionID == *txn.ParentTransactionID && t.Date.Equal(txn.Date) {
				return fmt.Errorf("%w: occurrence", apperrors.ErrDuplicate)
			}
		}
	}
	s.txns[txn.TransactionID] = txn
	return nil
}

func (s *memStore) UpdateTransactionInTx(_ context.Context, _ pgx.Tx, txn domain.Transaction) error {
	if _, ok := s.txns[txn.TransactionID]; !ok {
		return apperrors.ErrNotFound
	}
	s.txns[txn.TransactionID] = txn
	return nil
}

func (s *memStore) SoftDeleteTransactionInTx(_ context.Context, _ pgx.Tx, id, userID string, now time.Time) error {
	t := s.txns[id]
	t.DeletedAt = &now
	t.LastUpdatedBy = userID
	s.txns[id] = t
	return nil
}

func (s *memStore) LatestOccurrenceDate(_ context.Context, _ pgx.Tx, parentID string) (*time.Time, error) {
	var latest *time.Time
	for _, t := range s.txns {
		if t.ParentTransactionID != nil && *t.ParentTransactionID == parentID {
			if latest == nil || t.Date.After(*latest) {
				d := t.Date
				latest = &d
			}
		}
	}
	return latest, nil
}

func (s *memStore) OccurrenceExists(_ context.Context, _ pgx.Tx, parentID string, date time.Time) (bool, error) {
	for _, t := range s.txns {
		if t.ParentTransactionID != nil && *t.ParentTransactionID == parentID && t.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) children(parentID string) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range s.txns {
		if t.ParentTransactionID != nil && *t.ParentTransactionID == parentID {
			out = append(out, t)
		}
	}
	return out
}

// Budgets

func (s *memStore) FindBudgetByID(_ context.Context, id string) (*domain.Budget, error) {
	b, ok := s.budgets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (s *memStore) ListBudgets(_ context.Context, familyID string, activeOnly bool) ([]domain.Budget, error) {
	var out []domain.Budget
	for _, b := range s.budgets {
		if b.FamilyID == familyID && (!activeOnly || b.IsActive) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) ListActiveBudgetsCovering(_ context.Context, familyID, categoryID string, date time.Time) ([]domain.Budget, error) {
	var out []domain.Budget
	for _, b := range s.budgets {
		if b.FamilyID == familyID && b.CategoryID == categoryID && b.IsActive && b.Covers(date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) SaveBudget(_ context.Context, b domain.Budget) error {
	s.budgets[b.BudgetID] = b
	return nil
}

func (s *memStore) UpdateBudget(_ context.Context, b domain.Budget) error {
	s.budgets[b.BudgetID] = b
	return nil
}

func (s *memStore) DeleteBudget(_ context.Context, id string) error {
	delete(s.budgets, id)
	return nil
}

// Zakat

func (s *memStore) FindCalculationByID(_ context.Context, id string) (*domain.ZakatCalculation, error) {
	c, ok := s.calcs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *memStore) FindCalculationByYear(_ context.Context, familyID string, year int) (*domain.ZakatCalculation, error) {
	for _, c := range s.calcs {
		if c.FamilyID == familyID && c.HijriYear == year {
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) ListCalculations(_ context.Context, familyID string) ([]domain.ZakatCalculation, error) {
	var out []domain.ZakatCalculation
	for _, c := range s.calcs {
		if c.FamilyID == familyID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HijriYear > out[j].HijriYear })
	return out, nil
}

func (s *memStore) ListOutstandingCalculations(_ context.Context, year int) ([]domain.ZakatCalculation, error) {
	var out []domain.ZakatCalculation
	for _, c := range s.calcs {
		if c.HijriYear == year && c.ZakatRemaining.IsPositive() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) UpsertCalculation(_ context.Context, calc domain.ZakatCalculation) (*domain.ZakatCalculation, error) {
	for id, existing := range s.calcs {
		if existing.FamilyID == calc.FamilyID && existing.HijriYear == calc.HijriYear {
			calc.CalculationID = id
			calc.CreatedAt = existing.CreatedAt
			calc.CreatedBy = existing.CreatedBy
			calc.ZakatPaid = existing.ZakatPaid
			calc.ZakatRemaining = decimal.Max(decimal.Zero, calc.ZakatDue.Sub(calc.ZakatPaid))
			break
		}
	}
	s.calcs[calc.CalculationID] = calc
	return &calc, nil
}

func (s *memStore) DeleteCalculation(_ context.Context, id string) error {
	delete(s.calcs, id)
	for pid, p := range s.payments {
		if p.CalculationID == id {
			delete(s.payments, pid)
		}
	}
	return nil
}

func (s *memStore) IncrementZakatPaidInTx(_ context.Context, _ pgx.Tx, id string, amount decimal.Decimal, userID string, now time.Time) (*domain.ZakatCalculation, error) {
	c, ok := s.calcs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c.ApplyPayment(amount)
	c.LastUpdatedAt = now
	c.LastUpdatedBy = userID
	s.calcs[id] = c
	return &c, nil
}

func (s *memStore) SavePaymentInTx(_ context.Context, _ pgx.Tx, p domain.ZakatPayment) error {
	s.payments[p.PaymentID] = p
	return nil
}

func (s *memStore) ListPayments(_ context.Context, calculationID string) ([]domain.ZakatPayment, error) {
	var out []domain.ZakatPayment
	for _, p := range s.payments {
		if p.CalculationID == calculationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) CountPaymentsByCalculation(_ context.Context, familyID string) (map[string]int, error) {
	out := map[string]int{}
	for _, p := range s.payments {
		if p.FamilyID == familyID {
			out[p.CalculationID]++
		}
	}
	return out, nil
}

// Recipients

func (s *memStore) SaveRecipient(_ context.Context, r domain.ZakatRecipient) error {
	s.recipients[r.RecipientID] = r
	return nil
}

func (s *memStore) FindRecipientByID(_ context.Context, id string) (*domain.ZakatRecipient, error) {
	r, ok := s.recipients[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) ListRecipients(_ context.Context, familyID string, category *domain.RecipientCategory) ([]domain.ZakatRecipient, error) {
	var out []domain.ZakatRecipient
	for _, r := range s.recipients {
		if r.FamilyID == familyID && (category == nil || r.Category == *category) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) UpdateRecipient(_ context.Context, r domain.ZakatRecipient) error {
	s.recipients[r.RecipientID] = r
	return nil
}

func (s *memStore) DeleteRecipient(_ context.Context, id string) error {
	delete(s.recipients, id)
	return nil
}

func (s *memStore) IncrementTotalReceivedInTx(_ context.Context, _ pgx.Tx, id string, amount decimal.Decimal, _ time.Time) error {
	r, ok := s.recipients[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.TotalReceived = r.TotalReceived.Add(amount)
	s.recipients[id] = r
	return nil
}

// Bills

func (s *memStore) findBill(id string) (*domain.Bill, error) {
	b, ok := s.bills[id]
	if !ok || b.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (s *memStore) sortedBills(keep func(domain.Bill) bool) []domain.Bill {
	var out []domain.Bill
	for _, b := range s.bills {
		if b.DeletedAt == nil && keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].BillID < out[j].BillID
	})
	return out
}

func (s *memStore) FindBillByID(_ context.Context, id string) (*domain.Bill, error) {
	return s.findBill(id)
}

func (s *memStore) FindBillByIDForUpdate(_ context.Context, _ pgx.Tx, id string) (*domain.Bill, error) {
	return s.findBill(id)
}

func (s *memStore) ListBills(_ context.Context, familyID string, f domain.BillFilter) ([]domain.Bill, error) {
	return s.sortedBills(func(b domain.Bill) bool {
		return b.FamilyID == familyID &&
			(f.Status == nil || b.Status == *f.Status) &&
			(f.Type == nil || b.Type == *f.Type)
	}), nil
}

func (s *memStore) ListUnpaidBillsDueBetween(_ context.Context, familyID string, from, to time.Time) ([]domain.Bill, error) {
	return s.sortedBills(func(b domain.Bill) bool {
		return b.FamilyID == familyID && b.IsUnpaid() && !b.DueDate.Before(from) && !b.DueDate.After(to)
	}), nil
}

func (s *memStore) ListUnpaidBillsDueBefore(_ context.Context, familyID string, date time.Time) ([]domain.Bill, error) {
	return s.sortedBills(func(b domain.Bill) bool {
		return b.FamilyID == familyID && b.IsUnpaid() && b.DueDate.Before(date)
	}), nil
}

func (s *memStore) ListRecentPaidAmounts(_ context.Context, familyID, name string, limit int) ([]decimal.Decimal, error) {
	paid := s.sortedBills(func(b domain.Bill) bool {
		return b.FamilyID == familyID && b.Name == name && b.Status == domain.BillPaid
	})
	var out []decimal.Decimal
	for i := len(paid) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, paid[i].Amount)
	}
	return out, nil
}

func (s *memStore) ListPendingBillsDueBefore(_ context.Context, date time.Time) ([]domain.Bill, error) {
	return s.sortedBills(func(b domain.Bill) bool {
		return b.Status == domain.BillPending && b.DueDate.Before(date)
	}), nil
}

func (s *memStore) ListPendingBillsDueBetween(_ context.Context, from, to time.Time) ([]domain.Bill, error) {
	return s.sortedBills(func(b domain.Bill) bool {
		return b.Status == domain.BillPending && !b.DueDate.Before(from) && !b.DueDate.After(to)
	}), nil
}

func (s *memStore) SaveBill(_ context.Context, b domain.Bill) error {
	s.bills[b.BillID] = b
	return nil
}

func (s *memStore) SaveBillInTx(_ context.Context, _ pgx.Tx, b domain.Bill) error {
	if s.failBillInsert != nil {
		return s.failBillInsert
	}
	if b.PreviousBillID != nil {
		for _, other := range s.bills {
			if other.PreviousBillID != nil && *other.PreviousBillID == *b.PreviousBillID {
				return apperrors.ErrDuplicate
			}
		}
	}
	s.bills[b.BillID] = b
	return nil
}

func (s *memStore) UpdateBill(_ context.Context, b domain.Bill) error {
	if _, err := s.findBill(b.BillID); err != nil {
		return err
	}
	s.bills[b.BillID] = b
	return nil
}

func (s *memStore) SoftDeleteBill(_ context.Context, id, userID string, now time.Time) error {
	b, err := s.findBill(id)
	if err != nil {
		return err
	}
	b.DeletedAt = &now
	b.LastUpdatedBy = userID
	s.bills[id] = *b
	return nil
}

func (s *memStore) MarkBillPaidInTx(_ context.Context, _ pgx.Tx, b domain.Bill) error {
	s.bills[b.BillID] = b
	return nil
}

func (s *memStore) MarkBillOverdue(_ context.Context, id string, now time.Time) (bool, error) {
	b, ok := s.bills[id]
	if !ok || b.DeletedAt != nil || b.Status != domain.BillPending {
		return false, nil
	}
	b.Status = domain.BillOverdue
	b.LastUpdatedAt = now
	s.bills[id] = b
	return true, nil
}

func (s *memStore) ClaimBillReminder(_ context.Context, id string, day time.Time) (bool, error) {
	b, ok := s.bills[id]
	if !ok || (b.LastRemindedOn != nil && !b.LastRemindedOn.Before(day)) {
		return false, nil
	}
	b.LastRemindedOn = &day
	s.bills[id] = b
	return true, nil
}

// Savings goals

func (s *memStore) FindGoalByID(_ context.Context, id string) (*domain.SavingsGoal, error) {
	g, ok := s.goals[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &g, nil
}

func (s *memStore) ListGoals(_ context.Context, familyID string, f domain.SavingsGoalFilter) ([]domain.SavingsGoal, error) {
	var out []domain.SavingsGoal
	for _, g := range s.goals {
		if g.FamilyID == familyID &&
			(f.IsActive == nil || g.IsActive == *f.IsActive) &&
			(f.Type == nil || g.Type == *f.Type) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GoalID < out[j].GoalID })
	return out, nil
}

func (s *memStore) ListAutoContributingGoals(_ context.Context, dayOfMonth int) ([]domain.SavingsGoal, error) {
	var out []domain.SavingsGoal
	for _, g := range s.goals {
		if g.IsActive && g.AutoContribute && g.ContributionDay != nil && *g.ContributionDay == dayOfMonth && !g.IsCompleted() {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GoalID < out[j].GoalID })
	return out, nil
}

func (s *memStore) SaveGoal(_ context.Context, g domain.SavingsGoal) error {
	s.goals[g.GoalID] = g
	return nil
}

func (s *memStore) UpdateGoal(_ context.Context, g domain.SavingsGoal) error {
	if _, ok := s.goals[g.GoalID]; !ok {
		return apperrors.ErrNotFound
	}
	s.goals[g.GoalID] = g
	return nil
}

func (s *memStore) DeleteGoal(_ context.Context, id string) error {
	if _, ok := s.goals[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *memStore) AddContribution(_ context.Context, id string, amount decimal.Decimal, userID string, now time.Time) (*domain.SavingsGoal, error) {
	g, ok := s.goals[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.LastUpdatedAt = now
	g.LastUpdatedBy = userID
	s.goals[id] = g
	return &g, nil
}

func (s *memStore) AddAutoContribution(_ context.Context, id string, day, now time.Time) (*domain.SavingsGoal, error) {
	g, ok := s.goals[id]
	if !ok || !g.IsActive || !g.AutoContribute || g.MonthlyContribution == nil ||
		(g.LastAutoContributed != nil && !g.LastAutoContributed.Before(day)) {
		return nil, apperrors.ErrNotFound
	}
	g.CurrentAmount = g.CurrentAmount.Add(*g.MonthlyContribution)
	g.LastAutoContributed = &day
	g.LastUpdatedAt = now
	s.goals[id] = g
	return &g, nil
}

// --- Fixtures ---

func (s *memStore) addAccount(id, familyID string, accType domain.AccountType, balance string) domain.Account {
	a := domain.Account{
		AccountID:      id,
		FamilyID:       familyID,
		Name:           id,
		AccountType:    accType,
		CurrencyCode:   "PKR",
		Balance:        decimal.RequireFromString(balance),
		InitialBalance: decimal.RequireFromString(balance),
		IsActive:       true,
		IncludeInZakat: true,
	}
	s.accounts[id] = a
	return a
}

func (s *memStore) addCategory(id, familyID string, t domain.TransactionType) {
	s.categories[id] = domain.Category{CategoryID: id, FamilyID: familyID, Name: id, Type: t}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func ptr[T any](v T) *T {
	return &v
}
