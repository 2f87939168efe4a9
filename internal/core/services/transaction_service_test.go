package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/core/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/SscSPs/hifzmaal_backend/internal/platform/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	familyID      = "fam-1"
	otherFamilyID = "fam-2"
	ownerID       = "user-owner"
	editorID      = "user-editor"
	approverID    = "user-approver"
	viewerID      = "user-viewer"
	outsiderID    = "user-outsider"
)

var testNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

type TransactionServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memStore
	events    *MockEventPublisher
	authz     *memberAuthorizer
	service   portssvc.TransactionSvcFacade
	budgetSvc portssvc.BudgetSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMemStore()
	suite.events = new(MockEventPublisher)
	suite.events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	suite.authz = newMemberAuthorizer()
	suite.authz.add(familyID, ownerID, domain.RoleOwner, nil)
	suite.authz.add(familyID, editorID, domain.RoleEditor, ptr(dec("1000")))
	suite.authz.add(familyID, approverID, domain.RoleApprover, nil)
	suite.authz.add(familyID, viewerID, domain.RoleViewer, nil)
	suite.authz.add(otherFamilyID, outsiderID, domain.RoleOwner, nil)

	suite.store.addAccount("cash", familyID, domain.AccountTypeCash, "1000.00")
	suite.store.addAccount("bank", familyID, domain.AccountTypeBank, "5000.00")
	suite.store.addAccount("foreign", otherFamilyID, domain.AccountTypeCash, "700.00")
	suite.store.addCategory("groceries", familyID, domain.TransactionTypeExpense)
	suite.store.addCategory("salary", familyID, domain.TransactionTypeIncome)
	suite.store.addCategory("foreign-cat", otherFamilyID, domain.TransactionTypeExpense)

	options := []services.ServiceOption{
		services.WithFamilyAuthorizer(suite.authz),
		services.WithClock(clock.Fixed{T: testNow}),
		services.WithEventPublisher(suite.events),
	}
	suite.budgetSvc = services.NewBudgetService(suite.store, suite.store, suite.store, options...)
	suite.service = services.NewTransactionService(suite.store, suite.store, suite.store, suite.budgetSvc, options...)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func expenseReq(accountID, amount string) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		AccountID:  accountID,
		CategoryID: "groceries",
		Type:       domain.TransactionTypeExpense,
		Amount:     dec(amount),
		Date:       "2025-06-14",
	}
}

func (suite *TransactionServiceTestSuite) create(req dto.CreateTransactionRequest, userID string) *domain.Transaction {
	txn, err := suite.service.CreateTransaction(suite.ctx, familyID, req, userID)
	suite.Require().NoError(err)
	return txn
}

// --- Create ---

func (suite *TransactionServiceTestSuite) TestCreateTransaction_IncomeCreditsAccount() {
	req := dto.CreateTransactionRequest{
		AccountID: "cash", CategoryID: "salary", Type: domain.TransactionTypeIncome,
		Amount: dec("500.00"), Date: "2025-06-15",
	}

	txn := suite.create(req, ownerID)

	suite.Equal(domain.StatusApproved, txn.Status)
	suite.Equal(ownerID, *txn.ApprovedBy)
	suite.True(dec("1500").Equal(suite.store.balance("cash")))
	suite.Len(suite.events.eventsOfType(domain.EventTransactionCreated), 1)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ExpenseExactlyDrainsAccount() {
	suite.store.addAccount("wallet", familyID, domain.AccountTypeWallet, "100.00")

	suite.create(expenseReq("wallet", "100.00"), ownerID)

	suite.True(suite.store.balance("wallet").IsZero())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InsufficientBalance() {
	suite.store.addAccount("wallet", familyID, domain.AccountTypeWallet, "100.00")

	txn, err := suite.service.CreateTransaction(suite.ctx, familyID, expenseReq("wallet", "100.01"), ownerID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	var ibe *apperrors.InsufficientBalanceError
	suite.Require().ErrorAs(err, &ibe)
	suite.Equal("wallet", ibe.AccountID)
	suite.True(dec("100").Equal(suite.store.balance("wallet")))
	suite.Empty(suite.store.txns)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_TransferConservesFamilyBalance() {
	before := suite.store.totalBalance(familyID)
	req := dto.CreateTransactionRequest{
		AccountID: "bank", CategoryID: "groceries", Type: domain.TransactionTypeTransfer,
		Amount: dec("250.50"), Date: "2025-06-10", TransferToAccountID: ptr("cash"),
	}

	suite.create(req, ownerID)

	suite.True(dec("4749.50").Equal(suite.store.balance("bank")))
	suite.True(dec("1250.50").Equal(suite.store.balance("cash")))
	suite.True(before.Equal(suite.store.totalBalance(familyID)))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_TransferToSameAccount() {
	req := dto.CreateTransactionRequest{
		AccountID: "bank", CategoryID: "groceries", Type: domain.TransactionTypeTransfer,
		Amount: dec("10"), Date: "2025-06-10", TransferToAccountID: ptr("bank"),
	}

	_, err := suite.service.CreateTransaction(suite.ctx, familyID, req, ownerID)

	suite.ErrorIs(err, apperrors.ErrInvalidTransaction)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_SpendingLimit() {
	pending := suite.create(expenseReq("bank", "1500.00"), editorID)
	approved := suite.create(expenseReq("bank", "900.00"), editorID)

	suite.Equal(domain.StatusPending, pending.Status)
	suite.True(pending.NeedsApproval)
	suite.Nil(pending.ApprovedBy)
	suite.Equal(domain.StatusApproved, approved.Status)
	suite.True(dec("4100").Equal(suite.store.balance("bank")))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Validation() {
	tests := []struct {
		name string
		req  dto.CreateTransactionRequest
		want error
	}{
		{"future date", func() dto.CreateTransactionRequest {
			r := expenseReq("cash", "10")
			r.Date = "2025-06-16"
			return r
		}(), apperrors.ErrValidation},
		{"below minimum", expenseReq("cash", "0.001"), apperrors.ErrValidation},
		{"three decimals", expenseReq("cash", "10.005"), apperrors.ErrValidation},
		{"bad date", func() dto.CreateTransactionRequest {
			r := expenseReq("cash", "10")
			r.Date = "14/06/2025"
			return r
		}(), apperrors.ErrValidation},
		{"recurring without frequency", func() dto.CreateTransactionRequest {
			r := expenseReq("cash", "10")
			r.IsRecurring = true
			return r
		}(), apperrors.ErrValidation},
		{"foreign account", expenseReq("foreign", "10"), apperrors.ErrNotFound},
		{"foreign category", func() dto.CreateTransactionRequest {
			r := expenseReq("cash", "10")
			r.CategoryID = "foreign-cat"
			return r
		}(), apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateTransaction(suite.ctx, familyID, tt.req, ownerID)
			suite.ErrorIs(err, tt.want)
			suite.True(dec("1000").Equal(suite.store.balance("cash")))
		})
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InactiveAccount() {
	acc := suite.store.accounts["cash"]
	acc.IsActive = false
	suite.store.accounts["cash"] = acc

	_, err := suite.service.CreateTransaction(suite.ctx, familyID, expenseReq("cash", "10"), ownerID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Authorization() {
	_, err := suite.service.CreateTransaction(suite.ctx, familyID, expenseReq("cash", "10"), viewerID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.CreateTransaction(suite.ctx, familyID, expenseReq("cash", "10"), outsiderID)
	suite.ErrorIs(err, apperrors.ErrUnauthorizedFamilyAccess)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_BalanceWriteFailureRollsBack() {
	suite.store.failBalanceUpdate = assert.AnError

	_, err := suite.service.CreateTransaction(suite.ctx, familyID, expenseReq("cash", "10"), ownerID)

	suite.ErrorIs(err, assert.AnError)
	suite.Empty(suite.store.txns)
	suite.True(dec("1000").Equal(suite.store.balance("cash")))
	suite.Empty(suite.events.eventsOfType(domain.EventTransactionCreated))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_BudgetThresholdAlert() {
	suite.store.budgets["b1"] = domain.Budget{
		BudgetID: "b1", FamilyID: familyID, CategoryID: "groceries", Name: "Food",
		Amount: dec("1000"), StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), AlertThreshold: 80, IsActive: true,
	}

	suite.create(expenseReq("bank", "700"), ownerID)
	suite.Empty(suite.events.eventsOfType(domain.EventBudgetThresholdReached))

	suite.create(expenseReq("bank", "150"), ownerID)
	alerts := suite.events.eventsOfType(domain.EventBudgetThresholdReached)
	suite.Require().Len(alerts, 1)
	suite.Equal("b1", alerts[0].Payload["budget_id"])
	suite.Equal("85.00", alerts[0].Payload["percent_used"])
}

// --- Approval ---

func (suite *TransactionServiceTestSuite) TestApproveTransaction_AppliesOnce() {
	pending := suite.create(expenseReq("bank", "1500.00"), editorID)
	suite.True(dec("5000").Equal(suite.store.balance("bank")))

	approved, err := suite.service.ApproveTransaction(suite.ctx, familyID, pending.TransactionID, approverID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, approved.Status)
	suite.Equal(approverID, *approved.ApprovedBy)
	suite.Equal(testNow, *approved.ApprovedAt)
	suite.True(dec("3500").Equal(suite.store.balance("bank")))

	again, err := suite.service.ApproveTransaction(suite.ctx, familyID, pending.TransactionID, ownerID)
	suite.Require().NoError(err)
	suite.Equal(approverID, *again.ApprovedBy)
	suite.True(dec("3500").Equal(suite.store.balance("bank")))
	suite.Len(suite.events.eventsOfType(domain.EventTransactionApproved), 1)
}

func (suite *TransactionServiceTestSuite) TestApproveTransaction_RequiresApprover() {
	pending := suite.create(expenseReq("bank", "1500.00"), editorID)

	_, err := suite.service.ApproveTransaction(suite.ctx, familyID, pending.TransactionID, editorID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestApproveTransaction_InsufficientBalanceAtApproval() {
	pending := suite.create(expenseReq("bank", "1500.00"), editorID)
	suite.create(expenseReq("bank", "900.00"), ownerID)
	suite.create(expenseReq("bank", "3000.00"), ownerID)

	_, err := suite.service.ApproveTransaction(suite.ctx, familyID, pending.TransactionID, ownerID)

	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Equal(domain.StatusPending, suite.store.txns[pending.TransactionID].Status)
	suite.True(dec("1100").Equal(suite.store.balance("bank")))
}

func (suite *TransactionServiceTestSuite) TestRejectTransaction() {
	pending := suite.create(expenseReq("bank", "1500.00"), editorID)

	rejected, err := suite.service.RejectTransaction(suite.ctx, familyID, pending.TransactionID, approverID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, rejected.Status)
	suite.True(dec("5000").Equal(suite.store.balance("bank")))

	_, err = suite.service.ApproveTransaction(suite.ctx, familyID, pending.TransactionID, ownerID)
	suite.ErrorIs(err, apperrors.ErrInvalidTransaction)

	_, err = suite.service.UpdateTransaction(suite.ctx, familyID, pending.TransactionID,
		dto.UpdateTransactionRequest{Amount: ptr(dec("10"))}, ownerID)
	suite.ErrorIs(err, apperrors.ErrInvalidTransaction)
}

func (suite *TransactionServiceTestSuite) TestRejectTransaction_ApprovedCannotBeRejected() {
	txn := suite.create(expenseReq("bank", "100"), ownerID)

	_, err := suite.service.RejectTransaction(suite.ctx, familyID, txn.TransactionID, ownerID)

	suite.ErrorIs(err, apperrors.ErrInvalidTransaction)
	suite.True(dec("4900").Equal(suite.store.balance("bank")))
}

// --- Update and delete ---

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_RevertsAndReapplies() {
	txn := suite.create(expenseReq("cash", "200"), ownerID)
	suite.True(dec("800").Equal(suite.store.balance("cash")))

	_, err := suite.service.UpdateTransaction(suite.ctx, familyID, txn.TransactionID,
		dto.UpdateTransactionRequest{Amount: ptr(dec("300"))}, ownerID)
	suite.Require().NoError(err)
	suite.True(dec("700").Equal(suite.store.balance("cash")))

	updated, err := suite.service.UpdateTransaction(suite.ctx, familyID, txn.TransactionID,
		dto.UpdateTransactionRequest{AccountID: ptr("bank")}, ownerID)
	suite.Require().NoError(err)
	suite.Equal("bank", updated.AccountID)
	suite.True(dec("1000").Equal(suite.store.balance("cash")))
	suite.True(dec("4700").Equal(suite.store.balance("bank")))
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_FundsCheckUsesRevertedBalance() {
	txn := suite.create(expenseReq("cash", "1000"), ownerID)
	suite.True(suite.store.balance("cash").IsZero())

	_, err := suite.service.UpdateTransaction(suite.ctx, familyID, txn.TransactionID,
		dto.UpdateTransactionRequest{Amount: ptr(dec("999.99"))}, ownerID)
	suite.Require().NoError(err)
	suite.True(dec("0.01").Equal(suite.store.balance("cash")))

	_, err = suite.service.UpdateTransaction(suite.ctx, familyID, txn.TransactionID,
		dto.UpdateTransactionRequest{Amount: ptr(dec("1000.01"))}, ownerID)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.True(dec("0.01").Equal(suite.store.balance("cash")))
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_TypeChangeThenDeleteRestoresBalance() {
	txn := suite.create(dto.CreateTransactionRequest{
		AccountID: "cash", CategoryID: "salary", Type: domain.TransactionTypeIncome,
		Amount: dec("100"), Date: "2025-06-10",
	}, ownerID)
	suite.True(dec("1100").Equal(suite.store.balance("cash")))

	updated, err := suite.service.UpdateTransaction(suite.ctx, familyID, txn.TransactionID,
		dto.UpdateTransactionRequest{Type: ptr(domain.TransactionTypeExpense), CategoryID: ptr("groceries")}, ownerID)
	suite.Require().NoError(err)
	suite.Equal(domain.TransactionTypeExpense, updated.Type)
	suite.Equal(domain.TransactionTypeExpense, suite.store.txns[txn.TransactionID].Type)
	suite.True(dec("900").Equal(suite.store.balance("cash")))

	suite.Require().NoError(suite.service.DeleteTransaction(suite.ctx, familyID, txn.TransactionID, ownerID))
	suite.True(dec("1000").Equal(suite.store.balance("cash")))
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_RevertsApproved() {
	approved := suite.create(expenseReq("cash", "250"), ownerID)
	pending := suite.create(expenseReq("bank", "1500"), editorID)

	suite.Require().NoError(suite.service.DeleteTransaction(suite.ctx, familyID, approved.TransactionID, ownerID))
	suite.Require().NoError(suite.service.DeleteTransaction(suite.ctx, familyID, pending.TransactionID, ownerID))

	suite.True(dec("1000").Equal(suite.store.balance("cash")))
	suite.True(dec("5000").Equal(suite.store.balance("bank")))
	_, err := suite.service.GetTransaction(suite.ctx, familyID, approved.TransactionID, ownerID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_TransferConservesBalance() {
	before := suite.store.totalBalance(familyID)
	txn := suite.create(dto.CreateTransactionRequest{
		AccountID: "cash", CategoryID: "groceries", Type: domain.TransactionTypeTransfer,
		Amount: dec("400"), Date: "2025-06-01", TransferToAccountID: ptr("bank"),
	}, ownerID)

	suite.Require().NoError(suite.service.DeleteTransaction(suite.ctx, familyID, txn.TransactionID, ownerID))

	suite.True(dec("1000").Equal(suite.store.balance("cash")))
	suite.True(dec("5000").Equal(suite.store.balance("bank")))
	suite.True(before.Equal(suite.store.totalBalance(familyID)))
}

// --- Reads ---

func (suite *TransactionServiceTestSuite) TestGetTransaction_OtherFamilyIsNotFound() {
	txn := suite.create(expenseReq("cash", "10"), ownerID)
	suite.authz.add(otherFamilyID, ownerID, domain.RoleOwner, nil)

	_, err := suite.service.GetTransaction(suite.ctx, otherFamilyID, txn.TransactionID, ownerID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	err = suite.service.DeleteTransaction(suite.ctx, otherFamilyID, txn.TransactionID, ownerID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.True(dec("990").Equal(suite.store.balance("cash")))
}

func (suite *TransactionServiceTestSuite) TestListPendingTransactions() {
	suite.create(expenseReq("bank", "1500"), editorID)
	suite.create(expenseReq("bank", "1200"), editorID)
	suite.create(expenseReq("bank", "100"), editorID)

	pending, err := suite.service.ListPendingTransactions(suite.ctx, familyID, viewerID)

	suite.Require().NoError(err)
	suite.Len(pending, 2)
	for _, p := range pending {
		suite.Equal(domain.StatusPending, p.Status)
	}
}
