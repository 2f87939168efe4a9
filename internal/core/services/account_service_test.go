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
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

// --- Implement mock methods for AccountRepositoryFacade ---

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, familyID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, familyID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListZakatableAccounts(ctx context.Context, familyID string) ([]domain.Account, error) {
	args := m.Called(ctx, familyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, changes, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockAccountRepository)

	authz := newMemberAuthorizer()
	authz.add(familyID, ownerID, domain.RoleOwner, nil)
	authz.add(familyID, viewerID, domain.RoleViewer, nil)
	authz.add(otherFamilyID, outsiderID, domain.RoleOwner, nil)

	suite.service = services.NewAccountService(suite.mockRepo, stubFamilyReader{},
		services.WithFamilyAuthorizer(authz),
		services.WithClock(clock.Fixed{T: testNow}))
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		Name:           "Meezan Current",
		AccountType:    domain.AccountTypeBank,
		InitialBalance: dec("25000.50"),
	}

	// Expect SaveAccount to be called once
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, familyID, req, ownerID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal(familyID, account.FamilyID)
	suite.Equal("PKR", account.CurrencyCode)
	suite.True(account.Balance.Equal(account.InitialBalance))
	suite.True(account.IsActive)
	suite.True(account.IncludeInZakat)
	suite.Equal(ownerID, account.CreatedBy)
	suite.Equal(testNow, account.CreatedAt)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Validation() {
	tests := []struct {
		name string
		req  dto.CreateAccountRequest
	}{
		{"negative balance", dto.CreateAccountRequest{Name: "x", AccountType: domain.AccountTypeCash, InitialBalance: dec("-1")}},
		{"three decimals", dto.CreateAccountRequest{Name: "x", AccountType: domain.AccountTypeCash, InitialBalance: dec("1.001")}},
		{"unknown type", dto.CreateAccountRequest{Name: "x", AccountType: "crypto"}},
		{"unsupported currency", dto.CreateAccountRequest{Name: "x", AccountType: domain.AccountTypeCash, CurrencyCode: "JPY"}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateAccount(suite.ctx, familyID, tt.req, ownerID)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()

	account, err := suite.service.CreateAccount(suite.ctx, familyID,
		dto.CreateAccountRequest{Name: "x", AccountType: domain.AccountTypeCash}, ownerID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, assert.AnError)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ViewerForbidden() {
	_, err := suite.service.CreateAccount(suite.ctx, familyID,
		dto.CreateAccountRequest{Name: "x", AccountType: domain.AccountTypeCash}, viewerID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherFamilyIsNotFound() {
	account := &domain.Account{AccountID: "acc-1", FamilyID: familyID, Name: "Cash"}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil)

	found, err := suite.service.GetAccountByID(suite.ctx, familyID, "acc-1", viewerID)
	suite.Require().NoError(err)
	suite.Equal(account, found)

	_, err = suite.service.GetAccountByID(suite.ctx, otherFamilyID, "acc-1", outsiderID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_RepoError() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(nil, assert.AnError).Once()

	account, err := suite.service.GetAccountByID(suite.ctx, familyID, "acc-1", ownerID)

	suite.Nil(account)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NeverTouchesBalance() {
	existing := &domain.Account{
		AccountID: "acc-1", FamilyID: familyID, Name: "Cash", AccountType: domain.AccountTypeCash,
		Balance: dec("75"), InitialBalance: dec("100"), IsActive: true,
	}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Pocket money" && a.Balance.Equal(dec("75")) && a.LastUpdatedBy == ownerID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(suite.ctx, familyID, "acc-1",
		dto.UpdateAccountRequest{Name: ptr("Pocket money")}, ownerID)

	suite.Require().NoError(err)
	suite.Equal("Pocket money", updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoChangesSkipsWrite() {
	existing := &domain.Account{AccountID: "acc-1", FamilyID: familyID, Name: "Cash", IsActive: true}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(existing, nil).Once()

	_, err := suite.service.UpdateAccount(suite.ctx, familyID, "acc-1",
		dto.UpdateAccountRequest{Name: ptr("Cash"), IsActive: ptr(true)}, ownerID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_SoftDeletes() {
	existing := &domain.Account{AccountID: "acc-1", FamilyID: familyID, IsActive: true}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(existing, nil).Once()
	suite.mockRepo.On("SoftDeleteAccount", suite.ctx, "acc-1", ownerID, testNow).Return(nil).Once()

	err := suite.service.DeleteAccount(suite.ctx, familyID, "acc-1", ownerID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_EmptyIsNotNil() {
	suite.mockRepo.On("ListAccounts", suite.ctx, familyID, false).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(suite.ctx, familyID, false, viewerID)

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}
