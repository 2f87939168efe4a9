package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/SscSPs/hifzmaal_backend/internal/handlers"
	"github.com/SscSPs/hifzmaal_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, familyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, familyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, familyID string, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, familyID, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, familyID string, includeInactive bool, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, familyID, includeInactive, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, familyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, familyID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, familyID string, accountID string, userID string) error {
	args := m.Called(ctx, familyID, accountID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	jwtSecret          string
}

// generateTestToken signs a token the way the identity service does.
func generateTestToken(s *suite.Suite, secret, userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "hifzmaal-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	// Use the actual AuthMiddleware
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret, "hifzmaal-test"))

	suite.mockAccountService = new(MockAccountService)

	family := suite.router.Group("/api/v1/families/:familyID")
	handlers.RegisterAccountRoutes(family, suite.mockAccountService)
}

func (suite *AccountHandlerTestSuite) do(method, url, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+generateTestToken(&suite.Suite, suite.jwtSecret, userID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	familyID := uuid.NewString()
	userID := uuid.NewString()
	created := &domain.Account{
		AccountID:      uuid.NewString(),
		FamilyID:       familyID,
		Name:           "Wallet",
		AccountType:    domain.AccountTypeWallet,
		CurrencyCode:   "PKR",
		Balance:        decimal.RequireFromString("1500.50"),
		InitialBalance: decimal.RequireFromString("1500.50"),
		IsActive:       true,
	}

	suite.mockAccountService.On("CreateAccount", mock.Anything, familyID,
		mock.MatchedBy(func(r dto.CreateAccountRequest) bool {
			return r.Name == "Wallet" && r.InitialBalance.Equal(decimal.RequireFromString("1500.50"))
		}), userID).Return(created, nil).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/families/%s/accounts", familyID), userID,
		map[string]any{"name": "Wallet", "type": "wallet", "initial_balance": "1500.50"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.True(resp.Balance.Equal(created.Balance))
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidBody() {
	w := suite.do(http.MethodPost, "/api/v1/families/fam/accounts", uuid.NewString(),
		map[string]any{"name": "Gold", "type": "crypto"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestMissingToken() {
	w := suite.do(http.MethodGet, "/api/v1/families/fam/accounts", "", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AccountHandlerTestSuite) TestErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"not a member", apperrors.ErrUnauthorizedFamilyAccess, http.StatusForbidden, apperrors.KindUnauthorizedFamilyAccess},
		{"role too low", apperrors.ErrForbidden, http.StatusForbidden, apperrors.KindForbidden},
		{"other family", fmt.Errorf("%w: account acc", apperrors.ErrNotFound), http.StatusNotFound, apperrors.KindNotFound},
		{"database down", fmt.Errorf("connection refused"), http.StatusInternalServerError, apperrors.KindInternal},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			userID := uuid.NewString()
			suite.mockAccountService.On("GetAccountByID", mock.Anything, "fam", "acc", userID).Return(nil, tt.err).Once()

			w := suite.do(http.MethodGet, "/api/v1/families/fam/accounts/acc", userID, nil)

			suite.Equal(tt.status, w.Code)
			var resp dto.ErrorResponse
			suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
			suite.Equal(tt.kind, resp.Kind)
			if tt.kind == apperrors.KindInternal {
				suite.NotContains(resp.Message, "connection refused")
			}
		})
	}
}

func (suite *AccountHandlerTestSuite) TestListAccounts_TotalsActiveBalances() {
	userID := uuid.NewString()
	suite.mockAccountService.On("ListAccounts", mock.Anything, "fam", true, userID).Return([]domain.Account{
		{AccountID: "a", Balance: decimal.NewFromInt(100), IsActive: true},
		{AccountID: "b", Balance: decimal.NewFromInt(50), IsActive: false},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/families/fam/accounts?include_inactive=true", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 2)
	suite.True(resp.TotalBalance.Equal(decimal.NewFromInt(100)))
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_NoContent() {
	userID := uuid.NewString()
	suite.mockAccountService.On("DeleteAccount", mock.Anything, "fam", "acc", userID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/families/fam/accounts/acc", userID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
