package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/SscSPs/hifzmaal_backend/internal/handlers"
	"github.com/SscSPs/hifzmaal_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockZakatService struct {
	mock.Mock
}

func (m *MockZakatService) CalculateZakat(ctx context.Context, familyID string, hijriYear int, snapshot domain.AssetSnapshot, nisabType domain.NisabType, notes string, userID string) (*domain.ZakatCalculation, error) {
	args := m.Called(ctx, familyID, hijriYear, snapshot, nisabType, notes, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ZakatCalculation), args.Error(1)
}

func (m *MockZakatService) AutoCalculateFromAccounts(ctx context.Context, familyID string, hijriYear int, userID string) (*domain.ZakatCalculation, error) {
	args := m.Called(ctx, familyID, hijriYear, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ZakatCalculation), args.Error(1)
}

func (m *MockZakatService) CurrentHijriYear() int {
	return m.Called().Int(0)
}

func (m *MockZakatService) GetCalculation(ctx context.Context, familyID, calculationID, userID string) (*domain.ZakatCalculation, error) {
	args := m.Called(ctx, familyID, calculationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ZakatCalculation), args.Error(1)
}

func (m *MockZakatService) GetCalculationByYear(ctx context.Context, familyID string, hijriYear int, userID string) (*domain.ZakatCalculation, error) {
	args := m.Called(ctx, familyID, hijriYear, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ZakatCalculation), args.Error(1)
}

func (m *MockZakatService) ListCalculations(ctx context.Context, familyID, userID string) ([]domain.ZakatCalculation, error) {
	args := m.Called(ctx, familyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ZakatCalculation), args.Error(1)
}

func (m *MockZakatService) GetZakatHistory(ctx context.Context, familyID, userID string) ([]domain.ZakatHistoryEntry, error) {
	args := m.Called(ctx, familyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ZakatHistoryEntry), args.Error(1)
}

func (m *MockZakatService) DeleteCalculation(ctx context.Context, familyID, calculationID, userID string) error {
	return m.Called(ctx, familyID, calculationID, userID).Error(0)
}

func (m *MockZakatService) RecordPayment(ctx context.Context, familyID, calculationID string, req dto.RecordZakatPaymentRequest, userID string) (*domain.ZakatPayment, *domain.ZakatCalculation, error) {
	args := m.Called(ctx, familyID, calculationID, req, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.ZakatPayment), args.Get(1).(*domain.ZakatCalculation), args.Error(2)
}

func (m *MockZakatService) ListPayments(ctx context.Context, familyID, calculationID, userID string) ([]domain.ZakatPayment, error) {
	args := m.Called(ctx, familyID, calculationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ZakatPayment), args.Error(1)
}

func (m *MockZakatService) SendZakatReminders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var _ portssvc.ZakatSvcFacade = (*MockZakatService)(nil)

type MockNisabService struct {
	mock.Mock
}

func (m *MockNisabService) GetNisabAmount(ctx context.Context, nisabType domain.NisabType, currency string) decimal.Decimal {
	return m.Called(ctx, nisabType, currency).Get(0).(decimal.Decimal)
}

type MockFamilyReader struct {
	mock.Mock
}

func (m *MockFamilyReader) GetFamily(ctx context.Context, familyID, userID string) (*domain.Family, error) {
	args := m.Called(ctx, familyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Family), args.Error(1)
}

func (m *MockFamilyReader) ListUserFamilies(ctx context.Context, userID string) ([]domain.Family, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Family), args.Error(1)
}

func (m *MockFamilyReader) ListMembers(ctx context.Context, familyID, userID string) ([]domain.FamilyMember, error) {
	args := m.Called(ctx, familyID, userID)
	return args.Get(0).([]domain.FamilyMember), args.Error(1)
}

type ZakatHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	zakat  *MockZakatService
	nisab  *MockNisabService
	family *MockFamilyReader
	secret string
}

func (suite *ZakatHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()
	suite.secret = "test-secret-key-that-is-long-enough"
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(suite.secret, ""))
	suite.zakat = new(MockZakatService)
	suite.nisab = new(MockNisabService)
	suite.family = new(MockFamilyReader)
	handlers.RegisterZakatRoutes(suite.router.Group("/api/v1/families/:familyID"), suite.zakat, suite.nisab, suite.family)
}

func TestZakatHandler(t *testing.T) {
	suite.Run(t, new(ZakatHandlerTestSuite))
}

func (suite *ZakatHandlerTestSuite) do(method, url, userID, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+generateTestToken(&suite.Suite, suite.secret, userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleCalculation() *domain.ZakatCalculation {
	return &domain.ZakatCalculation{
		CalculationID:   "calc-1",
		FamilyID:        "fam",
		HijriYear:       1446,
		TotalAssets:     decimal.RequireFromString("500000.00"),
		NisabAmount:     decimal.RequireFromString("95000.00"),
		NisabType:       domain.NisabSilver,
		ZakatableAmount: decimal.RequireFromString("500000.00"),
		ZakatDue:        decimal.RequireFromString("12500.00"),
		ZakatPaid:       decimal.Zero,
		ZakatRemaining:  decimal.RequireFromString("12500.00"),
	}
}

func (suite *ZakatHandlerTestSuite) TestCalculate_PassesSnapshot() {
	suite.zakat.On("CalculateZakat", mock.Anything, "fam", 1446,
		mock.MatchedBy(func(s domain.AssetSnapshot) bool {
			return s.CashInBank.Equal(decimal.RequireFromString("500000")) && s.Debts.IsZero()
		}),
		domain.NisabSilver, "", "owner").Return(sampleCalculation(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/families/fam/zakat", "owner",
		`{"hijri_year":1446,"cash_in_bank":"500000","nisab_type":"silver"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ZakatCalculationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("calc-1", resp.CalculationID)
	suite.True(resp.ZakatDue.Equal(decimal.RequireFromString("12500")))
	suite.zakat.AssertExpectations(suite.T())
}

func (suite *ZakatHandlerTestSuite) TestCalculate_InvalidBody() {
	tests := []struct {
		name string
		body string
	}{
		{"hijri year too early", `{"hijri_year":1399}`},
		{"hijri year too late", `{"hijri_year":1501}`},
		{"unknown nisab type", `{"nisab_type":"platinum"}`},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/families/fam/zakat", "owner", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.zakat.AssertNotCalled(suite.T(), "CalculateZakat", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ZakatHandlerTestSuite) TestAutoCalculate_EmptyBody() {
	suite.zakat.On("AutoCalculateFromAccounts", mock.Anything, "fam", 0, "owner").Return(sampleCalculation(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/families/fam/zakat/auto-calculate", "owner", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.zakat.AssertExpectations(suite.T())
}

func (suite *ZakatHandlerTestSuite) TestRecordPayment_Created() {
	calc := sampleCalculation()
	calc.ZakatPaid = decimal.RequireFromString("2500.00")
	calc.ZakatRemaining = decimal.RequireFromString("10000.00")
	payment := &domain.ZakatPayment{
		PaymentID:     "pay-1",
		CalculationID: "calc-1",
		RecipientName: "Madrasa",
		Amount:        decimal.RequireFromString("2500.00"),
		PaymentType:   domain.PaymentZakat,
	}
	suite.zakat.On("RecordPayment", mock.Anything, "fam", "calc-1", mock.MatchedBy(func(r dto.RecordZakatPaymentRequest) bool {
		return r.Amount.Equal(decimal.RequireFromString("2500")) && r.RecipientName == "Madrasa"
	}), "owner").Return(payment, calc, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/families/fam/zakat/calc-1/payments", "owner",
		`{"amount":"2500.00","payment_type":"zakat","recipient_name":"Madrasa","payment_date":"2025-06-01"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.RecordZakatPaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("pay-1", resp.Payment.PaymentID)
	suite.True(resp.Calculation.ZakatRemaining.Equal(decimal.RequireFromString("10000")))
}

func (suite *ZakatHandlerTestSuite) TestRecordPayment_InvalidBody() {
	tests := []struct {
		name string
		body string
	}{
		{"zero amount", `{"amount":"0","payment_type":"zakat","recipient_name":"X"}`},
		{"three decimals", `{"amount":"1.005","payment_type":"zakat","recipient_name":"X"}`},
		{"unknown type", `{"amount":"10","payment_type":"gift","recipient_name":"X"}`},
		{"bad date", `{"amount":"10","payment_type":"zakat","recipient_name":"X","payment_date":"June 1"}`},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/families/fam/zakat/calc-1/payments", "owner", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
}

func (suite *ZakatHandlerTestSuite) TestDeleteCalculation_WithPaymentsConflict() {
	suite.zakat.On("DeleteCalculation", mock.Anything, "fam", "calc-1", "owner").Return(apperrors.ErrConflict).Once()

	w := suite.do(http.MethodDelete, "/api/v1/families/fam/zakat/calc-1", "owner", "")

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ZakatHandlerTestSuite) TestNisab_DefaultsToFamilyCurrency() {
	suite.family.On("GetFamily", mock.Anything, "fam", "viewer").
		Return(&domain.Family{FamilyID: "fam", CurrencyCode: "PKR"}, nil).Once()
	suite.nisab.On("GetNisabAmount", mock.Anything, domain.NisabSilver, "PKR").
		Return(decimal.RequireFromString("94915.80")).Once()

	w := suite.do(http.MethodGet, "/api/v1/families/fam/zakat/nisab", "viewer", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.NisabResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("PKR", resp.CurrencyCode)
	suite.Equal(domain.NisabSilver, resp.NisabType)
	suite.True(resp.NisabAmount.Equal(decimal.RequireFromString("94915.80")))
}

func (suite *ZakatHandlerTestSuite) TestNisab_NonMemberForbidden() {
	suite.family.On("GetFamily", mock.Anything, "fam", "stranger").
		Return(nil, apperrors.ErrUnauthorizedFamilyAccess).Once()

	w := suite.do(http.MethodGet, "/api/v1/families/fam/zakat/nisab?type=gold&currency=usd", "stranger", "")

	suite.Equal(http.StatusForbidden, w.Code)
	suite.nisab.AssertNotCalled(suite.T(), "GetNisabAmount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ZakatHandlerTestSuite) TestHistory_IncludesCurrentYear() {
	suite.zakat.On("GetZakatHistory", mock.Anything, "fam", "viewer").Return([]domain.ZakatHistoryEntry{}, nil).Once()
	suite.zakat.On("CurrentHijriYear").Return(1446).Once()

	w := suite.do(http.MethodGet, "/api/v1/families/fam/zakat/history", "viewer", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ZakatHistoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1446, resp.CurrentHijriYear)
}
