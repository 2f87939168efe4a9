package services_test

import (
	"context"
	"testing"

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

// MockFamilyRepository is a mock type for the FamilyRepositoryFacade interface
type MockFamilyRepository struct {
	mock.Mock
}

func (m *MockFamilyRepository) FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error) {
	args := m.Called(ctx, familyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Family), args.Error(1)
}

func (m *MockFamilyRepository) ListFamiliesByUserID(ctx context.Context, userID string) ([]domain.Family, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Family), args.Error(1)
}

func (m *MockFamilyRepository) SaveFamily(ctx context.Context, family domain.Family, owner domain.FamilyMember) error {
	return m.Called(ctx, family, owner).Error(0)
}

func (m *MockFamilyRepository) UpdateFamily(ctx context.Context, family domain.Family) error {
	return m.Called(ctx, family).Error(0)
}

func (m *MockFamilyRepository) AddMember(ctx context.Context, member domain.FamilyMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockFamilyRepository) FindMember(ctx context.Context, familyID, userID string) (*domain.FamilyMember, error) {
	args := m.Called(ctx, familyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FamilyMember), args.Error(1)
}

func (m *MockFamilyRepository) ListMembers(ctx context.Context, familyID string) ([]domain.FamilyMember, error) {
	args := m.Called(ctx, familyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FamilyMember), args.Error(1)
}

func (m *MockFamilyRepository) UpdateMember(ctx context.Context, member domain.FamilyMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockFamilyRepository) RemoveMember(ctx context.Context, familyID, userID string) error {
	return m.Called(ctx, familyID, userID).Error(0)
}

type FamilyServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockRepo *MockFamilyRepository
	service  portssvc.FamilySvcFacade
}

func (suite *FamilyServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockFamilyRepository)
	suite.service = services.NewFamilyService(suite.mockRepo, services.WithClock(clock.Fixed{T: testNow}))
}

func TestFamilyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FamilyServiceTestSuite))
}

func member(userID string, role domain.FamilyRole, active bool) *domain.FamilyMember {
	return &domain.FamilyMember{FamilyID: familyID, UserID: userID, Role: role, IsActive: active}
}

func (suite *FamilyServiceTestSuite) TestCreateFamily_CreatorBecomesOwner() {
	suite.mockRepo.On("SaveFamily", suite.ctx, mock.AnythingOfType("domain.Family"),
		mock.MatchedBy(func(m domain.FamilyMember) bool {
			return m.UserID == ownerID && m.Role == domain.RoleOwner && m.IsActive && m.Name == "Aisha"
		})).Return(nil).Once()

	family, err := suite.service.CreateFamily(suite.ctx, dto.CreateFamilyRequest{Name: "Khan", OwnerName: "Aisha"}, ownerID)

	suite.Require().NoError(err)
	suite.Equal("PKR", family.CurrencyCode)
	suite.Equal(ownerID, family.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FamilyServiceTestSuite) TestCreateFamily_UnsupportedCurrency() {
	_, err := suite.service.CreateFamily(suite.ctx, dto.CreateFamilyRequest{Name: "Khan", CurrencyCode: "JPY"}, ownerID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveFamily", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FamilyServiceTestSuite) TestAuthorizeMember() {
	suite.mockRepo.On("FindMember", suite.ctx, familyID, ownerID).Return(member(ownerID, domain.RoleOwner, true), nil)
	suite.mockRepo.On("FindMember", suite.ctx, familyID, editorID).Return(member(editorID, domain.RoleEditor, true), nil)
	suite.mockRepo.On("FindMember", suite.ctx, familyID, viewerID).Return(member(viewerID, domain.RoleViewer, false), nil)
	suite.mockRepo.On("FindMember", suite.ctx, familyID, outsiderID).Return(nil, apperrors.ErrNotFound)

	tests := []struct {
		name   string
		userID string
		perm   domain.FamilyPermission
		want   error
	}{
		{"owner manages", ownerID, domain.PermissionManage, nil},
		{"editor edits", editorID, domain.PermissionEdit, nil},
		{"editor cannot approve", editorID, domain.PermissionApprove, apperrors.ErrForbidden},
		{"inactive member", viewerID, domain.PermissionView, apperrors.ErrUnauthorizedFamilyAccess},
		{"not a member", outsiderID, domain.PermissionView, apperrors.ErrUnauthorizedFamilyAccess},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			m, err := suite.service.AuthorizeMember(suite.ctx, tt.userID, familyID, tt.perm)
			if tt.want == nil {
				suite.Require().NoError(err)
				suite.Equal(tt.userID, m.UserID)
				return
			}
			suite.ErrorIs(err, tt.want)
		})
	}
}

func (suite *FamilyServiceTestSuite) TestAuthorizeMember_RepoError() {
	suite.mockRepo.On("FindMember", suite.ctx, familyID, ownerID).Return(nil, assert.AnError)

	_, err := suite.service.AuthorizeMember(suite.ctx, ownerID, familyID, domain.PermissionView)

	suite.ErrorIs(err, assert.AnError)
}

func (suite *FamilyServiceTestSuite) TestRemoveMember_LastOwnerIsKept() {
	suite.mockRepo.On("FindMember", suite.ctx, familyID, ownerID).Return(member(ownerID, domain.RoleOwner, true), nil)
	suite.mockRepo.On("ListMembers", suite.ctx, familyID).Return([]domain.FamilyMember{
		*member(ownerID, domain.RoleOwner, true),
		*member(editorID, domain.RoleEditor, true),
	}, nil)

	err := suite.service.RemoveMember(suite.ctx, familyID, ownerID, ownerID)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FamilyServiceTestSuite) TestUpdateMember_DemoteOwnerWhenAnotherExists() {
	suite.mockRepo.On("FindMember", suite.ctx, familyID, ownerID).Return(member(ownerID, domain.RoleOwner, true), nil)
	suite.mockRepo.On("FindMember", suite.ctx, familyID, approverID).Return(member(approverID, domain.RoleOwner, true), nil)
	suite.mockRepo.On("ListMembers", suite.ctx, familyID).Return([]domain.FamilyMember{
		*member(ownerID, domain.RoleOwner, true),
		*member(approverID, domain.RoleOwner, true),
	}, nil)
	suite.mockRepo.On("UpdateMember", suite.ctx, mock.MatchedBy(func(m domain.FamilyMember) bool {
		return m.UserID == approverID && m.Role == domain.RoleApprover && m.SpendingLimit != nil
	})).Return(nil).Once()

	updated, err := suite.service.UpdateMember(suite.ctx, familyID, approverID, dto.UpdateMemberRequest{
		Role:          ptr(domain.RoleApprover),
		SpendingLimit: ptr(dec("5000")),
	}, ownerID)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleApprover, updated.Role)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FamilyServiceTestSuite) TestAddMember_OnlyOwners() {
	suite.mockRepo.On("FindMember", suite.ctx, familyID, editorID).Return(member(editorID, domain.RoleEditor, true), nil)

	_, err := suite.service.AddMember(suite.ctx, familyID, dto.AddMemberRequest{
		UserID: viewerID, Name: "Bilal", Role: domain.RoleViewer,
	}, editorID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}
