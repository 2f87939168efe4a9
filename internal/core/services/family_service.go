package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/google/uuid"
)

// familyService implements the FamilySvcFacade interface
type familyService struct {
	BaseService
	familyRepo portsrepo.FamilyRepositoryFacade
}

// NewFamilyService creates a new family service. It authorizes its own calls.
func NewFamilyService(familyRepo portsrepo.FamilyRepositoryFacade, options ...ServiceOption) portssvc.FamilySvcFacade {
	svc := &familyService{
		BaseService: newBase(options),
		familyRepo:  familyRepo,
	}
	svc.FamilyAuthorizer = svc
	return svc
}

// Ensure familyService implements the FamilySvcFacade interface
var _ portssvc.FamilySvcFacade = (*familyService)(nil)

// AuthorizeMember checks if a user holds perm in a family
func (s *familyService) AuthorizeMember(ctx context.Context, userID, familyID string, perm domain.FamilyPermission) (*domain.FamilyMember, error) {
	member, err := s.familyRepo.FindMember(ctx, familyID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user is not a member of this family", apperrors.ErrUnauthorizedFamilyAccess)
		}
		s.LogError(ctx, err, "Failed to find family membership",
			slog.String("user_id", userID),
			slog.String("family_id", familyID))
		return nil, err
	}
	if !member.IsActive {
		return nil, fmt.Errorf("%w: membership is inactive", apperrors.ErrUnauthorizedFamilyAccess)
	}
	if !member.Has(perm) {
		return nil, fmt.Errorf("%w: role %s cannot %s", apperrors.ErrForbidden, member.Role, perm)
	}
	return member, nil
}

// GetFamily retrieves a family the user belongs to
func (s *familyService) GetFamily(ctx context.Context, familyID, userID string) (*domain.Family, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	family, err := s.familyRepo.FindFamilyByID(ctx, familyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find family by ID", slog.String("family_id", familyID))
		}
		return nil, err
	}
	return family, nil
}

// ListUserFamilies retrieves all families a user belongs to
func (s *familyService) ListUserFamilies(ctx context.Context, userID string) ([]domain.Family, error) {
	families, err := s.familyRepo.ListFamiliesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list families for user", slog.String("user_id", userID))
		return nil, err
	}
	if families == nil {
		return []domain.Family{}, nil
	}
	s.LogDebug(ctx, "Families listed successfully",
		slog.Int("count", len(families)),
		slog.String("user_id", userID))
	return families, nil
}

func (s *familyService) ListMembers(ctx context.Context, familyID, userID string) ([]domain.FamilyMember, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	members, err := s.familyRepo.ListMembers(ctx, familyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list family members", slog.String("family_id", familyID))
		return nil, err
	}
	return members, nil
}

// CreateFamily creates a new family with the creator as its owner
func (s *familyService) CreateFamily(ctx context.Context, req dto.CreateFamilyRequest, creatorUserID string) (*domain.Family, error) {
	currency := strings.ToUpper(req.CurrencyCode)
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	if !domain.IsSupportedCurrency(currency) {
		return nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, currency)
	}

	now := s.Now()
	family := domain.Family{
		FamilyID:     uuid.NewString(),
		Name:         req.Name,
		CurrencyCode: currency,
		AuditFields:  auditFields(creatorUserID, now),
	}
	ownerName := req.OwnerName
	if ownerName == "" {
		ownerName = creatorUserID
	}
	owner := domain.FamilyMember{
		FamilyID: family.FamilyID,
		UserID:   creatorUserID,
		Name:     ownerName,
		Role:     domain.RoleOwner,
		IsActive: true,
		JoinedAt: now,
	}

	if err := s.familyRepo.SaveFamily(ctx, family, owner); err != nil {
		s.LogError(ctx, err, "Failed to save family", slog.String("family_id", family.FamilyID))
		return nil, err
	}

	s.LogInfo(ctx, "Family created successfully",
		slog.String("family_id", family.FamilyID),
		slog.String("creator_id", creatorUserID))
	return &family, nil
}

func (s *familyService) UpdateFamily(ctx context.Context, familyID string, req dto.UpdateFamilyRequest, userID string) (*domain.Family, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionManage); err != nil {
		return nil, err
	}
	family, err := s.familyRepo.FindFamilyByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		family.Name = *req.Name
	}
	if req.CurrencyCode != nil {
		code := strings.ToUpper(*req.CurrencyCode)
		if !domain.IsSupportedCurrency(code) {
			return nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, code)
		}
		family.CurrencyCode = code
	}
	family.LastUpdatedAt = s.Now()
	family.LastUpdatedBy = userID

	if err := s.familyRepo.UpdateFamily(ctx, *family); err != nil {
		s.LogError(ctx, err, "Failed to update family", slog.String("family_id", familyID))
		return nil, err
	}
	return family, nil
}

// AddMember adds a user to a family. Only owners may add members.
func (s *familyService) AddMember(ctx context.Context, familyID string, req dto.AddMemberRequest, requestingUserID string) (*domain.FamilyMember, error) {
	if _, err := s.Authorize(ctx, requestingUserID, familyID, domain.PermissionManage); err != nil {
		return nil, err
	}
	if !domain.IsValidRole(req.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}
	if req.SpendingLimit != nil && req.SpendingLimit.IsNegative() {
		return nil, fmt.Errorf("%w: spending limit must not be negative", apperrors.ErrValidation)
	}

	member := domain.FamilyMember{
		FamilyID:      familyID,
		UserID:        req.UserID,
		Name:          req.Name,
		Role:          req.Role,
		SpendingLimit: req.SpendingLimit,
		IsActive:      true,
		JoinedAt:      s.Now(),
	}
	if err := s.familyRepo.AddMember(ctx, member); err != nil {
		s.LogError(ctx, err, "Failed to add member to family",
			slog.String("target_user_id", req.UserID),
			slog.String("family_id", familyID))
		return nil, err
	}

	s.LogInfo(ctx, "Member added to family",
		slog.String("target_user_id", req.UserID),
		slog.String("family_id", familyID),
		slog.String("role", string(req.Role)))
	return &member, nil
}

// UpdateMember changes role, spending limit or active flag. The last active owner keeps ownership.
func (s *familyService) UpdateMember(ctx context.Context, familyID, targetUserID string, req dto.UpdateMemberRequest, requestingUserID string) (*domain.FamilyMember, error) {
	if _, err := s.Authorize(ctx, requestingUserID, familyID, domain.PermissionManage); err != nil {
		return nil, err
	}
	member, err := s.familyRepo.FindMember(ctx, familyID, targetUserID)
	if err != nil {
		return nil, err
	}

	wasActiveOwner := member.IsOwner() && member.IsActive
	if req.Role != nil {
		if !domain.IsValidRole(*req.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, *req.Role)
		}
		member.Role = *req.Role
	}
	if req.ClearSpendingLimit {
		member.SpendingLimit = nil
	} else if req.SpendingLimit != nil {
		if req.SpendingLimit.IsNegative() {
			return nil, fmt.Errorf("%w: spending limit must not be negative", apperrors.ErrValidation)
		}
		member.SpendingLimit = req.SpendingLimit
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}

	if wasActiveOwner && !(member.IsOwner() && member.IsActive) {
		if err := s.ensureAnotherOwner(ctx, familyID, targetUserID); err != nil {
			return nil, err
		}
	}

	if err := s.familyRepo.UpdateMember(ctx, *member); err != nil {
		s.LogError(ctx, err, "Failed to update family member",
			slog.String("target_user_id", targetUserID),
			slog.String("family_id", familyID))
		return nil, err
	}
	return member, nil
}

func (s *familyService) RemoveMember(ctx context.Context, familyID, targetUserID, requestingUserID string) error {
	if _, err := s.Authorize(ctx, requestingUserID, familyID, domain.PermissionManage); err != nil {
		return err
	}
	member, err := s.familyRepo.FindMember(ctx, familyID, targetUserID)
	if err != nil {
		return err
	}
	if member.IsOwner() && member.IsActive {
		if err := s.ensureAnotherOwner(ctx, familyID, targetUserID); err != nil {
			return err
		}
	}
	if err := s.familyRepo.RemoveMember(ctx, familyID, targetUserID); err != nil {
		s.LogError(ctx, err, "Failed to remove family member",
			slog.String("target_user_id", targetUserID),
			slog.String("family_id", familyID))
		return err
	}
	s.LogInfo(ctx, "Member removed from family",
		slog.String("target_user_id", targetUserID),
		slog.String("family_id", familyID))
	return nil
}

func (s *familyService) ensureAnotherOwner(ctx context.Context, familyID, exceptUserID string) error {
	members, err := s.familyRepo.ListMembers(ctx, familyID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.UserID != exceptUserID && m.IsOwner() && m.IsActive {
			return nil
		}
	}
	return fmt.Errorf("%w: a family must keep at least one active owner", apperrors.ErrConflict)
}
