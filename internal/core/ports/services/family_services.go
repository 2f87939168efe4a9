package services

import (
	"context"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
)

// FamilyReaderSvc defines read operations for family data
type FamilyReaderSvc interface {
	// GetFamily retrieves a family the acting user belongs to.
	GetFamily(ctx context.Context, familyID, userID string) (*domain.Family, error)

	// ListUserFamilies retrieves the families a user is an active member of.
	ListUserFamilies(ctx context.Context, userID string) ([]domain.Family, error)

	// ListMembers retrieves all members of a family. Any member may list them.
	ListMembers(ctx context.Context, familyID, userID string) ([]domain.FamilyMember, error)
}

// FamilyWriterSvc defines write operations for family data
type FamilyWriterSvc interface {
	// CreateFamily persists a new family with the creator as owner.
	CreateFamily(ctx context.Context, req dto.CreateFamilyRequest, creatorUserID string) (*domain.Family, error)

	// UpdateFamily changes name or currency. Owner only.
	UpdateFamily(ctx context.Context, familyID string, req dto.UpdateFamilyRequest, userID string) (*domain.Family, error)
}

// FamilyMembershipSvc defines operations for managing family membership.
// Only owners may change membership.
type FamilyMembershipSvc interface {
	AddMember(ctx context.Context, familyID string, req dto.AddMemberRequest, requestingUserID string) (*domain.FamilyMember, error)
	UpdateMember(ctx context.Context, familyID, targetUserID string, req dto.UpdateMemberRequest, requestingUserID string) (*domain.FamilyMember, error)
	RemoveMember(ctx context.Context, familyID, targetUserID, requestingUserID string) error
}

// FamilyAuthorizerSvc defines operations for family authorization
type FamilyAuthorizerSvc interface {
	// AuthorizeMember returns the acting user's membership when it grants perm.
	// A user without membership gets apperrors.ErrUnauthorizedFamilyAccess; a member whose
	// role lacks perm gets apperrors.ErrForbidden.
	AuthorizeMember(ctx context.Context, userID, familyID string, perm domain.FamilyPermission) (*domain.FamilyMember, error)
}

// FamilySvcFacade combines all family-related service interfaces
type FamilySvcFacade interface {
	FamilyReaderSvc
	FamilyWriterSvc
	FamilyMembershipSvc
	FamilyAuthorizerSvc
}
