package repositories

import (
	"context"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
)

// FamilyReader defines read operations for family data
type FamilyReader interface {
	// FindFamilyByID retrieves a specific family by its ID.
	FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error)

	// ListFamiliesByUserID retrieves all families a user is an active member of.
	ListFamiliesByUserID(ctx context.Context, userID string) ([]domain.Family, error)
}

// FamilyWriter defines write operations for family data
type FamilyWriter interface {
	// SaveFamily persists a new family together with its owner membership.
	SaveFamily(ctx context.Context, family domain.Family, owner domain.FamilyMember) error

	// UpdateFamily updates the name and currency of a family.
	UpdateFamily(ctx context.Context, family domain.Family) error
}

// FamilyMembershipManager defines operations for managing family memberships
type FamilyMembershipManager interface {
	// AddMember adds a user to a family.
	AddMember(ctx context.Context, member domain.FamilyMember) error

	// FindMember retrieves the membership of a user in a family.
	FindMember(ctx context.Context, familyID, userID string) (*domain.FamilyMember, error)

	// ListMembers retrieves all members of a family.
	ListMembers(ctx context.Context, familyID string) ([]domain.FamilyMember, error)

	// UpdateMember changes the role, spending limit or active flag of a member.
	UpdateMember(ctx context.Context, member domain.FamilyMember) error

	// RemoveMember deletes a membership.
	RemoveMember(ctx context.Context, familyID, userID string) error
}

// FamilyRepositoryFacade combines all family-related repository interfaces
type FamilyRepositoryFacade interface {
	FamilyReader
	FamilyWriter
	FamilyMembershipManager
}
