package dto

import (
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Family DTOs ---

// CreateFamilyRequest defines data for creating a new family.
type CreateFamilyRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	CurrencyCode string `json:"currency" binding:"omitempty,oneof=PKR USD EUR GBP SAR AED INR BDT"`
	// OwnerName is the display name of the creating member.
	OwnerName string `json:"owner_name" binding:"max=255"`
}

// UpdateFamilyRequest defines the fields of a family that may change.
type UpdateFamilyRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=255"`
	CurrencyCode *string `json:"currency" binding:"omitempty,oneof=PKR USD EUR GBP SAR AED INR BDT"`
}

// FamilyResponse defines data returned for a family.
type FamilyResponse struct {
	FamilyID      string    `json:"family_id"`
	Name          string    `json:"name"`
	CurrencyCode  string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
	LastUpdatedBy string    `json:"last_updated_by"`
}

// ToFamilyResponse converts domain.Family to DTO.
func ToFamilyResponse(f *domain.Family) FamilyResponse {
	return FamilyResponse{
		FamilyID:      f.FamilyID,
		Name:          f.Name,
		CurrencyCode:  f.CurrencyCode,
		CreatedAt:     f.CreatedAt,
		CreatedBy:     f.CreatedBy,
		LastUpdatedAt: f.LastUpdatedAt,
		LastUpdatedBy: f.LastUpdatedBy,
	}
}

// ListFamiliesResponse wraps a list of families.
type ListFamiliesResponse struct {
	Families []FamilyResponse `json:"families"`
}

// ToListFamiliesResponse converts a slice of domain.Family to DTO.
func ToListFamiliesResponse(fs []domain.Family) ListFamiliesResponse {
	resp := ListFamiliesResponse{Families: make([]FamilyResponse, len(fs))}
	for i := range fs {
		resp.Families[i] = ToFamilyResponse(&fs[i])
	}
	return resp
}

// AddMemberRequest defines data for adding a user to a family.
type AddMemberRequest struct {
	UserID        string           `json:"user_id" binding:"required"`
	Name          string           `json:"name" binding:"required,max=255"`
	Role          domain.FamilyRole `json:"role" binding:"required,oneof=owner editor viewer approver"`
	SpendingLimit *decimal.Decimal `json:"spending_limit"`
}

// UpdateMemberRequest defines the member fields an owner may change.
type UpdateMemberRequest struct {
	Role          *domain.FamilyRole `json:"role" binding:"omitempty,oneof=owner editor viewer approver"`
	SpendingLimit *decimal.Decimal   `json:"spending_limit"`
	// ClearSpendingLimit removes the limit so the member never needs approval.
	ClearSpendingLimit bool  `json:"clear_spending_limit"`
	IsActive           *bool `json:"is_active"`
}

// MemberResponse defines data returned for a family member.
type MemberResponse struct {
	UserID        string            `json:"user_id"`
	Name          string            `json:"name"`
	Role          domain.FamilyRole `json:"role"`
	SpendingLimit *decimal.Decimal  `json:"spending_limit,omitempty"`
	IsActive      bool              `json:"is_active"`
	JoinedAt      time.Time         `json:"joined_at"`
}

// ToMemberResponse converts domain.FamilyMember to DTO.
func ToMemberResponse(m *domain.FamilyMember) MemberResponse {
	return MemberResponse{
		UserID:        m.UserID,
		Name:          m.Name,
		Role:          m.Role,
		SpendingLimit: m.SpendingLimit,
		IsActive:      m.IsActive,
		JoinedAt:      m.JoinedAt,
	}
}

// ListMembersResponse wraps a list of members.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// ToListMembersResponse converts members to DTO.
func ToListMembersResponse(ms []domain.FamilyMember) ListMembersResponse {
	resp := ListMembersResponse{Members: make([]MemberResponse, len(ms))}
	for i := range ms {
		resp.Members[i] = ToMemberResponse(&ms[i])
	}
	return resp
}
