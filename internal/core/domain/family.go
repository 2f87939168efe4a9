package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Family is the tenant every account, transaction and zakat record belongs to.
type Family struct {
	FamilyID     string `json:"family_id"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currency"`
	AuditFields
}

// FamilyRole defines the role a user holds within a family.
type FamilyRole string

const (
	RoleOwner    FamilyRole = "owner"
	RoleEditor   FamilyRole = "editor"
	RoleViewer   FamilyRole = "viewer"
	RoleApprover FamilyRole = "approver"
)

// FamilyPermission is the capability an operation requires.
type FamilyPermission string

const (
	PermissionView    FamilyPermission = "view"
	PermissionEdit    FamilyPermission = "edit"
	PermissionApprove FamilyPermission = "approve"
	PermissionManage  FamilyPermission = "manage"
)

// FamilyMember is the membership of a user in a family.
type FamilyMember struct {
	FamilyID      string           `json:"family_id"`
	UserID        string           `json:"user_id"`
	Name          string           `json:"name"`
	Role          FamilyRole       `json:"role"`
	SpendingLimit *decimal.Decimal `json:"spending_limit,omitempty"`
	IsActive      bool             `json:"is_active"`
	JoinedAt      time.Time        `json:"joined_at"`
}

// IsOwner reports whether the member owns the family.
func (m FamilyMember) IsOwner() bool {
	return m.Role == RoleOwner
}

// CanApprove reports whether the member may approve or reject pending transactions.
func (m FamilyMember) CanApprove() bool {
	return m.Role == RoleOwner || m.Role == RoleApprover
}

// CanEdit reports whether the member may create and change records.
func (m FamilyMember) CanEdit() bool {
	return m.Role == RoleOwner || m.Role == RoleEditor || m.Role == RoleApprover
}

// Has reports whether the member's role grants perm.
func (m FamilyMember) Has(perm FamilyPermission) bool {
	if !m.IsActive {
		return false
	}
	switch perm {
	case PermissionView:
		return true
	case PermissionEdit:
		return m.CanEdit()
	case PermissionApprove:
		return m.CanApprove()
	case PermissionManage:
		return m.IsOwner()
	}
	return false
}

// RequiresApproval reports whether an expense of amount made by this member must
// wait for approval. Owners and members without a positive limit never need it.
func (m FamilyMember) RequiresApproval(txType TransactionType, amount decimal.Decimal) bool {
	if m.IsOwner() || txType != TransactionTypeExpense {
		return false
	}
	if m.SpendingLimit == nil || !m.SpendingLimit.IsPositive() {
		return false
	}
	return amount.GreaterThan(*m.SpendingLimit)
}

// IsValidRole reports whether r is a known family role.
func IsValidRole(r FamilyRole) bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer, RoleApprover:
		return true
	}
	return false
}

// Category groups transactions and budgets within a family.
type Category struct {
	CategoryID string          `json:"category_id"`
	FamilyID   string          `json:"family_id"`
	Name       string          `json:"name"`
	Type       TransactionType `json:"type"`
	AuditFields
}
