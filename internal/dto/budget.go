package dto

import (
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines data for creating a budget.
type CreateBudgetRequest struct {
	CategoryID     string              `json:"category_id" binding:"required"`
	Name           string              `json:"name" binding:"required,max=255"`
	Amount         decimal.Decimal     `json:"amount" binding:"money"`
	Period         domain.BudgetPeriod `json:"period" binding:"required,oneof=weekly monthly yearly custom"`
	StartDate      string              `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate        string              `json:"end_date" binding:"required,datetime=2006-01-02"`
	AlertThreshold *int                `json:"alert_threshold" binding:"omitempty,min=1,max=100"`
}

// UpdateBudgetRequest defines the budget fields that may change.
type UpdateBudgetRequest struct {
	Name           *string          `json:"name" binding:"omitempty,max=255"`
	Amount         *decimal.Decimal `json:"amount" binding:"omitempty,money"`
	EndDate        *string          `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	AlertThreshold *int             `json:"alert_threshold" binding:"omitempty,min=1,max=100"`
	IsActive       *bool            `json:"is_active"`
}

// ListBudgetsParams filters budgets.
type ListBudgetsParams struct {
	ActiveOnly bool `form:"active_only"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID       string              `json:"budget_id"`
	CategoryID     string              `json:"category_id"`
	Name           string              `json:"name"`
	Amount         decimal.Decimal     `json:"amount"`
	Period         domain.BudgetPeriod `json:"period"`
	StartDate      string              `json:"start_date"`
	EndDate        string              `json:"end_date"`
	AlertThreshold int                 `json:"alert_threshold"`
	IsActive       bool                `json:"is_active"`
}

// ToBudgetResponse converts a budget to DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:       b.BudgetID,
		CategoryID:     b.CategoryID,
		Name:           b.Name,
		Amount:         b.Amount,
		Period:         b.Period,
		StartDate:      FormatDate(b.StartDate),
		EndDate:        FormatDate(b.EndDate),
		AlertThreshold: b.AlertThreshold,
		IsActive:       b.IsActive,
	}
}

// ListBudgetsResponse wraps budgets.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// ToListBudgetsResponse converts budgets to DTO.
func ToListBudgetsResponse(bs []domain.Budget) ListBudgetsResponse {
	resp := ListBudgetsResponse{Budgets: make([]BudgetResponse, len(bs))}
	for i := range bs {
		resp.Budgets[i] = ToBudgetResponse(&bs[i])
	}
	return resp
}

// BudgetUsageResponse is the spending position of a budget.
type BudgetUsageResponse struct {
	Budget      BudgetResponse  `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed decimal.Decimal `json:"percent_used"`
	ShouldAlert bool            `json:"should_alert"`
}

// ToBudgetUsageResponse converts usage to DTO.
func ToBudgetUsageResponse(u *domain.BudgetUsage) BudgetUsageResponse {
	return BudgetUsageResponse{
		Budget:      ToBudgetResponse(&u.Budget),
		Spent:       u.Spent,
		Remaining:   u.Remaining,
		PercentUsed: u.PercentUsed,
		ShouldAlert: u.ShouldAlert,
	}
}
