package dto

import (
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecipientRequest defines data for registering a zakat recipient.
type CreateRecipientRequest struct {
	Name     string                   `json:"name" binding:"required,max=255"`
	Category domain.RecipientCategory `json:"category" binding:"required,oneof=fuqara masakin amilin muallaf riqab gharimin fisabilillah ibnus_sabil"`
	Phone    string                   `json:"phone" binding:"max=20"`
	Address  string                   `json:"address"`
	Notes    string                   `json:"notes"`
}

// UpdateRecipientRequest defines the recipient fields that may change.
type UpdateRecipientRequest struct {
	Name     *string                   `json:"name" binding:"omitempty,max=255"`
	Category *domain.RecipientCategory `json:"category" binding:"omitempty,oneof=fuqara masakin amilin muallaf riqab gharimin fisabilillah ibnus_sabil"`
	Phone    *string                   `json:"phone" binding:"omitempty,max=20"`
	Address  *string                   `json:"address"`
	Notes    *string                   `json:"notes"`
	IsActive *bool                     `json:"is_active"`
}

// ListRecipientsParams filters recipients by category.
type ListRecipientsParams struct {
	Category string `form:"category" binding:"omitempty,oneof=fuqara masakin amilin muallaf riqab gharimin fisabilillah ibnus_sabil"`
}

// RecipientResponse defines data returned for a recipient.
type RecipientResponse struct {
	RecipientID   string                   `json:"recipient_id"`
	Name          string                   `json:"name"`
	Category      domain.RecipientCategory `json:"category"`
	Phone         string                   `json:"phone"`
	Address       string                   `json:"address"`
	Notes         string                   `json:"notes"`
	IsActive      bool                     `json:"is_active"`
	TotalReceived decimal.Decimal          `json:"total_received"`
}

// ToRecipientResponse converts a recipient to DTO.
func ToRecipientResponse(r *domain.ZakatRecipient) RecipientResponse {
	return RecipientResponse{
		RecipientID:   r.RecipientID,
		Name:          r.Name,
		Category:      r.Category,
		Phone:         r.Phone,
		Address:       r.Address,
		Notes:         r.Notes,
		IsActive:      r.IsActive,
		TotalReceived: r.TotalReceived,
	}
}

// ListRecipientsResponse wraps recipients.
type ListRecipientsResponse struct {
	Recipients []RecipientResponse `json:"recipients"`
}

// ToListRecipientsResponse converts recipients to DTO.
func ToListRecipientsResponse(rs []domain.ZakatRecipient) ListRecipientsResponse {
	resp := ListRecipientsResponse{Recipients: make([]RecipientResponse, len(rs))}
	for i := range rs {
		resp.Recipients[i] = ToRecipientResponse(&rs[i])
	}
	return resp
}
