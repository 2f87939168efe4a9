package dto

import "github.com/SscSPs/hifzmaal_backend/internal/core/domain"

// CreateCategoryRequest defines data for creating a category.
type CreateCategoryRequest struct {
	Name string                 `json:"name" binding:"required,max=100"`
	Type domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
}

// CategoryResponse defines data returned for a category.
type CategoryResponse struct {
	CategoryID string                 `json:"category_id"`
	Name       string                 `json:"name"`
	Type       domain.TransactionType `json:"type"`
}

// ToCategoryResponses converts categories to DTO.
func ToCategoryResponses(cs []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(cs))
	for i, c := range cs {
		out[i] = CategoryResponse{CategoryID: c.CategoryID, Name: c.Name, Type: c.Type}
	}
	return out
}
