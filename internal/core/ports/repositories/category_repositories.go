package repositories

import (
	"context"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
)

// CategoryRepositoryFacade defines persistence operations for categories.
type CategoryRepositoryFacade interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, familyID string, txType *domain.TransactionType) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
}
