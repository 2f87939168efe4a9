package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates the category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade, options ...ServiceOption) portssvc.CategorySvc {
	return &categoryService{BaseService: newBase(options), categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvc = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, familyID string, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	if req.Type != domain.TransactionTypeIncome && req.Type != domain.TransactionTypeExpense {
		return nil, fmt.Errorf("%w: category type must be income or expense", apperrors.ErrValidation)
	}
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		FamilyID:    familyID,
		Name:        req.Name,
		Type:        req.Type,
		AuditFields: auditFields(userID, s.Now()),
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("family_id", familyID))
		return nil, err
	}
	return &category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, familyID string, txType *domain.TransactionType, userID string) ([]domain.Category, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListCategories(ctx, familyID, txType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("family_id", familyID))
		return nil, err
	}
	return categories, nil
}

// DeleteCategory removes an unused category. Categories still referenced are refused by the database.
func (s *categoryService) DeleteCategory(ctx context.Context, familyID, categoryID, userID string) error {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return err
	}
	if _, err := findFamilyCategory(ctx, s.categoryRepo, familyID, categoryID); err != nil {
		return err
	}
	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}
	return nil
}

// findFamilyCategory loads a category and hides categories of other families.
func findFamilyCategory(ctx context.Context, repo portsrepo.CategoryRepositoryFacade, familyID, categoryID string) (*domain.Category, error) {
	category, err := repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.FamilyID != familyID {
		return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
	}
	return category, nil
}
