package pgsql

import (
	"context"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
	"github.com/SscSPs/hifzmaal_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categorySelect = `
SELECT category_id, family_id, name, type, created_at, created_by, last_updated_at, last_updated_by
FROM categories
`

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO categories (category_id, family_id, name, type, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		m.CategoryID, m.FamilyID, m.Name, m.Type, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "category "+m.Name)
	}
	return nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	m, err := collectOne[models.Category](ctx, r.Pool, categorySelect+`WHERE category_id = $1`, categoryID)
	if err != nil {
		return nil, readError(err, "category "+categoryID)
	}
	c := mapping.ToDomainCategory(*m)
	return &c, nil
}

// ListCategories lists a family's categories, optionally of one type only.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context, familyID string, txType *domain.TransactionType) ([]domain.Category, error) {
	var typeFilter *string
	if txType != nil {
		s := string(*txType)
		typeFilter = &s
	}
	ms, err := collectModels[models.Category](ctx, r.Pool, categorySelect+`
		WHERE family_id = $1 AND ($2::text IS NULL OR type = $2)
		ORDER BY type, name`, familyID, typeFilter)
	if err != nil {
		return nil, readError(err, "categories of family "+familyID)
	}
	return mapping.ToDomainCategorySlice(ms), nil
}

func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM categories WHERE category_id = $1;`, categoryID)
	if err != nil {
		return translateWriteError(err, "category "+categoryID)
	}
	return expectOneRow(tag, "category "+categoryID)
}
