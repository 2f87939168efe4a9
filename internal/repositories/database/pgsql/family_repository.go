package pgsql

import (
	"context"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
	"github.com/SscSPs/hifzmaal_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFamilyRepository struct {
	BaseRepository
}

// newPgxFamilyRepository creates a new repository for family data.
func newPgxFamilyRepository(pool *pgxpool.Pool) portsrepo.FamilyRepositoryFacade {
	return &PgxFamilyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FamilyRepositoryFacade = (*PgxFamilyRepository)(nil)

const familySelect = `
SELECT f.family_id, f.name, f.currency_code,
	f.created_at, f.created_by, f.last_updated_at, f.last_updated_by
FROM families f
`

const memberSelect = `
SELECT m.family_id, m.user_id, m.name, m.role, m.spending_limit, m.is_active, m.joined_at
FROM family_members m
`

// SaveFamily inserts the family and its owner membership atomically.
func (r *PgxFamilyRepository) SaveFamily(ctx context.Context, family domain.Family, owner domain.FamilyMember) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	m := mapping.ToModelFamily(family)
	_, err = tx.Exec(ctx, `
		INSERT INTO families (family_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		m.FamilyID, m.Name, m.CurrencyCode, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "family "+m.FamilyID)
	}
	if err := r.insertMember(ctx, tx, owner); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxFamilyRepository) insertMember(ctx context.Context, q querier, member domain.FamilyMember) error {
	m := mapping.ToModelFamilyMember(member)
	_, err := q.Exec(ctx, `
		INSERT INTO family_members (family_id, user_id, name, role, spending_limit, is_active, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		m.FamilyID, m.UserID, m.Name, m.Role, m.SpendingLimit, m.IsActive, m.JoinedAt,
	)
	if err != nil {
		return translateWriteError(err, "member "+m.UserID+" of family "+m.FamilyID)
	}
	return nil
}

func (r *PgxFamilyRepository) UpdateFamily(ctx context.Context, family domain.Family) error {
	m := mapping.ToModelFamily(family)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE families SET name = $2, currency_code = $3, last_updated_at = $4, last_updated_by = $5
		WHERE family_id = $1;`,
		m.FamilyID, m.Name, m.CurrencyCode, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "family "+m.FamilyID)
	}
	return expectOneRow(tag, "family "+m.FamilyID)
}

func (r *PgxFamilyRepository) FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error) {
	m, err := collectOne[models.Family](ctx, r.Pool, familySelect+`WHERE f.family_id = $1`, familyID)
	if err != nil {
		return nil, readError(err, "family "+familyID)
	}
	f := mapping.ToDomainFamily(*m)
	return &f, nil
}

func (r *PgxFamilyRepository) ListFamiliesByUserID(ctx context.Context, userID string) ([]domain.Family, error) {
	ms, err := collectModels[models.Family](ctx, r.Pool, familySelect+`
		JOIN family_members m ON m.family_id = f.family_id
		WHERE m.user_id = $1 AND m.is_active = TRUE
		ORDER BY f.name`, userID)
	if err != nil {
		return nil, readError(err, "families of user "+userID)
	}
	return mapping.ToDomainFamilySlice(ms), nil
}

func (r *PgxFamilyRepository) AddMember(ctx context.Context, member domain.FamilyMember) error {
	return r.insertMember(ctx, r.Pool, member)
}

func (r *PgxFamilyRepository) FindMember(ctx context.Context, familyID, userID string) (*domain.FamilyMember, error) {
	m, err := collectOne[models.FamilyMember](ctx, r.Pool, memberSelect+`WHERE m.family_id = $1 AND m.user_id = $2`, familyID, userID)
	if err != nil {
		return nil, readError(err, "member "+userID+" of family "+familyID)
	}
	member := mapping.ToDomainFamilyMember(*m)
	return &member, nil
}

func (r *PgxFamilyRepository) ListMembers(ctx context.Context, familyID string) ([]domain.FamilyMember, error) {
	ms, err := collectModels[models.FamilyMember](ctx, r.Pool, memberSelect+`WHERE m.family_id = $1 ORDER BY m.joined_at`, familyID)
	if err != nil {
		return nil, readError(err, "members of family "+familyID)
	}
	return mapping.ToDomainFamilyMemberSlice(ms), nil
}

func (r *PgxFamilyRepository) UpdateMember(ctx context.Context, member domain.FamilyMember) error {
	m := mapping.ToModelFamilyMember(member)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE family_members SET role = $3, spending_limit = $4, is_active = $5
		WHERE family_id = $1 AND user_id = $2;`,
		m.FamilyID, m.UserID, m.Role, m.SpendingLimit, m.IsActive,
	)
	if err != nil {
		return translateWriteError(err, "member "+m.UserID)
	}
	return expectOneRow(tag, "member "+m.UserID+" of family "+m.FamilyID)
}

func (r *PgxFamilyRepository) RemoveMember(ctx context.Context, familyID, userID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM family_members WHERE family_id = $1 AND user_id = $2;`, familyID, userID)
	if err != nil {
		return translateWriteError(err, "member "+userID)
	}
	return expectOneRow(tag, "member "+userID+" of family "+familyID)
}
