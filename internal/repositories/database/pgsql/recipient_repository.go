package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
	"github.com/SscSPs/hifzmaal_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxRecipientRepository struct {
	BaseRepository
}

func newPgxRecipientRepository(pool *pgxpool.Pool) portsrepo.RecipientRepositoryFacade {
	return &PgxRecipientRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecipientRepositoryFacade = (*PgxRecipientRepository)(nil)

const recipientSelect = `
SELECT recipient_id, family_id, name, category, phone, address, notes, is_active, total_received,
	created_at, created_by, last_updated_at, last_updated_by
FROM zakat_recipients
`

func (r *PgxRecipientRepository) SaveRecipient(ctx context.Context, recipient domain.ZakatRecipient) error {
	m := mapping.ToModelZakatRecipient(recipient)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO zakat_recipients (recipient_id, family_id, name, category, phone, address, notes, is_active,
			total_received, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`,
		m.RecipientID, m.FamilyID, m.Name, m.Category, m.Phone, m.Address, m.Notes, m.IsActive,
		m.TotalReceived, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "zakat recipient "+m.Name)
	}
	return nil
}

func (r *PgxRecipientRepository) FindRecipientByID(ctx context.Context, recipientID string) (*domain.ZakatRecipient, error) {
	m, err := collectOne[models.ZakatRecipient](ctx, r.Pool, recipientSelect+`WHERE recipient_id = $1`, recipientID)
	if err != nil {
		return nil, readError(err, "zakat recipient "+recipientID)
	}
	rec := mapping.ToDomainZakatRecipient(*m)
	return &rec, nil
}

func (r *PgxRecipientRepository) ListRecipients(ctx context.Context, familyID string, category *domain.RecipientCategory) ([]domain.ZakatRecipient, error) {
	var categoryFilter *string
	if category != nil {
		s := string(*category)
		categoryFilter = &s
	}
	ms, err := collectModels[models.ZakatRecipient](ctx, r.Pool, recipientSelect+`
		WHERE family_id = $1 AND ($2::text IS NULL OR category = $2)
		ORDER BY name`, familyID, categoryFilter)
	if err != nil {
		return nil, readError(err, "zakat recipients of family "+familyID)
	}
	return mapping.ToDomainZakatRecipientSlice(ms), nil
}

// UpdateRecipient rewrites the descriptive fields. total_received only moves through payments.
func (r *PgxRecipientRepository) UpdateRecipient(ctx context.Context, recipient domain.ZakatRecipient) error {
	m := mapping.ToModelZakatRecipient(recipient)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE zakat_recipients
		SET name = $2, category = $3, phone = $4, address = $5, notes = $6, is_active = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE recipient_id = $1;`,
		m.RecipientID, m.Name, m.Category, m.Phone, m.Address, m.Notes, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "zakat recipient "+m.RecipientID)
	}
	return expectOneRow(tag, "zakat recipient "+m.RecipientID)
}

func (r *PgxRecipientRepository) DeleteRecipient(ctx context.Context, recipientID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM zakat_recipients WHERE recipient_id = $1;`, recipientID)
	if err != nil {
		return translateWriteError(err, "zakat recipient "+recipientID)
	}
	return expectOneRow(tag, "zakat recipient "+recipientID)
}

func (r *PgxRecipientRepository) IncrementTotalReceivedInTx(ctx context.Context, tx pgx.Tx, recipientID string, amount decimal.Decimal, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE zakat_recipients SET total_received = total_received + $2, last_updated_at = $3
		WHERE recipient_id = $1;`, recipientID, amount, now)
	if err != nil {
		return translateWriteError(err, "zakat recipient "+recipientID)
	}
	return expectOneRow(tag, "zakat recipient "+recipientID)
}
