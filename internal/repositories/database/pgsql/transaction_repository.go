package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
	"github.com/SscSPs/hifzmaal_backend/internal/utils/mapping"
	"github.com/SscSPs/hifzmaal_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	defaultTransactionPageSize = 50
	maxTransactionPageSize     = 200
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

const transactionSelect = `
SELECT transaction_id, family_id, account_id, category_id, type, amount, date, description, notes,
	status, needs_approval, approved_by, approved_at, transfer_to_account_id,
	is_recurring, recurring_frequency, recurring_end_date, parent_transaction_id,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at
FROM transactions
`

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, r.Pool, transactionSelect+`WHERE transaction_id = $1 AND deleted_at IS NULL`, transactionID)
}

func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, tx, transactionSelect+`WHERE transaction_id = $1 AND deleted_at IS NULL FOR UPDATE`, transactionID)
}

func (r *PgxTransactionRepository) findTransaction(ctx context.Context, q querier, query, id string) (*domain.Transaction, error) {
	m, err := collectOne[models.Transaction](ctx, q, query, id)
	if err != nil {
		return nil, readError(err, "transaction "+id)
	}
	t := mapping.ToDomainTransaction(*m)
	return &t, nil
}

// ListTransactions pages through a family's transactions newest first using a keyset cursor.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, familyID string, filter domain.TransactionFilter, limit int, nextToken string) ([]domain.Transaction, string, error) {
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}
	if limit > maxTransactionPageSize {
		limit = maxTransactionPageSize
	}

	where := []string{"family_id = $1", "deleted_at IS NULL"}
	args := []any{familyID}
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Type != nil {
		add("type = $%d", string(*filter.Type))
	}
	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		n := len(args)
		where = append(where, fmt.Sprintf("(account_id = $%d OR transfer_to_account_id = $%d)", n, n))
	}
	if filter.CategoryID != nil {
		add("category_id = $%d", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("date <= $%d", *filter.EndDate)
	}
	if nextToken != "" {
		cursor, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
		n := len(args)
		where = append(where, fmt.Sprintf("(date, created_at, transaction_id) < ($%d, $%d, $%d)", n-2, n-1, n))
	}

	// One extra row tells whether another page exists.
	args = append(args, limit+1)
	query := transactionSelect + "WHERE " + strings.Join(where, " AND ") +
		fmt.Sprintf(" ORDER BY date DESC, created_at DESC, transaction_id DESC LIMIT $%d", len(args))

	ms, err := collectModels[models.Transaction](ctx, r.Pool, query, args...)
	if err != nil {
		return nil, "", readError(err, "transactions of family "+familyID)
	}

	next := ""
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		next = pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
	}
	return mapping.ToDomainTransactionSlice(ms), next, nil
}

func (r *PgxTransactionRepository) SumApprovedExpenses(ctx context.Context, familyID, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE family_id = $1 AND category_id = $2 AND type = 'expense' AND status = 'approved'
			AND deleted_at IS NULL AND date BETWEEN $3 AND $4;`,
		familyID, categoryID, start, end,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, readError(err, "expense total of category "+categoryID)
	}
	return total, nil
}

// ListRecurringRoots returns approved recurring templates of every family, oldest first.
func (r *PgxTransactionRepository) ListRecurringRoots(ctx context.Context) ([]domain.Transaction, error) {
	ms, err := collectModels[models.Transaction](ctx, r.Pool, transactionSelect+`
		WHERE is_recurring = TRUE AND parent_transaction_id IS NULL AND status = 'approved' AND deleted_at IS NULL
		ORDER BY date, transaction_id`)
	if err != nil {
		return nil, readError(err, "recurring transactions")
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (transaction_id, family_id, account_id, category_id, type, amount, date, description, notes,
			status, needs_approval, approved_by, approved_at, transfer_to_account_id,
			is_recurring, recurring_frequency, recurring_end_date, parent_transaction_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`,
		m.TransactionID, m.FamilyID, m.AccountID, m.CategoryID, m.Type, m.Amount, m.Date, m.Description, m.Notes,
		m.Status, m.NeedsApproval, m.ApprovedBy, m.ApprovedAt, m.TransferToAccountID,
		m.IsRecurring, m.RecurringFrequency, m.RecurringEndDate, m.ParentTransactionID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "transaction "+m.TransactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET account_id = $2, category_id = $3, type = $4, amount = $5, date = $6, description = $7, notes = $8,
			status = $9, needs_approval = $10, approved_by = $11, approved_at = $12, transfer_to_account_id = $13,
			is_recurring = $14, recurring_frequency = $15, recurring_end_date = $16,
			last_updated_at = $17, last_updated_by = $18
		WHERE transaction_id = $1 AND deleted_at IS NULL;`,
		m.TransactionID, m.AccountID, m.CategoryID, m.Type, m.Amount, m.Date, m.Description, m.Notes,
		m.Status, m.NeedsApproval, m.ApprovedBy, m.ApprovedAt, m.TransferToAccountID,
		m.IsRecurring, m.RecurringFrequency, m.RecurringEndDate,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "transaction "+m.TransactionID)
	}
	return expectOneRow(tag, "transaction "+m.TransactionID)
}

func (r *PgxTransactionRepository) SoftDeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string, userID string, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE transactions SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1 AND deleted_at IS NULL;`, transactionID, now, userID)
	if err != nil {
		return translateWriteError(err, "transaction "+transactionID)
	}
	return expectOneRow(tag, "transaction "+transactionID)
}

// LatestOccurrenceDate counts deleted children too, so a removed occurrence is not regenerated.
func (r *PgxTransactionRepository) LatestOccurrenceDate(ctx context.Context, tx pgx.Tx, parentID string) (*time.Time, error) {
	var latest *time.Time
	err := tx.QueryRow(ctx, `
		SELECT MAX(date) FROM transactions
		WHERE parent_transaction_id = $1;`, parentID).Scan(&latest)
	if err != nil {
		return nil, readError(err, "occurrences of "+parentID)
	}
	return latest, nil
}

func (r *PgxTransactionRepository) OccurrenceExists(ctx context.Context, tx pgx.Tx, parentID string, date time.Time) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM transactions WHERE parent_transaction_id = $1 AND date = $2);`,
		parentID, date).Scan(&exists)
	if err != nil {
		return false, readError(err, "occurrence of "+parentID)
	}
	return exists, nil
}
