package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	"github.com/SscSPs/hifzmaal_backend/internal/models"
	"github.com/SscSPs/hifzmaal_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountSelect = `
SELECT account_id, family_id, name, account_type, currency_code, balance, initial_balance,
	is_active, include_in_zakat, description,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at
FROM accounts
`

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO accounts (account_id, family_id, name, account_type, currency_code, balance, initial_balance,
			is_active, include_in_zakat, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		m.AccountID, m.FamilyID, m.Name, m.AccountType, m.CurrencyCode, m.Balance, m.InitialBalance,
		m.IsActive, m.IncludeInZakat, m.Description, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "account "+m.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	m, err := collectOne[models.Account](ctx, r.Pool, accountSelect+`WHERE account_id = $1 AND deleted_at IS NULL`, accountID)
	if err != nil {
		return nil, readError(err, "account "+accountID)
	}
	acc := mapping.ToDomainAccount(*m)
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are simply absent from the map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	ms, err := collectModels[models.Account](ctx, r.Pool, accountSelect+`WHERE account_id = ANY($1) AND deleted_at IS NULL`, accountIDs)
	if err != nil {
		return nil, readError(err, "accounts by ids")
	}
	return toAccountMap(ms), nil
}

// ListAccounts retrieves the accounts of a family ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, familyID string, includeInactive bool) ([]domain.Account, error) {
	ms, err := collectModels[models.Account](ctx, r.Pool, accountSelect+`
		WHERE family_id = $1 AND deleted_at IS NULL AND ($2 OR is_active = TRUE)
		ORDER BY name`, familyID, includeInactive)
	if err != nil {
		return nil, readError(err, "accounts of family "+familyID)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func (r *PgxAccountRepository) ListZakatableAccounts(ctx context.Context, familyID string) ([]domain.Account, error) {
	ms, err := collectModels[models.Account](ctx, r.Pool, accountSelect+`
		WHERE family_id = $1 AND deleted_at IS NULL AND is_active = TRUE AND include_in_zakat = TRUE
		ORDER BY name`, familyID)
	if err != nil {
		return nil, readError(err, "zakatable accounts of family "+familyID)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccount updates descriptive fields. Balance, currency and family never change here.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounts
		SET name = $2, account_type = $3, description = $4, is_active = $5, include_in_zakat = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE account_id = $1 AND deleted_at IS NULL;`,
		m.AccountID, m.Name, m.AccountType, m.Description, m.IsActive, m.IncludeInZakat, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "account "+m.AccountID)
	}
	return expectOneRow(tag, "account "+m.AccountID)
}

func (r *PgxAccountRepository) SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounts
		SET deleted_at = $2, is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND deleted_at IS NULL;`, accountID, now, userID)
	if err != nil {
		return translateWriteError(err, "account "+accountID)
	}
	return expectOneRow(tag, "account "+accountID)
}

// FindAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the rows for update.
// Soft deleted accounts are returned so the caller can refuse them explicitly.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	ms, err := collectModels[models.Account](ctx, tx, accountSelect+`
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, readError(err, "accounts for update")
	}
	accounts := toAccountMap(ms)

	var missing []string
	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock accounts %v", apperrors.ErrNotFound, missing)
	}
	return accounts, nil
}

// UpdateAccountBalancesInTx updates balances for multiple accounts within a transaction.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	ids := make([]string, 0, len(balanceChanges))
	for id, delta := range balanceChanges {
		if !delta.IsZero() {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, id, balanceChanges[id], now, userID)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range ids {
		ct, err := br.Exec()
		if batchErr != nil {
			continue
		}
		if err != nil {
			batchErr = apperrors.NewAppError(500, "failed to update balance for account "+id, err)
		} else if ct.RowsAffected() == 0 {
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, id)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = apperrors.NewAppError(500, "failed to close balance update batch", err)
	}
	return batchErr
}

func toAccountMap(ms []models.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return out
}
