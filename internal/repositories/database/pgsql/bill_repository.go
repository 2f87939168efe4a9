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

type PgxBillRepository struct {
	BaseRepository
}

func newPgxBillRepository(pool *pgxpool.Pool) portsrepo.BillRepositoryWithTx {
	return &PgxBillRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BillRepositoryWithTx = (*PgxBillRepository)(nil)

const billColumns = `bill_id, family_id, category_id, account_id, name, type, amount, average_amount, due_date,
	frequency, is_recurring, auto_pay, provider, account_number, split_members, reminder_days, status,
	last_paid_date, paid_transaction_id, previous_bill_id, last_reminded_on,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

const billSelect = `SELECT ` + billColumns + ` FROM bills `

const unpaidStatuses = `status IN ('pending', 'overdue')`

func (r *PgxBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	return insertBill(ctx, r.Pool, bill)
}

func (r *PgxBillRepository) SaveBillInTx(ctx context.Context, tx pgx.Tx, bill domain.Bill) error {
	return insertBill(ctx, tx, bill)
}

func insertBill(ctx context.Context, q querier, bill domain.Bill) error {
	m := mapping.ToModelBill(bill)
	_, err := q.Exec(ctx, `
		INSERT INTO bills (bill_id, family_id, category_id, account_id, name, type, amount, average_amount, due_date,
			frequency, is_recurring, auto_pay, provider, account_number, split_members, reminder_days, status,
			previous_bill_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`,
		m.BillID, m.FamilyID, m.CategoryID, m.AccountID, m.Name, m.Type, m.Amount, m.AverageAmount, m.DueDate,
		m.Frequency, m.IsRecurring, m.AutoPay, m.Provider, m.AccountNumber, m.SplitMembers, m.ReminderDays, m.Status,
		m.PreviousBillID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "bill "+m.Name)
	}
	return nil
}

func (r *PgxBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	m, err := collectOne[models.Bill](ctx, r.Pool, billSelect+`WHERE bill_id = $1 AND deleted_at IS NULL`, billID)
	if err != nil {
		return nil, readError(err, "bill "+billID)
	}
	b := mapping.ToDomainBill(*m)
	return &b, nil
}

func (r *PgxBillRepository) FindBillByIDForUpdate(ctx context.Context, tx pgx.Tx, billID string) (*domain.Bill, error) {
	m, err := collectOne[models.Bill](ctx, tx, billSelect+`WHERE bill_id = $1 AND deleted_at IS NULL FOR UPDATE`, billID)
	if err != nil {
		return nil, readError(err, "bill "+billID)
	}
	b := mapping.ToDomainBill(*m)
	return &b, nil
}

func (r *PgxBillRepository) ListBills(ctx context.Context, familyID string, filter domain.BillFilter) ([]domain.Bill, error) {
	var status, billType *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	if filter.Type != nil {
		t := string(*filter.Type)
		billType = &t
	}
	ms, err := collectModels[models.Bill](ctx, r.Pool, billSelect+`
		WHERE family_id = $1 AND deleted_at IS NULL
			AND ($2::text IS NULL OR status = $2)
			AND ($3::text IS NULL OR type = $3)
		ORDER BY due_date, name`, familyID, status, billType)
	if err != nil {
		return nil, readError(err, "bills of family "+familyID)
	}
	return mapping.ToDomainBillSlice(ms), nil
}

func (r *PgxBillRepository) ListUnpaidBillsDueBetween(ctx context.Context, familyID string, from, to time.Time) ([]domain.Bill, error) {
	ms, err := collectModels[models.Bill](ctx, r.Pool, billSelect+`
		WHERE family_id = $1 AND deleted_at IS NULL AND `+unpaidStatuses+`
			AND due_date BETWEEN $2 AND $3
		ORDER BY due_date, name`, familyID, from, to)
	if err != nil {
		return nil, readError(err, "upcoming bills of family "+familyID)
	}
	return mapping.ToDomainBillSlice(ms), nil
}

func (r *PgxBillRepository) ListUnpaidBillsDueBefore(ctx context.Context, familyID string, date time.Time) ([]domain.Bill, error) {
	ms, err := collectModels[models.Bill](ctx, r.Pool, billSelect+`
		WHERE family_id = $1 AND deleted_at IS NULL AND `+unpaidStatuses+` AND due_date < $2
		ORDER BY due_date, name`, familyID, date)
	if err != nil {
		return nil, readError(err, "overdue bills of family "+familyID)
	}
	return mapping.ToDomainBillSlice(ms), nil
}

func (r *PgxBillRepository) ListRecentPaidAmounts(ctx context.Context, familyID, name string, limit int) ([]decimal.Decimal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT amount FROM bills
		WHERE family_id = $1 AND name = $2 AND status = 'paid' AND deleted_at IS NULL
		ORDER BY last_paid_date DESC NULLS LAST, due_date DESC
		LIMIT $3`, familyID, name, limit)
	if err != nil {
		return nil, readError(err, "paid bills named "+name)
	}
	amounts, err := pgx.CollectRows(rows, pgx.RowTo[decimal.Decimal])
	if err != nil {
		return nil, readError(err, "paid bills named "+name)
	}
	return amounts, nil
}

func (r *PgxBillRepository) ListPendingBillsDueBefore(ctx context.Context, date time.Time) ([]domain.Bill, error) {
	ms, err := collectModels[models.Bill](ctx, r.Pool, billSelect+`
		WHERE status = 'pending' AND deleted_at IS NULL AND due_date < $1
		ORDER BY due_date, bill_id`, date)
	if err != nil {
		return nil, readError(err, "pending bills due before "+date.Format(domain.DateLayout))
	}
	return mapping.ToDomainBillSlice(ms), nil
}

func (r *PgxBillRepository) ListPendingBillsDueBetween(ctx context.Context, from, to time.Time) ([]domain.Bill, error) {
	ms, err := collectModels[models.Bill](ctx, r.Pool, billSelect+`
		WHERE status = 'pending' AND deleted_at IS NULL AND due_date BETWEEN $1 AND $2
		ORDER BY due_date, bill_id`, from, to)
	if err != nil {
		return nil, readError(err, "pending bills due by "+to.Format(domain.DateLayout))
	}
	return mapping.ToDomainBillSlice(ms), nil
}

func (r *PgxBillRepository) UpdateBill(ctx context.Context, bill domain.Bill) error {
	m := mapping.ToModelBill(bill)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE bills
		SET category_id = $2, account_id = $3, name = $4, type = $5, amount = $6, average_amount = $7,
			due_date = $8, frequency = $9, is_recurring = $10, auto_pay = $11, provider = $12,
			account_number = $13, split_members = $14, reminder_days = $15, status = $16,
			last_updated_at = $17, last_updated_by = $18
		WHERE bill_id = $1 AND deleted_at IS NULL;`,
		m.BillID, m.CategoryID, m.AccountID, m.Name, m.Type, m.Amount, m.AverageAmount,
		m.DueDate, m.Frequency, m.IsRecurring, m.AutoPay, m.Provider,
		m.AccountNumber, m.SplitMembers, m.ReminderDays, m.Status,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "bill "+m.BillID)
	}
	return expectOneRow(tag, "bill "+m.BillID)
}

func (r *PgxBillRepository) SoftDeleteBill(ctx context.Context, billID, userID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE bills SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE bill_id = $1 AND deleted_at IS NULL;`, billID, now, userID)
	if err != nil {
		return translateWriteError(err, "bill "+billID)
	}
	return expectOneRow(tag, "bill "+billID)
}

func (r *PgxBillRepository) MarkBillPaidInTx(ctx context.Context, tx pgx.Tx, bill domain.Bill) error {
	m := mapping.ToModelBill(bill)
	tag, err := tx.Exec(ctx, `
		UPDATE bills
		SET status = $2, last_paid_date = $3, paid_transaction_id = $4, last_updated_at = $5, last_updated_by = $6
		WHERE bill_id = $1;`,
		m.BillID, m.Status, m.LastPaidDate, m.PaidTransactionID, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "bill "+m.BillID)
	}
	return expectOneRow(tag, "bill "+m.BillID)
}

func (r *PgxBillRepository) MarkBillOverdue(ctx context.Context, billID string, now time.Time) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE bills SET status = 'overdue', last_updated_at = $2
		WHERE bill_id = $1 AND status = 'pending' AND deleted_at IS NULL;`, billID, now)
	if err != nil {
		return false, translateWriteError(err, "bill "+billID)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxBillRepository) ClaimBillReminder(ctx context.Context, billID string, day time.Time) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE bills SET last_reminded_on = $2
		WHERE bill_id = $1 AND (last_reminded_on IS NULL OR last_reminded_on < $2);`, billID, day)
	if err != nil {
		return false, translateWriteError(err, "bill "+billID)
	}
	return tag.RowsAffected() == 1, nil
}
