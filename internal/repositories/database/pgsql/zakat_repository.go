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

type PgxZakatRepository struct {
	BaseRepository
}

// newPgxZakatRepository creates a new repository for zakat calculations and payments.
func newPgxZakatRepository(pool *pgxpool.Pool) portsrepo.ZakatRepositoryWithTx {
	return &PgxZakatRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ZakatRepositoryWithTx = (*PgxZakatRepository)(nil)

const calculationColumns = `calculation_id, family_id, hijri_year, calculation_date,
	cash_in_hand, cash_in_bank, gold_value, silver_value, business_inventory, investments, loans_receivable, other_assets, debts,
	total_assets, nisab_amount, nisab_type, zakatable_amount, zakat_due, zakat_paid, zakat_remaining, notes,
	created_at, created_by, last_updated_at, last_updated_by`

const calculationSelect = `SELECT ` + calculationColumns + ` FROM zakat_calculations `

const paymentSelect = `
SELECT payment_id, calculation_id, family_id, recipient_id, recipient_name, amount, payment_date, payment_type, notes,
	created_at, created_by, last_updated_at, last_updated_by
FROM zakat_payments
`

func (r *PgxZakatRepository) findCalculation(ctx context.Context, q querier, what, filter string, args ...any) (*domain.ZakatCalculation, error) {
	m, err := collectOne[models.ZakatCalculation](ctx, q, calculationSelect+filter, args...)
	if err != nil {
		return nil, readError(err, what)
	}
	c := mapping.ToDomainZakatCalculation(*m)
	return &c, nil
}

func (r *PgxZakatRepository) FindCalculationByID(ctx context.Context, calculationID string) (*domain.ZakatCalculation, error) {
	return r.findCalculation(ctx, r.Pool, "zakat calculation "+calculationID, `WHERE calculation_id = $1`, calculationID)
}

func (r *PgxZakatRepository) FindCalculationByYear(ctx context.Context, familyID string, hijriYear int) (*domain.ZakatCalculation, error) {
	return r.findCalculation(ctx, r.Pool, "zakat calculation for year", `WHERE family_id = $1 AND hijri_year = $2`, familyID, hijriYear)
}

func (r *PgxZakatRepository) ListCalculations(ctx context.Context, familyID string) ([]domain.ZakatCalculation, error) {
	ms, err := collectModels[models.ZakatCalculation](ctx, r.Pool, calculationSelect+`WHERE family_id = $1 ORDER BY hijri_year DESC`, familyID)
	if err != nil {
		return nil, readError(err, "zakat calculations of family "+familyID)
	}
	return mapping.ToDomainZakatCalculationSlice(ms), nil
}

func (r *PgxZakatRepository) ListOutstandingCalculations(ctx context.Context, hijriYear int) ([]domain.ZakatCalculation, error) {
	ms, err := collectModels[models.ZakatCalculation](ctx, r.Pool, calculationSelect+`
		WHERE hijri_year = $1 AND zakat_remaining > 0 ORDER BY family_id`, hijriYear)
	if err != nil {
		return nil, readError(err, "outstanding zakat calculations")
	}
	return mapping.ToDomainZakatCalculationSlice(ms), nil
}

// UpsertCalculation writes the calculation for (family_id, hijri_year). On conflict the row keeps its
// id, creator and zakat_paid, and zakat_remaining is recomputed against the new zakat_due.
func (r *PgxZakatRepository) UpsertCalculation(ctx context.Context, calc domain.ZakatCalculation) (*domain.ZakatCalculation, error) {
	m := mapping.ToModelZakatCalculation(calc)
	query := `
		INSERT INTO zakat_calculations (` + calculationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (family_id, hijri_year) DO UPDATE SET
			calculation_date = EXCLUDED.calculation_date,
			cash_in_hand = EXCLUDED.cash_in_hand,
			cash_in_bank = EXCLUDED.cash_in_bank,
			gold_value = EXCLUDED.gold_value,
			silver_value = EXCLUDED.silver_value,
			business_inventory = EXCLUDED.business_inventory,
			investments = EXCLUDED.investments,
			loans_receivable = EXCLUDED.loans_receivable,
			other_assets = EXCLUDED.other_assets,
			debts = EXCLUDED.debts,
			total_assets = EXCLUDED.total_assets,
			nisab_amount = EXCLUDED.nisab_amount,
			nisab_type = EXCLUDED.nisab_type,
			zakatable_amount = EXCLUDED.zakatable_amount,
			zakat_due = EXCLUDED.zakat_due,
			zakat_remaining = GREATEST(0, EXCLUDED.zakat_due - zakat_calculations.zakat_paid),
			notes = EXCLUDED.notes,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		RETURNING ` + calculationColumns
	out, err := collectOne[models.ZakatCalculation](ctx, r.Pool, query,
		m.CalculationID, m.FamilyID, m.HijriYear, m.CalculationDate,
		m.CashInHand, m.CashInBank, m.GoldValue, m.SilverValue, m.BusinessInventory, m.Investments, m.LoansReceivable, m.OtherAssets, m.Debts,
		m.TotalAssets, m.NisabAmount, m.NisabType, m.ZakatableAmount, m.ZakatDue, m.ZakatPaid, m.ZakatRemaining, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return nil, translateWriteError(err, "zakat calculation for year")
	}
	c := mapping.ToDomainZakatCalculation(*out)
	return &c, nil
}

// DeleteCalculation removes a calculation. Payments go with it through ON DELETE CASCADE.
func (r *PgxZakatRepository) DeleteCalculation(ctx context.Context, calculationID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM zakat_calculations WHERE calculation_id = $1;`, calculationID)
	if err != nil {
		return translateWriteError(err, "zakat calculation "+calculationID)
	}
	return expectOneRow(tag, "zakat calculation "+calculationID)
}

// IncrementZakatPaidInTx adds amount in a single UPDATE so concurrent payments never lose an increment.
func (r *PgxZakatRepository) IncrementZakatPaidInTx(ctx context.Context, tx pgx.Tx, calculationID string, amount decimal.Decimal, userID string, now time.Time) (*domain.ZakatCalculation, error) {
	query := `
		UPDATE zakat_calculations
		SET zakat_paid = zakat_paid + $2,
			zakat_remaining = GREATEST(0, zakat_due - (zakat_paid + $2)),
			last_updated_at = $3, last_updated_by = $4
		WHERE calculation_id = $1
		RETURNING ` + calculationColumns
	m, err := collectOne[models.ZakatCalculation](ctx, tx, query, calculationID, amount, now, userID)
	if err != nil {
		return nil, readError(err, "zakat calculation "+calculationID)
	}
	c := mapping.ToDomainZakatCalculation(*m)
	return &c, nil
}

func (r *PgxZakatRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.ZakatPayment) error {
	m := mapping.ToModelZakatPayment(payment)
	_, err := tx.Exec(ctx, `
		INSERT INTO zakat_payments (payment_id, calculation_id, family_id, recipient_id, recipient_name, amount,
			payment_date, payment_type, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`,
		m.PaymentID, m.CalculationID, m.FamilyID, m.RecipientID, m.RecipientName, m.Amount,
		m.PaymentDate, m.PaymentType, m.Notes, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "zakat payment "+m.PaymentID)
	}
	return nil
}

func (r *PgxZakatRepository) ListPayments(ctx context.Context, calculationID string) ([]domain.ZakatPayment, error) {
	ms, err := collectModels[models.ZakatPayment](ctx, r.Pool, paymentSelect+`WHERE calculation_id = $1 ORDER BY payment_date, created_at`, calculationID)
	if err != nil {
		return nil, readError(err, "payments of zakat calculation "+calculationID)
	}
	return mapping.ToDomainZakatPaymentSlice(ms), nil
}

func (r *PgxZakatRepository) CountPaymentsByCalculation(ctx context.Context, familyID string) (map[string]int, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT calculation_id, COUNT(*) FROM zakat_payments
		WHERE family_id = $1 GROUP BY calculation_id;`, familyID)
	if err != nil {
		return nil, readError(err, "payment counts of family "+familyID)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, readError(err, "payment count row")
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, "payment count rows")
	}
	return counts, nil
}
