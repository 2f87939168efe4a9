package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ZakatCalculationReader defines read operations for zakat calculations
type ZakatCalculationReader interface {
	FindCalculationByID(ctx context.Context, calculationID string) (*domain.ZakatCalculation, error)
	FindCalculationByYear(ctx context.Context, familyID string, hijriYear int) (*domain.ZakatCalculation, error)
	// ListCalculations returns the calculations of a family, newest hijri year first.
	ListCalculations(ctx context.Context, familyID string) ([]domain.ZakatCalculation, error)
	// ListOutstandingCalculations returns calculations of hijriYear across families that still owe zakat.
	ListOutstandingCalculations(ctx context.Context, hijriYear int) ([]domain.ZakatCalculation, error)
}

// ZakatCalculationWriter defines write operations for zakat calculations
type ZakatCalculationWriter interface {
	// UpsertCalculation inserts or overwrites the calculation keyed by (family, hijri_year).
	// zakat_paid of an existing row is kept and zakat_remaining is recomputed from it.
	UpsertCalculation(ctx context.Context, calc domain.ZakatCalculation) (*domain.ZakatCalculation, error)

	// DeleteCalculation removes a calculation and its payments.
	DeleteCalculation(ctx context.Context, calculationID string) error
}

// ZakatPaymentSupport defines payment operations
type ZakatPaymentSupport interface {
	// IncrementZakatPaidInTx atomically adds amount to zakat_paid and recomputes zakat_remaining.
	IncrementZakatPaidInTx(ctx context.Context, tx pgx.Tx, calculationID string, amount decimal.Decimal, userID string, now time.Time) (*domain.ZakatCalculation, error)

	// SavePaymentInTx inserts an immutable payment row.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.ZakatPayment) error

	// ListPayments returns the payments of a calculation ordered by payment date.
	ListPayments(ctx context.Context, calculationID string) ([]domain.ZakatPayment, error)

	// CountPaymentsByCalculation returns payment counts keyed by calculation id for a family.
	CountPaymentsByCalculation(ctx context.Context, familyID string) (map[string]int, error)
}

// ZakatRepositoryFacade combines all zakat-related repository interfaces
type ZakatRepositoryFacade interface {
	ZakatCalculationReader
	ZakatCalculationWriter
	ZakatPaymentSupport
}

// ZakatRepositoryWithTx extends ZakatRepositoryFacade with transaction capabilities
type ZakatRepositoryWithTx interface {
	ZakatRepositoryFacade
	TransactionManager
}
