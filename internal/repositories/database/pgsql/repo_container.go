package pgsql

import (
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		FamilyRepo:      newPgxFamilyRepository(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		ZakatRepo:       newPgxZakatRepository(dbPool),
		RecipientRepo:   newPgxRecipientRepository(dbPool),
		BudgetRepo:      newPgxBudgetRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
		BillRepo:        newPgxBillRepository(dbPool),
		SavingsRepo:     newPgxSavingsGoalRepository(dbPool),
	}
}
