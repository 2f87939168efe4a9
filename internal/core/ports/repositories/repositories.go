package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	FamilyRepo      FamilyRepositoryFacade
	AccountRepo     AccountRepositoryFacade
	CategoryRepo    CategoryRepositoryFacade
	TransactionRepo TransactionRepositoryWithTx
	ZakatRepo       ZakatRepositoryWithTx
	RecipientRepo   RecipientRepositoryFacade
	BudgetRepo      BudgetRepositoryFacade
	ReportingRepo   ReportingRepository
	BillRepo        BillRepositoryWithTx
	SavingsRepo     SavingsGoalRepositoryFacade
}
