package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Family      FamilySvcFacade
	Account     AccountSvcFacade
	Category    CategorySvc
	Transaction TransactionSvcFacade
	Recurring   RecurringSvc
	Budget      BudgetSvcFacade
	Zakat       ZakatSvcFacade
	Nisab       NisabSvc
	Recipient   RecipientSvc
	Reporting   ReportingService
	Bill        BillSvcFacade
	Savings     SavingsGoalSvcFacade
	Events      EventPublisher
}
