package services

import (
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/metrics"
	"github.com/SscSPs/hifzmaal_backend/internal/platform/clock"
	"github.com/SscSPs/hifzmaal_backend/internal/platform/config"
)

// Dependencies are the shared collaborators handed to every service.
type Dependencies struct {
	Clock   clock.Clock
	Events  portssvc.EventPublisher
	Metrics *metrics.Collector
	Prices  portssvc.MetalPriceSource
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Dependencies) *portssvc.ServiceContainer {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Prices == nil {
		deps.Prices = StaticMetalPriceSource{}
	}

	common := []ServiceOption{
		WithClock(deps.Clock),
		WithEventPublisher(deps.Events),
		WithMetrics(deps.Metrics),
	}

	container := &portssvc.ServiceContainer{Events: deps.Events}

	// The family service authorizes every other service.
	container.Family = NewFamilyService(repos.FamilyRepo, common...)
	withAuth := append([]ServiceOption{WithFamilyAuthorizer(container.Family)}, common...)

	container.Account = NewAccountService(repos.AccountRepo, repos.FamilyRepo, withAuth...)
	container.Category = NewCategoryService(repos.CategoryRepo, withAuth...)
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.CategoryRepo, repos.TransactionRepo, withAuth...)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.CategoryRepo, container.Budget, withAuth...)
	container.Recurring = NewRecurringService(repos.TransactionRepo, repos.AccountRepo, container.Budget, withAuth...)
	container.Nisab = NewNisabService(deps.Prices, cfg.MetalRateCacheSize, cfg.MetalRateCacheTTL, common...)
	container.Zakat = NewZakatService(repos.ZakatRepo, repos.AccountRepo, repos.FamilyRepo, repos.RecipientRepo, container.Nisab, withAuth...)
	container.Recipient = NewRecipientService(repos.RecipientRepo, withAuth...)
	container.Reporting = NewReportingService(repos.ReportingRepo, withAuth...)
	container.Bill = NewBillService(repos.BillRepo, repos.CategoryRepo, repos.AccountRepo, repos.TransactionRepo, withAuth...)
	container.Savings = NewSavingsGoalService(repos.SavingsRepo, repos.AccountRepo, withAuth...)

	return container
}
