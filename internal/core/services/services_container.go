package services

import (
	"github.com/swisscockpit/kmu-cockpit/internal/ai"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/platform/config"
	"github.com/swisscockpit/kmu-cockpit/internal/storage"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	store *storage.LocalStore,
	assistant ai.Assistant,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Company service first since every other service authorizes through it
	container.Company = NewCompanyService(repos.CompanyRepo)
	authorizer := container.Company.(portssvc.CompanyAuthorizerSvc)

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, repos.UserRepo)

	container.Account = NewAccountService(
		repos.AccountRepo,
		repos.GroupRepo,
		repos.TransactionRepo,
		WithCompanyAuthorizer(authorizer),
	)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.ReceiptRepo, authorizer)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.TransactionRepo, repos.TaskRepo, authorizer)
	container.Export = NewExportService(repos.TransactionRepo, repos.AccountRepo, authorizer)
	container.Import = NewImportService(repos.AccountRepo, repos.GroupRepo, repos.TransactionRepo, authorizer)
	container.Task = NewTaskService(repos.TaskRepo, authorizer)

	container.Receipt = NewReceiptService(repos.ReceiptRepo, store, authorizer)
	container.Conversation = NewConversationService(repos.ConversationRepo, repos.CompanyRepo, assistant, authorizer)
	container.Extraction = NewExtractionService(assistant, container.Receipt, repos.AccountRepo, authorizer)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CompanySvcFacade     = (*companyService)(nil)
	_ portssvc.AccountSvcFacade     = (*accountService)(nil)
	_ portssvc.TransactionSvcFacade = (*transactionService)(nil)
	_ portssvc.ImportSvcFacade      = (*importService)(nil)
)
