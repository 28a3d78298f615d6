package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		GroupRepo:        newPgxAccountGroupRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		CompanyRepo:      newPgxCompanyRepository(dbPool),
		TaskRepo:         newPgxTaskRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		ConversationRepo: newPgxConversationRepository(dbPool),
		ReceiptRepo:      newPgxReceiptRepository(dbPool),
	}
}
