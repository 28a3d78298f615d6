package repositories

// RepositoryProvider bundles all repositories for injection into the service
// container.
type RepositoryProvider struct {
	AccountRepo      AccountRepository
	GroupRepo        AccountGroupRepository
	TransactionRepo  TransactionRepository
	CompanyRepo      CompanyRepository
	TaskRepo         TaskRepository
	UserRepo         UserRepository
	ConversationRepo ConversationRepository
	ReceiptRepo      ReceiptRepository
}
