package services

import (
	"context"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/coa"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, companyID string, accountID string, requestingUserID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts of a company.
	ListAccounts(ctx context.Context, companyID string, requestingUserID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates account details.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. Accounts with bookings
	// are deactivated rather than deleted.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error
}

// AccountGroupSvc defines operations for account group management
type AccountGroupSvc interface {
	// CreateGroup persists a new account group.
	CreateGroup(ctx context.Context, companyID string, req dto.CreateAccountGroupRequest, creatorUserID string) (*domain.AccountGroup, error)

	// UpdateGroup updates group details including its parent.
	UpdateGroup(ctx context.Context, companyID string, groupID string, req dto.UpdateAccountGroupRequest, requestingUserID string) (*domain.AccountGroup, error)

	// DeleteGroup removes an empty group.
	DeleteGroup(ctx context.Context, companyID string, groupID string, requestingUserID string) error

	// ListGroups retrieves all account groups of a company.
	ListGroups(ctx context.Context, companyID string, requestingUserID string) ([]domain.AccountGroup, error)
}

// ChartOfAccountsSvc defines operations on the account hierarchy
type ChartOfAccountsSvc interface {
	// GetChartOfAccounts builds the account tree with rolled-up balances.
	// Zero-balance nodes are pruned when hideZero is set, and query filters
	// the tree to matching nodes and their ancestors.
	GetChartOfAccounts(ctx context.Context, companyID string, requestingUserID string, hideZero bool, query string) ([]*coa.Node, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountGroupSvc
	ChartOfAccountsSvc
}
