package repositories

import (
	"context"
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account within a company.
	FindAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// FindAccountsByNumbers retrieves accounts by their chart numbers, keyed by number.
	// Numbers without a matching account are simply absent from the map.
	FindAccountsByNumbers(ctx context.Context, companyID string, numbers []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the full chart of accounts for a company.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccounts persists a batch of new accounts in one round trip.
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string, now time.Time) error
}

// AccountRepository combines all account repository operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}

// AccountGroupRepository defines operations for chart-of-accounts groups.
type AccountGroupRepository interface {
	// SaveGroup persists a new account group.
	SaveGroup(ctx context.Context, group domain.AccountGroup) error

	// SaveGroups persists a batch of new groups in one round trip.
	SaveGroups(ctx context.Context, groups []domain.AccountGroup) error

	// UpdateGroupParent sets the parent link of a group. Used by the two-phase
	// account-plan import after all groups exist.
	UpdateGroupParent(ctx context.Context, companyID string, groupID string, parentID *string, userID string, now time.Time) error

	// UpdateGroup updates a group's number and name.
	UpdateGroup(ctx context.Context, group domain.AccountGroup) error

	// DeleteGroup removes an empty group.
	DeleteGroup(ctx context.Context, companyID string, groupID string) error

	// FindGroupByID retrieves a specific group within a company.
	FindGroupByID(ctx context.Context, companyID string, groupID string) (*domain.AccountGroup, error)

	// FindGroupsByNumbers retrieves groups by number, keyed by number.
	FindGroupsByNumbers(ctx context.Context, companyID string, numbers []string) (map[string]domain.AccountGroup, error)

	// ListGroups retrieves all groups of a company.
	ListGroups(ctx context.Context, companyID string) ([]domain.AccountGroup, error)
}
