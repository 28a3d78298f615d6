package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
)

// MockAuthorizer is a mock for the CompanyAuthorizerSvc interface
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.CompanyRole) error {
	args := m.Called(ctx, userID, companyID, requiredRole)
	return args.Error(0)
}

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByNumbers(ctx context.Context, companyID string, numbers []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, companyID, accountID, userID, now)
	return args.Error(0)
}

// MockAccountGroupRepository is a mock type for the AccountGroupRepository interface
type MockAccountGroupRepository struct {
	mock.Mock
}

func (m *MockAccountGroupRepository) SaveGroup(ctx context.Context, group domain.AccountGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockAccountGroupRepository) SaveGroups(ctx context.Context, groups []domain.AccountGroup) error {
	args := m.Called(ctx, groups)
	return args.Error(0)
}

func (m *MockAccountGroupRepository) UpdateGroupParent(ctx context.Context, companyID string, groupID string, parentID *string, userID string, now time.Time) error {
	args := m.Called(ctx, companyID, groupID, parentID, userID, now)
	return args.Error(0)
}

func (m *MockAccountGroupRepository) UpdateGroup(ctx context.Context, group domain.AccountGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockAccountGroupRepository) DeleteGroup(ctx context.Context, companyID string, groupID string) error {
	args := m.Called(ctx, companyID, groupID)
	return args.Error(0)
}

func (m *MockAccountGroupRepository) FindGroupByID(ctx context.Context, companyID string, groupID string) (*domain.AccountGroup, error) {
	args := m.Called(ctx, companyID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountGroup), args.Error(1)
}

func (m *MockAccountGroupRepository) FindGroupsByNumbers(ctx context.Context, companyID string, numbers []string) (map[string]domain.AccountGroup, error) {
	args := m.Called(ctx, companyID, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.AccountGroup), args.Error(1)
}

func (m *MockAccountGroupRepository) ListGroups(ctx context.Context, companyID string) ([]domain.AccountGroup, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountGroup), args.Error(1)
}

// MockTransactionRepository is a mock type for the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, companyID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, companyID, filter)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockTransactionRepository) ListTransactionsByDateRange(ctx context.Context, companyID string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, companyID string, transactionID string) error {
	args := m.Called(ctx, companyID, transactionID)
	return args.Error(0)
}
