package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/accounting"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/coa"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	groupRepo   portsrepo.AccountGroupRepository
	txnRepo     portsrepo.TransactionRepository
}

// AccountServiceOption configures the account service
type AccountServiceOption func(*accountService)

// WithCompanyAuthorizer sets the authorizer used for role checks
func WithCompanyAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.CompanyAuthorizer = authorizer
	}
}

// NewAccountService creates a new account service with the provided dependencies
func NewAccountService(
	accountRepo portsrepo.AccountRepository,
	groupRepo portsrepo.AccountGroupRepository,
	txnRepo portsrepo.TransactionRepository,
	opts ...AccountServiceOption,
) portssvc.AccountSvcFacade {
	s := &accountService{
		accountRepo: accountRepo,
		groupRepo:   groupRepo,
		txnRepo:     txnRepo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID retrieves a specific account
func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string, requestingUserID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves all accounts of a company
func (s *accountService) ListAccounts(ctx context.Context, companyID string, requestingUserID string) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("company_id", companyID))
		return nil, err
	}

	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// CreateAccount persists a new account
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.FindAccountsByNumbers(ctx, companyID, []string{req.Number})
	if err != nil {
		s.LogError(ctx, err, "Failed to check account number uniqueness",
			slog.String("number", req.Number))
		return nil, err
	}
	if _, ok := existing[req.Number]; ok {
		return nil, apperrors.NewAppError(409, fmt.Sprintf("account number %s already exists", req.Number), apperrors.ErrDuplicate)
	}

	if req.GroupID != nil {
		if _, err := s.groupRepo.FindGroupByID(ctx, companyID, *req.GroupID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewAppError(400, fmt.Sprintf("account group %s not found", *req.GroupID), apperrors.ErrValidation)
			}
			return nil, err
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       companyID,
		Number:          req.Number,
		Name:            req.Name,
		AccountType:     req.AccountType,
		GroupID:         req.GroupID,
		VATCode:         req.VATCode,
		LinkedAccountID: req.LinkedAccountID,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("number", req.Number))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("number", account.Number))
	return &account, nil
}

// UpdateAccount updates account details
func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	if account.IsSystem && req.IsActive != nil && !*req.IsActive {
		return nil, apperrors.NewAppError(409, "system accounts cannot be deactivated", apperrors.ErrConflict)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.GroupID != nil {
		if *req.GroupID != "" {
			if _, err := s.groupRepo.FindGroupByID(ctx, companyID, *req.GroupID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, apperrors.NewAppError(400, fmt.Sprintf("account group %s not found", *req.GroupID), apperrors.ErrValidation)
				}
				return nil, err
			}
			account.GroupID = req.GroupID
		} else {
			account.GroupID = nil
		}
	}
	if req.VATCode != nil {
		account.VATCode = *req.VATCode
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

// DeactivateAccount marks an account as inactive
func (s *accountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return apperrors.NewAppError(409, "system accounts cannot be deactivated", apperrors.ErrConflict)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, companyID, accountID, requestingUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated",
		slog.String("account_id", accountID))
	return nil
}

// CreateGroup persists a new account group
func (s *accountService) CreateGroup(ctx context.Context, companyID string, req dto.CreateAccountGroupRequest, creatorUserID string) (*domain.AccountGroup, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if _, err := s.groupRepo.FindGroupByID(ctx, companyID, *req.ParentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewAppError(400, fmt.Sprintf("parent group %s not found", *req.ParentID), apperrors.ErrValidation)
			}
			return nil, err
		}
	}

	now := time.Now()
	group := domain.AccountGroup{
		GroupID:   uuid.NewString(),
		CompanyID: companyID,
		Number:    req.Number,
		Name:      req.Name,
		ParentID:  req.ParentID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.groupRepo.SaveGroup(ctx, group); err != nil {
		s.LogError(ctx, err, "Failed to save account group",
			slog.String("number", req.Number))
		return nil, err
	}
	return &group, nil
}

// UpdateGroup updates group details
func (s *accountService) UpdateGroup(ctx context.Context, companyID string, groupID string, req dto.UpdateAccountGroupRequest, requestingUserID string) (*domain.AccountGroup, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.FindGroupByID(ctx, companyID, groupID)
	if err != nil {
		return nil, err
	}

	if req.Number != nil {
		group.Number = *req.Number
	}
	if req.Name != nil {
		group.Name = *req.Name
	}
	group.LastUpdatedAt = time.Now()
	group.LastUpdatedBy = requestingUserID

	if err := s.groupRepo.UpdateGroup(ctx, *group); err != nil {
		s.LogError(ctx, err, "Failed to update account group",
			slog.String("group_id", groupID))
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes a group that has no accounts and no child groups
func (s *accountService) DeleteGroup(ctx context.Context, companyID string, groupID string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return err
	}

	if _, err := s.groupRepo.FindGroupByID(ctx, companyID, groupID); err != nil {
		return err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return err
	}
	for _, acc := range accounts {
		if acc.GroupID != nil && *acc.GroupID == groupID {
			return apperrors.NewAppError(409, "group still contains accounts", apperrors.ErrConflict)
		}
	}

	groups, err := s.groupRepo.ListGroups(ctx, companyID)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if g.ParentID != nil && *g.ParentID == groupID {
			return apperrors.NewAppError(409, "group still contains subgroups", apperrors.ErrConflict)
		}
	}

	if err := s.groupRepo.DeleteGroup(ctx, companyID, groupID); err != nil {
		s.LogError(ctx, err, "Failed to delete account group",
			slog.String("group_id", groupID))
		return err
	}
	return nil
}

// ListGroups retrieves all account groups of a company
func (s *accountService) ListGroups(ctx context.Context, companyID string, requestingUserID string) ([]domain.AccountGroup, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	groups, err := s.groupRepo.ListGroups(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account groups",
			slog.String("company_id", companyID))
		return nil, err
	}

	if groups == nil {
		return []domain.AccountGroup{}, nil
	}
	return groups, nil
}

// GetChartOfAccounts builds the account tree with rolled-up balances
func (s *accountService) GetChartOfAccounts(ctx context.Context, companyID string, requestingUserID string, hideZero bool, query string) ([]*coa.Node, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	groups, err := s.groupRepo.ListGroups(ctx, companyID)
	if err != nil {
		return nil, err
	}

	// The whole journal is folded in memory; the chart is small enough that
	// recomputing per request beats keeping balances consistent in SQL.
	txns, err := s.txnRepo.ListTransactionsByDateRange(ctx, companyID, time.Time{}, time.Now().AddDate(100, 0, 0))
	if err != nil {
		return nil, err
	}

	balances, err := accounting.ComputeBalances(accounts, txns)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute account balances",
			slog.String("company_id", companyID))
		return nil, err
	}

	tree := coa.BuildTree(accounts, groups, balances)
	if hideZero {
		tree = coa.FilterZero(tree)
	}
	if query != "" {
		tree = coa.Search(tree, query)
	}
	return tree, nil
}
