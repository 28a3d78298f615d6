package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/accounting"
)

// reportingService computes all reports by folding the journal in memory.
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	txnRepo     portsrepo.TransactionRepository
	taskRepo    portsrepo.TaskRepository
}

// NewReportingService creates a new reporting service with the provided dependencies
func NewReportingService(
	accountRepo portsrepo.AccountRepository,
	txnRepo portsrepo.TransactionRepository,
	taskRepo portsrepo.TaskRepository,
	authorizer portssvc.CompanyAuthorizerSvc,
) portssvc.ReportingService {
	return &reportingService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		taskRepo:    taskRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// earliest is the lower bound used when a report has no explicit start date.
var earliest = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// loadLedger fetches the chart of accounts and the bookings of a period.
func (s *reportingService) loadLedger(ctx context.Context, companyID string, from, to time.Time) ([]domain.Account, []domain.Transaction, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for report")
		return nil, nil, err
	}
	txns, err := s.txnRepo.ListTransactionsByDateRange(ctx, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for report")
		return nil, nil, err
	}
	return accounts, txns, nil
}

// BalanceSheet generates the balance report as of a specific date
func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.BalanceReport, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, txns, err := s.loadLedger(ctx, companyID, earliest, asOf)
	if err != nil {
		return nil, err
	}

	balances, err := accounting.ComputeBalances(accounts, txns)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balances for balance sheet")
		return nil, err
	}

	report := &domain.BalanceReport{
		Assets:           reportLines(accounts, balances, domain.Asset),
		Liabilities:      reportLines(accounts, balances, domain.Liability),
		TotalAssets:      accounting.SumByType(accounts, balances, domain.Asset),
		TotalLiabilities: accounting.SumByType(accounts, balances, domain.Liability),
	}
	return report, nil
}

// IncomeStatement generates the profit and loss report for a period
func (s *reportingService) IncomeStatement(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.IncomeStatement, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, txns, err := s.loadLedger(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	balances, err := accounting.ComputeBalances(accounts, txns)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balances for income statement")
		return nil, err
	}

	totalRevenue := accounting.SumByType(accounts, balances, domain.Revenue)
	totalExpenses := accounting.SumByType(accounts, balances, domain.Expense)

	report := &domain.IncomeStatement{
		Revenue:       reportLines(accounts, balances, domain.Revenue),
		Expenses:      reportLines(accounts, balances, domain.Expense),
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		Profit:        totalRevenue.Sub(totalExpenses),
	}
	return report, nil
}

// Dashboard computes the current-month headline figures and the monthly series
func (s *reportingService) Dashboard(ctx context.Context, companyID string, now time.Time, userID string) (*domain.DashboardStats, []domain.MonthBucket, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	accounts, txns, err := s.loadLedger(ctx, companyID, yearStart, now)
	if err != nil {
		return nil, nil, err
	}

	var monthTxns []domain.Transaction
	for _, txn := range txns {
		if !txn.Date.Before(monthStart) {
			monthTxns = append(monthTxns, txn)
		}
	}

	balances, err := accounting.ComputeBalances(accounts, monthTxns)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balances for dashboard")
		return nil, nil, err
	}

	openTasks, err := s.taskRepo.CountOpenTasks(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count open tasks for dashboard")
		return nil, nil, err
	}

	monthRevenue := accounting.SumByType(accounts, balances, domain.Revenue)
	monthExpenses := accounting.SumByType(accounts, balances, domain.Expense)

	stats := &domain.DashboardStats{
		MonthRevenue:  monthRevenue,
		MonthExpenses: monthExpenses,
		MonthProfit:   monthRevenue.Sub(monthExpenses),
		OpenTasks:     openTasks,
	}

	series, err := accounting.MonthlySeries(accounts, txns)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute monthly series for dashboard")
		return nil, nil, err
	}

	return stats, series, nil
}

// reportLines extracts the per-account lines of one account type, sorted by
// account number. Inactive accounts with a zero balance are skipped.
func reportLines(accounts []domain.Account, balances map[string]decimal.Decimal, accountType domain.AccountType) []domain.AccountBalance {
	lines := make([]domain.AccountBalance, 0)
	for _, acc := range accounts {
		if acc.AccountType != accountType {
			continue
		}
		balance, ok := balances[acc.AccountID]
		if !ok {
			continue
		}
		if !acc.IsActive && balance.IsZero() {
			continue
		}
		lines = append(lines, domain.AccountBalance{
			AccountID:   acc.AccountID,
			Number:      acc.Number,
			Name:        acc.Name,
			AccountType: acc.AccountType,
			Balance:     balance,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Number < lines[j].Number })
	return lines
}
