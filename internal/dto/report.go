package dto

import (
	"github.com/shopspring/decimal"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// AccountBalanceResponse is one line of a balance or income report.
type AccountBalanceResponse struct {
	AccountID   string             `json:"accountID"`
	Number      string             `json:"number"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType"`
	Balance     decimal.Decimal    `json:"balance"`
}

// BalanceReportResponse is the balance sheet view.
type BalanceReportResponse struct {
	Assets           []AccountBalanceResponse `json:"assets"`
	Liabilities      []AccountBalanceResponse `json:"liabilities"`
	TotalAssets      decimal.Decimal          `json:"totalAssets"`
	TotalLiabilities decimal.Decimal          `json:"totalLiabilities"`
}

// IncomeStatementResponse is the profit and loss view.
type IncomeStatementResponse struct {
	Revenue       []AccountBalanceResponse `json:"revenue"`
	Expenses      []AccountBalanceResponse `json:"expenses"`
	TotalRevenue  decimal.Decimal          `json:"totalRevenue"`
	TotalExpenses decimal.Decimal          `json:"totalExpenses"`
	Profit        decimal.Decimal          `json:"profit"`
}

// MonthBucketResponse is one month of the dashboard series.
type MonthBucketResponse struct {
	Month    string          `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	CashFlow decimal.Decimal `json:"cashFlow"`
}

// DashboardResponse carries the current-month headline figures.
type DashboardResponse struct {
	MonthRevenue  decimal.Decimal       `json:"monthRevenue"`
	MonthExpenses decimal.Decimal       `json:"monthExpenses"`
	MonthProfit   decimal.Decimal       `json:"monthProfit"`
	OpenTasks     int                   `json:"openTasks"`
	Series        []MonthBucketResponse `json:"series"`
}

func toAccountBalances(lines []domain.AccountBalance) []AccountBalanceResponse {
	out := make([]AccountBalanceResponse, len(lines))
	for i, l := range lines {
		out[i] = AccountBalanceResponse{
			AccountID:   l.AccountID,
			Number:      l.Number,
			Name:        l.Name,
			AccountType: l.AccountType,
			Balance:     l.Balance,
		}
	}
	return out
}

// ToBalanceReportResponse converts a domain balance report.
func ToBalanceReportResponse(r *domain.BalanceReport) BalanceReportResponse {
	return BalanceReportResponse{
		Assets:           toAccountBalances(r.Assets),
		Liabilities:      toAccountBalances(r.Liabilities),
		TotalAssets:      r.TotalAssets,
		TotalLiabilities: r.TotalLiabilities,
	}
}

// ToIncomeStatementResponse converts a domain income statement.
func ToIncomeStatementResponse(r *domain.IncomeStatement) IncomeStatementResponse {
	return IncomeStatementResponse{
		Revenue:       toAccountBalances(r.Revenue),
		Expenses:      toAccountBalances(r.Expenses),
		TotalRevenue:  r.TotalRevenue,
		TotalExpenses: r.TotalExpenses,
		Profit:        r.Profit,
	}
}

// ToMonthBucketResponses converts the monthly series.
func ToMonthBucketResponses(buckets []domain.MonthBucket) []MonthBucketResponse {
	out := make([]MonthBucketResponse, len(buckets))
	for i, b := range buckets {
		out[i] = MonthBucketResponse{
			Month:    b.Month,
			Revenue:  b.Revenue,
			Expenses: b.Expenses,
			CashFlow: b.CashFlow,
		}
	}
	return out
}
