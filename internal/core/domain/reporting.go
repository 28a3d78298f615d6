package domain

import (
	"github.com/shopspring/decimal"
)

// AccountBalance pairs an account with its signed balance over a period.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	Number      string          `json:"number"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceReport is the balance sheet view as of a date.
type BalanceReport struct {
	Assets           []AccountBalance `json:"assets"`
	Liabilities      []AccountBalance `json:"liabilities"`
	TotalAssets      decimal.Decimal  `json:"totalAssets"`
	TotalLiabilities decimal.Decimal  `json:"totalLiabilities"`
}

// IncomeStatement is the profit and loss view over a period.
type IncomeStatement struct {
	Revenue       []AccountBalance `json:"revenue"`
	Expenses      []AccountBalance `json:"expenses"`
	TotalRevenue  decimal.Decimal  `json:"totalRevenue"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	Profit        decimal.Decimal  `json:"profit"` // TotalRevenue - TotalExpenses
}

// MonthBucket is one point of a month-bucketed series, keyed YYYY-MM.
type MonthBucket struct {
	Month    string          `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	CashFlow decimal.Decimal `json:"cashFlow"`
}

// DashboardStats is the headline figures of the cockpit landing page.
// Each figure is computed from an independent query, so momentary skew
// between them is possible.
type DashboardStats struct {
	MonthRevenue  decimal.Decimal `json:"monthRevenue"`
	MonthExpenses decimal.Decimal `json:"monthExpenses"`
	MonthProfit   decimal.Decimal `json:"monthProfit"`
	OpenTasks     int             `json:"openTasks"`
}
