package services

import (
	"context"
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// All reports are computed from the booking journal in memory.
type ReportingService interface {
	// BalanceSheet generates the balance report as of a specific date.
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.BalanceReport, error)

	// IncomeStatement generates the profit and loss report for a period.
	IncomeStatement(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.IncomeStatement, error)

	// Dashboard computes the current-month headline figures and the
	// monthly revenue, expense and cash flow series.
	Dashboard(ctx context.Context, companyID string, now time.Time, userID string) (*domain.DashboardStats, []domain.MonthBucket, error)
}

// ExportService defines operations for exporting journal data.
type ExportService interface {
	// ExportTransactionsCSV writes the company journal for a period as CSV
	// with Swiss number and date formatting.
	ExportTransactionsCSV(ctx context.Context, companyID string, from, to time.Time, userID string) ([]byte, error)
}
