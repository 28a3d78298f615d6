package repositories

import (
	"context"
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// TransactionFilter narrows a paginated journal listing.
type TransactionFilter struct {
	From      *time.Time
	To        *time.Time
	AccountID *string // Matches either leg
	Search    *string // Substring match on description and document ref
	Limit     int
	NextToken *string
}

// TransactionRepository defines persistence operations for bookings.
type TransactionRepository interface {
	// SaveTransaction persists a new booking.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction rewrites an existing booking.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// FindTransactionByID retrieves a booking within a company.
	FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated journal page.
	ListTransactions(ctx context.Context, companyID string, filter TransactionFilter) ([]domain.Transaction, *string, error)

	// ListTransactionsByDateRange retrieves every booking in [from, to]
	// ordered by date. Used by reports and the CSV export, which fold the
	// whole range in memory.
	ListTransactionsByDateRange(ctx context.Context, companyID string, from, to time.Time) ([]domain.Transaction, error)

	// DeleteTransaction removes a booking.
	DeleteTransaction(ctx context.Context, companyID string, transactionID string) error
}
