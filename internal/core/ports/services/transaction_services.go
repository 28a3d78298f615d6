package services

import (
	"context"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// TransactionReaderSvc defines read operations for booking data
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific booking by its ID with both
	// account legs resolved.
	GetTransactionByID(ctx context.Context, companyID string, transactionID string, requestingUserID string) (*dto.TransactionResponse, error)

	// ListTransactions retrieves a filtered, paginated list of bookings.
	ListTransactions(ctx context.Context, companyID string, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for booking data
type TransactionWriterSvc interface {
	// CreateTransaction persists a new booking against a debit and credit account.
	CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// UpdateTransaction updates booking details.
	UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error)

	// DeleteTransaction removes a booking.
	DeleteTransaction(ctx context.Context, companyID string, transactionID string, requestingUserID string) error
}

// TransactionSvcFacade combines all booking-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
