package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepository
	accountRepo portsrepo.AccountRepository
	receiptRepo portsrepo.ReceiptRepository
}

// NewTransactionService creates a new transaction service with the provided dependencies
func NewTransactionService(
	txnRepo portsrepo.TransactionRepository,
	accountRepo portsrepo.AccountRepository,
	receiptRepo portsrepo.ReceiptRepository,
	authorizer portssvc.CompanyAuthorizerSvc,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		receiptRepo: receiptRepo,
	}
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// GetTransactionByID retrieves a specific booking with resolved legs
func (s *transactionService) GetTransactionByID(ctx context.Context, companyID string, transactionID string, requestingUserID string) (*dto.TransactionResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction by ID",
				slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	accounts, err := s.legAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToTransactionResponse(txn, accounts)
	return &resp, nil
}

// ListTransactions retrieves a filtered, paginated journal page
func (s *transactionService) ListTransactions(ctx context.Context, companyID string, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	filter := portsrepo.TransactionFilter{
		From:      params.From,
		To:        params.To,
		AccountID: params.AccountID,
		Search:    params.Search,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}

	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, companyID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions",
			slog.String("company_id", companyID))
		return nil, err
	}

	accounts, err := s.legAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i := range txns {
		resp.Transactions[i] = dto.ToTransactionResponse(&txns[i], accounts)
	}
	return resp, nil
}

// legAccounts loads the company's accounts keyed by ID for leg resolution.
func (s *transactionService) legAccounts(ctx context.Context, companyID string) (map[string]domain.Account, error) {
	all, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for journal page",
			slog.String("company_id", companyID))
		return nil, err
	}
	byID := make(map[string]domain.Account, len(all))
	for _, acc := range all {
		byID[acc.AccountID] = acc
	}
	return byID, nil
}

// CreateTransaction validates both legs and persists a new booking
func (s *transactionService) CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	if err := s.validateLegs(ctx, companyID, req.DebitAccountID, req.CreditAccountID, req.Amount); err != nil {
		return nil, err
	}

	if req.ReceiptID != nil {
		if _, err := s.receiptRepo.FindReceiptByID(ctx, companyID, *req.ReceiptID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewAppError(400, fmt.Sprintf("receipt %s not found", *req.ReceiptID), apperrors.ErrValidation)
			}
			return nil, err
		}
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		Date:            req.Date,
		Amount:          req.Amount,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Description:     req.Description,
		DocumentRef:     req.DocumentRef,
		IssuerName:      req.IssuerName,
		IssuerStreet:    req.IssuerStreet,
		IssuerZIP:       req.IssuerZIP,
		IssuerCity:      req.IssuerCity,
		IssuerCountry:   req.IssuerCountry,
		DueDate:         req.DueDate,
		ServiceFrom:     req.ServiceFrom,
		ServiceTo:       req.ServiceTo,
		ReceiptID:       req.ReceiptID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction",
			slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction booked",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

// UpdateTransaction rewrites an existing booking
func (s *transactionService) UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		txn.Date = *req.Date
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.DebitAccountID != nil {
		txn.DebitAccountID = *req.DebitAccountID
	}
	if req.CreditAccountID != nil {
		txn.CreditAccountID = *req.CreditAccountID
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.DocumentRef != nil {
		txn.DocumentRef = *req.DocumentRef
	}
	if req.IssuerName != nil {
		txn.IssuerName = *req.IssuerName
	}
	if req.IssuerStreet != nil {
		txn.IssuerStreet = *req.IssuerStreet
	}
	if req.IssuerZIP != nil {
		txn.IssuerZIP = *req.IssuerZIP
	}
	if req.IssuerCity != nil {
		txn.IssuerCity = *req.IssuerCity
	}
	if req.IssuerCountry != nil {
		txn.IssuerCountry = *req.IssuerCountry
	}
	if req.DueDate != nil {
		txn.DueDate = req.DueDate
	}
	if req.ServiceFrom != nil {
		txn.ServiceFrom = req.ServiceFrom
	}
	if req.ServiceTo != nil {
		txn.ServiceTo = req.ServiceTo
	}
	if req.ReceiptID != nil {
		txn.ReceiptID = req.ReceiptID
	}

	if err := s.validateLegs(ctx, companyID, txn.DebitAccountID, txn.CreditAccountID, txn.Amount); err != nil {
		return nil, err
	}

	txn.LastUpdatedAt = time.Now()
	txn.LastUpdatedBy = requestingUserID

	if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction",
			slog.String("transaction_id", transactionID))
		return nil, err
	}
	return txn, nil
}

// DeleteTransaction removes a booking
func (s *transactionService) DeleteTransaction(ctx context.Context, companyID string, transactionID string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.txnRepo.DeleteTransaction(ctx, companyID, transactionID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete transaction",
				slog.String("transaction_id", transactionID))
		}
		return err
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID))
	return nil
}

// validateLegs checks both accounts exist, are active and differ, and that
// the amount is positive.
func (s *transactionService) validateLegs(ctx context.Context, companyID string, debitAccountID, creditAccountID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewAppError(400, "amount must be positive", apperrors.ErrValidation)
	}
	if debitAccountID == creditAccountID {
		return apperrors.NewAppError(400, "debit and credit account must differ", apperrors.ErrValidation)
	}

	for _, accountID := range []string{debitAccountID, creditAccountID} {
		account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewAppError(400, fmt.Sprintf("account %s not found", accountID), apperrors.ErrValidation)
			}
			return err
		}
		if !account.IsActive {
			return apperrors.NewAppError(409, fmt.Sprintf("account %s is inactive", account.Number), apperrors.ErrConflict)
		}
	}
	return nil
}
