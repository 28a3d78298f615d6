package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	"github.com/swisscockpit/kmu-cockpit/internal/models"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/mapping"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/pagination"
)

const transactionColumns = `transaction_id, company_id, date, amount, debit_account_id, credit_account_id, description, document_ref, issuer_name, issuer_street, issuer_zip, issuer_city, issuer_country, due_date, service_from, service_to, receipt_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for journal bookings.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepository
var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.CompanyID,
		&m.Date,
		&m.Amount,
		&m.DebitAccountID,
		&m.CreditAccountID,
		&m.Description,
		&m.DocumentRef,
		&m.IssuerName,
		&m.IssuerStreet,
		&m.IssuerZIP,
		&m.IssuerCity,
		&m.IssuerCountry,
		&m.DueDate,
		&m.ServiceFrom,
		&m.ServiceTo,
		&m.ReceiptID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTransaction persists a new booking.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID, m.CompanyID, m.Date, m.Amount,
		m.DebitAccountID, m.CreditAccountID,
		m.Description, m.DocumentRef,
		m.IssuerName, m.IssuerStreet, m.IssuerZIP, m.IssuerCity, m.IssuerCountry,
		m.DueDate, m.ServiceFrom, m.ServiceTo, m.ReceiptID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// UpdateTransaction rewrites an existing booking.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		UPDATE transactions
		SET date = $3, amount = $4, debit_account_id = $5, credit_account_id = $6,
			description = $7, document_ref = $8,
			issuer_name = $9, issuer_street = $10, issuer_zip = $11, issuer_city = $12, issuer_country = $13,
			due_date = $14, service_from = $15, service_to = $16, receipt_id = $17,
			last_updated_at = $18, last_updated_by = $19
		WHERE company_id = $1 AND transaction_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.TransactionID,
		m.Date, m.Amount, m.DebitAccountID, m.CreditAccountID,
		m.Description, m.DocumentRef,
		m.IssuerName, m.IssuerStreet, m.IssuerZIP, m.IssuerCity, m.IssuerCountry,
		m.DueDate, m.ServiceFrom, m.ServiceTo, m.ReceiptID,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindTransactionByID retrieves a booking within a company.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE company_id = $1 AND transaction_id = $2;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactions retrieves a filtered, token-paginated journal page ordered
// by (date, created_at) descending.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, companyID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, *string, error) {
	limit := clampPageLimit(filter.Limit)

	args := []interface{}{companyID}
	conditions := "company_id = $1"
	argPos := 2

	if filter.From != nil {
		conditions += fmt.Sprintf(" AND date >= $%d", argPos)
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		conditions += fmt.Sprintf(" AND date <= $%d", argPos)
		args = append(args, *filter.To)
		argPos++
	}
	if filter.AccountID != nil {
		conditions += fmt.Sprintf(" AND (debit_account_id = $%d OR credit_account_id = $%d)", argPos, argPos)
		args = append(args, *filter.AccountID)
		argPos++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions += fmt.Sprintf(" AND (description ILIKE $%d OR document_ref ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+*filter.Search+"%")
		argPos++
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", apperrors.ErrValidation)
		}
		conditions += fmt.Sprintf(" AND (date, created_at) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, tokenDate, tokenCreatedAt)
		argPos += 2
	}

	// Fetch one extra row to know whether another page exists.
	fetchLimit := limit + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE %s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d;
	`, transactionColumns, conditions, argPos)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for company %s: %w", companyID, err)
	}
	defer rows.Close()

	ms := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var nextToken *string
	if len(ms) == fetchLimit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextToken = &token
		ms = ms[:limit]
	}

	return mapping.ToDomainTransactionSlice(ms), nextToken, nil
}

// ListTransactionsByDateRange retrieves every booking in [from, to] ordered
// by date ascending.
func (r *PgxTransactionRepository) ListTransactionsByDateRange(ctx context.Context, companyID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE company_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by date range: %w", err)
	}
	defer rows.Close()

	ms := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(ms), nil
}

// DeleteTransaction removes a booking.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, companyID string, transactionID string) error {
	query := `DELETE FROM transactions WHERE company_id = $1 AND transaction_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, companyID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
