package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	"github.com/swisscockpit/kmu-cockpit/internal/models"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/mapping"
)

const accountColumns = `account_id, company_id, number, name, account_type, group_id, is_system, system_code, vat_code, linked_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.CompanyID,
		&m.Number,
		&m.Name,
		&m.AccountType,
		&m.GroupID,
		&m.IsSystem,
		&m.SystemCode,
		&m.VATCode,
		&m.LinkedAccountID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.CompanyID,
		m.Number,
		m.Name,
		m.AccountType,
		m.GroupID,
		m.IsSystem,
		m.SystemCode,
		m.VATCode,
		m.LinkedAccountID,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// SaveAccounts inserts a batch of accounts in one round trip.
func (r *PgxAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	for _, account := range accounts {
		m := mapping.ToModelAccount(account)
		batch.Queue(query,
			m.AccountID, m.CompanyID, m.Number, m.Name, m.AccountType,
			m.GroupID, m.IsSystem, m.SystemCode, m.VATCode, m.LinkedAccountID,
			m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := range accounts {
		if _, err := br.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, accounts[i].Number)
			}
			return fmt.Errorf("failed to save account %s: %w", accounts[i].AccountID, err)
		}
	}
	return nil
}

// FindAccountByID retrieves an account within a company.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND account_id = $2;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByNumbers retrieves accounts by their chart numbers, keyed by number.
func (r *PgxAccountRepository) FindAccountsByNumbers(ctx context.Context, companyID string, numbers []string) (map[string]domain.Account, error) {
	if len(numbers) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND number = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, companyID, numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by numbers: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[m.Number] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	// Numbers without a matching account are simply absent from the map.
	return accounts, nil
}

// ListAccounts retrieves the full chart of accounts for a company.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1
		ORDER BY number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for company %s: %w", companyID, err)
	}
	defer rows.Close()

	ms := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccount updates an existing account's details.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $3, group_id = $4, vat_code = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $1 AND account_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.AccountID,
		m.Name, m.GroupID, m.VATCode, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND account_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
