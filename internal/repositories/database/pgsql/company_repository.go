package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	"github.com/swisscockpit/kmu-cockpit/internal/models"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/mapping"
)

const companyColumns = `company_id, name, legal_form, vat_number, street, zip, city, canton, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for companies and memberships.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepository {
	return &PgxCompanyRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxCompanyRepository implements portsrepo.CompanyRepository
var _ portsrepo.CompanyRepository = (*PgxCompanyRepository)(nil)

func scanCompany(row pgx.Row) (models.Company, error) {
	var m models.Company
	err := row.Scan(
		&m.CompanyID,
		&m.Name,
		&m.LegalForm,
		&m.VATNumber,
		&m.Street,
		&m.ZIP,
		&m.City,
		&m.Canton,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveCompany persists a new company and the creator's OWNER membership in
// one transaction.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company, creatorUserID string) error {
	m := mapping.ToModelCompany(company)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	companyQuery := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, companyQuery,
		m.CompanyID, m.Name, m.LegalForm, m.VATNumber,
		m.Street, m.ZIP, m.City, m.Canton, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save company %s: %w", m.CompanyID, err)
	}

	membershipQuery := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err = tx.Exec(ctx, membershipQuery, creatorUserID, m.CompanyID, string(domain.RoleOwner), m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save owner membership for company %s: %w", m.CompanyID, err)
	}

	return r.Commit(ctx, tx)
}

// FindCompanyByID retrieves a company.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE company_id = $1;
	`
	m, err := scanCompany(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company by ID %s: %w", companyID, err)
	}

	company := mapping.ToDomainCompany(m)
	return &company, nil
}

// ListCompaniesByUser retrieves the companies a user is a member of.
func (r *PgxCompanyRepository) ListCompaniesByUser(ctx context.Context, userID string) ([]domain.Company, error) {
	query := `
		SELECT c.company_id, c.name, c.legal_form, c.vat_number, c.street, c.zip, c.city, c.canton, c.is_active,
			c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM companies c
		JOIN user_companies uc ON uc.company_id = c.company_id
		WHERE uc.user_id = $1 AND uc.role <> 'REMOVED'
		ORDER BY c.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies for user %s: %w", userID, err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		m, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, mapping.ToDomainCompany(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}

	return companies, nil
}

// UpdateCompany updates company master data.
func (r *PgxCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)

	query := `
		UPDATE companies
		SET name = $2, legal_form = $3, vat_number = $4, street = $5, zip = $6, city = $7, canton = $8,
			is_active = $9, last_updated_at = $10, last_updated_by = $11
		WHERE company_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.Name, m.LegalForm, m.VATNumber,
		m.Street, m.ZIP, m.City, m.Canton, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update company %s: %w", m.CompanyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetUserCompanyRole retrieves the role of a user in a company.
func (r *PgxCompanyRepository) GetUserCompanyRole(ctx context.Context, userID string, companyID string) (domain.CompanyRole, error) {
	query := `SELECT role FROM user_companies WHERE user_id = $1 AND company_id = $2;`

	var role string
	err := r.Pool.QueryRow(ctx, query, userID, companyID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to get role of user %s in company %s: %w", userID, companyID, err)
	}

	return domain.CompanyRole(role), nil
}

// AddUserToCompany creates or reactivates a membership row. A REMOVED row is
// overwritten with the new role.
func (r *PgxCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	query := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, company_id)
		DO UPDATE SET role = EXCLUDED.role, joined_at = EXCLUDED.joined_at
		WHERE user_companies.role = 'REMOVED';
	`
	tag, err := r.Pool.Exec(ctx, query,
		membership.UserID, membership.CompanyID, string(membership.Role), membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewAppError(404, "user or company does not exist", apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to add user %s to company %s: %w", membership.UserID, membership.CompanyID, err)
	}
	if tag.RowsAffected() == 0 {
		// The conflict target exists with an active role.
		return fmt.Errorf("%w: user is already a member of the company", apperrors.ErrDuplicate)
	}
	return nil
}

// UpdateUserCompanyRole changes an existing membership's role.
func (r *PgxCompanyRepository) UpdateUserCompanyRole(ctx context.Context, userID string, companyID string, role domain.CompanyRole) error {
	query := `UPDATE user_companies SET role = $3 WHERE user_id = $1 AND company_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, userID, companyID, string(role))
	if err != nil {
		return fmt.Errorf("failed to update role of user %s in company %s: %w", userID, companyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListCompanyMembers retrieves all non-removed memberships of a company with
// the member names joined in.
func (r *PgxCompanyRepository) ListCompanyMembers(ctx context.Context, companyID string) ([]domain.UserCompany, error) {
	query := `
		SELECT uc.user_id, u.name, uc.company_id, uc.role, uc.joined_at
		FROM user_companies uc
		JOIN users u ON u.user_id = uc.user_id
		WHERE uc.company_id = $1 AND uc.role <> 'REMOVED'
		ORDER BY uc.joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members of company %s: %w", companyID, err)
	}
	defer rows.Close()

	members := []domain.UserCompany{}
	for rows.Next() {
		var member domain.UserCompany
		var role string
		if err := rows.Scan(&member.UserID, &member.UserName, &member.CompanyID, &role, &member.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		member.Role = domain.CompanyRole(role)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}

	return members, nil
}
