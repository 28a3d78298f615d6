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

const groupColumns = `group_id, company_id, number, name, parent_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountGroupRepository struct {
	BaseRepository
}

// newPgxAccountGroupRepository creates a new repository for chart-of-accounts groups.
func newPgxAccountGroupRepository(pool *pgxpool.Pool) portsrepo.AccountGroupRepository {
	return &PgxAccountGroupRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountGroupRepository implements portsrepo.AccountGroupRepository
var _ portsrepo.AccountGroupRepository = (*PgxAccountGroupRepository)(nil)

func scanGroup(row pgx.Row) (models.AccountGroup, error) {
	var m models.AccountGroup
	err := row.Scan(
		&m.GroupID,
		&m.CompanyID,
		&m.Number,
		&m.Name,
		&m.ParentID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveGroup inserts a new account group.
func (r *PgxAccountGroupRepository) SaveGroup(ctx context.Context, group domain.AccountGroup) error {
	m := mapping.ToModelAccountGroup(group)

	query := `
		INSERT INTO account_groups (` + groupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.GroupID, m.CompanyID, m.Number, m.Name, m.ParentID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: group number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to save account group %s: %w", m.GroupID, err)
	}
	return nil
}

// SaveGroups inserts a batch of groups in one round trip.
func (r *PgxAccountGroupRepository) SaveGroups(ctx context.Context, groups []domain.AccountGroup) error {
	if len(groups) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO account_groups (` + groupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, group := range groups {
		m := mapping.ToModelAccountGroup(group)
		batch.Queue(query,
			m.GroupID, m.CompanyID, m.Number, m.Name, m.ParentID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := range groups {
		if _, err := br.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: group number %s already exists", apperrors.ErrDuplicate, groups[i].Number)
			}
			return fmt.Errorf("failed to save account group %s: %w", groups[i].GroupID, err)
		}
	}
	return nil
}

// UpdateGroupParent sets the parent link of a group.
func (r *PgxAccountGroupRepository) UpdateGroupParent(ctx context.Context, companyID string, groupID string, parentID *string, userID string, now time.Time) error {
	query := `
		UPDATE account_groups
		SET parent_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND group_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, groupID, parentID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update parent of group %s: %w", groupID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateGroup updates a group's number and name.
func (r *PgxAccountGroupRepository) UpdateGroup(ctx context.Context, group domain.AccountGroup) error {
	m := mapping.ToModelAccountGroup(group)

	query := `
		UPDATE account_groups
		SET number = $3, name = $4, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND group_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.GroupID, m.Number, m.Name, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: group number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to update account group %s: %w", m.GroupID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteGroup removes a group. Emptiness is checked by the service layer.
func (r *PgxAccountGroupRepository) DeleteGroup(ctx context.Context, companyID string, groupID string) error {
	query := `DELETE FROM account_groups WHERE company_id = $1 AND group_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, companyID, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete account group %s: %w", groupID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindGroupByID retrieves a group within a company.
func (r *PgxAccountGroupRepository) FindGroupByID(ctx context.Context, companyID string, groupID string) (*domain.AccountGroup, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM account_groups
		WHERE company_id = $1 AND group_id = $2;
	`
	m, err := scanGroup(r.Pool.QueryRow(ctx, query, companyID, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find group by ID %s: %w", groupID, err)
	}

	group := mapping.ToDomainAccountGroup(m)
	return &group, nil
}

// FindGroupsByNumbers retrieves groups by number, keyed by number.
func (r *PgxAccountGroupRepository) FindGroupsByNumbers(ctx context.Context, companyID string, numbers []string) (map[string]domain.AccountGroup, error) {
	if len(numbers) == 0 {
		return map[string]domain.AccountGroup{}, nil
	}

	query := `
		SELECT ` + groupColumns + `
		FROM account_groups
		WHERE company_id = $1 AND number = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, companyID, numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups by numbers: %w", err)
	}
	defer rows.Close()

	groups := make(map[string]domain.AccountGroup)
	for rows.Next() {
		m, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups[m.Number] = mapping.ToDomainAccountGroup(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}

	return groups, nil
}

// ListGroups retrieves all groups of a company.
func (r *PgxAccountGroupRepository) ListGroups(ctx context.Context, companyID string) ([]domain.AccountGroup, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM account_groups
		WHERE company_id = $1
		ORDER BY number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for company %s: %w", companyID, err)
	}
	defer rows.Close()

	ms := []models.AccountGroup{}
	for rows.Next() {
		m, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}

	return mapping.ToDomainAccountGroupSlice(ms), nil
}
