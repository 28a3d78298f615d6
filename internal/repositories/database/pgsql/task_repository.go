package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	"github.com/swisscockpit/kmu-cockpit/internal/models"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/mapping"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/pagination"
)

const taskColumns = `task_id, company_id, title, description, status, priority, area, assignee_id, due_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxTaskRepository struct {
	BaseRepository
}

// newPgxTaskRepository creates a new repository for tasks.
func newPgxTaskRepository(pool *pgxpool.Pool) portsrepo.TaskRepository {
	return &PgxTaskRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxTaskRepository implements portsrepo.TaskRepository
var _ portsrepo.TaskRepository = (*PgxTaskRepository)(nil)

func scanTask(row pgx.Row) (models.Task, error) {
	var m models.Task
	err := row.Scan(
		&m.TaskID,
		&m.CompanyID,
		&m.Title,
		&m.Description,
		&m.Status,
		&m.Priority,
		&m.Area,
		&m.AssigneeID,
		&m.DueDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTask persists a new task.
func (r *PgxTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TaskID, m.CompanyID, m.Title, m.Description,
		m.Status, m.Priority, m.Area, m.AssigneeID, m.DueDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save task %s: %w", m.TaskID, err)
	}
	return nil
}

// FindTaskByID retrieves a task within a company.
func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, companyID string, taskID string) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE company_id = $1 AND task_id = $2;
	`
	m, err := scanTask(r.Pool.QueryRow(ctx, query, companyID, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task by ID %s: %w", taskID, err)
	}

	task := mapping.ToDomainTask(m)
	return &task, nil
}

// ListTasks retrieves a filtered, token-paginated task page ordered by
// (created_at) descending.
func (r *PgxTaskRepository) ListTasks(ctx context.Context, companyID string, filter portsrepo.TaskFilter) ([]domain.Task, *string, error) {
	limit := clampPageLimit(filter.Limit)

	args := []interface{}{companyID}
	conditions := "company_id = $1"
	argPos := 2

	if filter.Status != nil {
		conditions += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, string(*filter.Status))
		argPos++
	}
	if filter.Priority != nil {
		conditions += fmt.Sprintf(" AND priority = $%d", argPos)
		args = append(args, string(*filter.Priority))
		argPos++
	}
	if filter.Area != nil && *filter.Area != "" {
		conditions += fmt.Sprintf(" AND area = $%d", argPos)
		args = append(args, *filter.Area)
		argPos++
	}
	if filter.AssigneeID != nil && *filter.AssigneeID != "" {
		conditions += fmt.Sprintf(" AND assignee_id = $%d", argPos)
		args = append(args, *filter.AssigneeID)
		argPos++
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		// Tasks page by created_at alone; both token halves carry it.
		_, tokenCreatedAt, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", apperrors.ErrValidation)
		}
		conditions += fmt.Sprintf(" AND created_at < $%d", argPos)
		args = append(args, tokenCreatedAt)
		argPos++
	}

	fetchLimit := limit + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d;
	`, taskColumns, conditions, argPos)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query tasks for company %s: %w", companyID, err)
	}
	defer rows.Close()

	ms := []models.Task{}
	for rows.Next() {
		m, err := scanTask(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	var nextToken *string
	if len(ms) == fetchLimit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.CreatedAt)
		nextToken = &token
		ms = ms[:limit]
	}

	return mapping.ToDomainTaskSlice(ms), nextToken, nil
}

// UpdateTask updates an existing task.
func (r *PgxTaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)

	query := `
		UPDATE tasks
		SET title = $3, description = $4, status = $5, priority = $6, area = $7,
			assignee_id = $8, due_date = $9, last_updated_at = $10, last_updated_by = $11
		WHERE company_id = $1 AND task_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.TaskID,
		m.Title, m.Description, m.Status, m.Priority, m.Area,
		m.AssigneeID, m.DueDate, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", m.TaskID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTask removes a task.
func (r *PgxTaskRepository) DeleteTask(ctx context.Context, companyID string, taskID string) error {
	query := `DELETE FROM tasks WHERE company_id = $1 AND task_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, companyID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountOpenTasks counts tasks in OPEN or IN_PROGRESS.
func (r *PgxTaskRepository) CountOpenTasks(ctx context.Context, companyID string) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE company_id = $1 AND status IN ('OPEN', 'IN_PROGRESS');`

	var count int
	if err := r.Pool.QueryRow(ctx, query, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open tasks for company %s: %w", companyID, err)
	}
	return count, nil
}
