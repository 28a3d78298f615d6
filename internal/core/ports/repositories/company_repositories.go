package repositories

import (
	"context"
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// CompanyRepository defines persistence operations for the tenant boundary.
type CompanyRepository interface {
	// SaveCompany persists a new company and the creator's OWNER membership
	// atomically.
	SaveCompany(ctx context.Context, company domain.Company, creatorUserID string) error

	// FindCompanyByID retrieves a company.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompaniesByUser retrieves the companies a user is a member of,
	// excluding REMOVED memberships.
	ListCompaniesByUser(ctx context.Context, userID string) ([]domain.Company, error)

	// UpdateCompany updates company master data.
	UpdateCompany(ctx context.Context, company domain.Company) error

	// GetUserCompanyRole retrieves the role of a user in a company.
	// Returns apperrors.ErrNotFound when there is no membership row.
	GetUserCompanyRole(ctx context.Context, userID string, companyID string) (domain.CompanyRole, error)

	// AddUserToCompany creates or reactivates a membership row.
	AddUserToCompany(ctx context.Context, membership domain.UserCompany) error

	// UpdateUserCompanyRole changes an existing membership's role.
	UpdateUserCompanyRole(ctx context.Context, userID string, companyID string, role domain.CompanyRole) error

	// ListCompanyMembers retrieves all non-removed memberships of a company.
	ListCompanyMembers(ctx context.Context, companyID string) ([]domain.UserCompany, error)
}

// TaskFilter narrows a paginated task listing.
type TaskFilter struct {
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
	Area       *string
	AssigneeID *string
	Limit      int
	NextToken  *string
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	SaveTask(ctx context.Context, task domain.Task) error
	FindTaskByID(ctx context.Context, companyID string, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, companyID string, filter TaskFilter) ([]domain.Task, *string, error)
	UpdateTask(ctx context.Context, task domain.Task) error
	DeleteTask(ctx context.Context, companyID string, taskID string) error

	// CountOpenTasks counts tasks in OPEN or IN_PROGRESS. Feeds the dashboard.
	CountOpenTasks(ctx context.Context, companyID string) (int, error)
}

// RefreshTokenRecord is the persisted form of an issued refresh token.
type RefreshTokenRecord struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
}

// UserRepository defines persistence operations for users and their refresh
// tokens.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error

	SaveRefreshToken(ctx context.Context, record RefreshTokenRecord) error
	FindRefreshToken(ctx context.Context, tokenHash string) (*RefreshTokenRecord, error)
	DeleteRefreshToken(ctx context.Context, tokenHash string) error
	DeleteRefreshTokensForUser(ctx context.Context, userID string) error
}
