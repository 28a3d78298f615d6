package services

import (
	"context"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// TaskReaderSvc defines read operations for task data
type TaskReaderSvc interface {
	// GetTaskByID retrieves a specific task by its ID.
	GetTaskByID(ctx context.Context, companyID string, taskID string, requestingUserID string) (*domain.Task, error)

	// ListTasks retrieves a filtered, paginated list of tasks.
	ListTasks(ctx context.Context, companyID string, requestingUserID string, params dto.ListTasksParams) (*dto.ListTasksResponse, error)
}

// TaskWriterSvc defines write operations for task data
type TaskWriterSvc interface {
	// CreateTask persists a new task.
	CreateTask(ctx context.Context, companyID string, req dto.CreateTaskRequest, creatorUserID string) (*domain.Task, error)

	// UpdateTask updates task details including status transitions.
	UpdateTask(ctx context.Context, companyID string, taskID string, req dto.UpdateTaskRequest, requestingUserID string) (*domain.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, companyID string, taskID string, requestingUserID string) error
}

// TaskSvcFacade combines all task-related service interfaces
type TaskSvcFacade interface {
	TaskReaderSvc
	TaskWriterSvc
}
