package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// taskService implements the TaskSvcFacade interface
type taskService struct {
	BaseService
	taskRepo portsrepo.TaskRepository
}

// NewTaskService creates a new task service with the provided dependencies
func NewTaskService(taskRepo portsrepo.TaskRepository, authorizer portssvc.CompanyAuthorizerSvc) portssvc.TaskSvcFacade {
	return &taskService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		taskRepo:    taskRepo,
	}
}

// Ensure taskService implements the TaskSvcFacade interface
var _ portssvc.TaskSvcFacade = (*taskService)(nil)

// GetTaskByID retrieves a specific task
func (s *taskService) GetTaskByID(ctx context.Context, companyID string, taskID string, requestingUserID string) (*domain.Task, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindTaskByID(ctx, companyID, taskID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find task by ID",
				slog.String("task_id", taskID))
		}
		return nil, err
	}
	return task, nil
}

// ListTasks retrieves a filtered, paginated list of tasks
func (s *taskService) ListTasks(ctx context.Context, companyID string, requestingUserID string, params dto.ListTasksParams) (*dto.ListTasksResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	filter := portsrepo.TaskFilter{
		Status:     params.Status,
		Priority:   params.Priority,
		Area:       params.Area,
		AssigneeID: params.AssigneeID,
		Limit:      params.Limit,
		NextToken:  params.NextToken,
	}

	tasks, nextToken, err := s.taskRepo.ListTasks(ctx, companyID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tasks",
			slog.String("company_id", companyID))
		return nil, err
	}

	return &dto.ListTasksResponse{
		Tasks:     dto.ToTaskResponses(tasks),
		NextToken: nextToken,
	}, nil
}

// CreateTask persists a new task
func (s *taskService) CreateTask(ctx context.Context, companyID string, req dto.CreateTaskRequest, creatorUserID string) (*domain.Task, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := time.Now()
	task := domain.Task{
		TaskID:      uuid.NewString(),
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskOpen,
		Priority:    priority,
		Area:        req.Area,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to save task",
			slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Task created",
		slog.String("task_id", task.TaskID))
	return &task, nil
}

// UpdateTask updates task details including status transitions
func (s *taskService) UpdateTask(ctx context.Context, companyID string, taskID string, req dto.UpdateTaskRequest, requestingUserID string) (*domain.Task, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindTaskByID(ctx, companyID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if task.Status == domain.TaskCompleted || task.Status == domain.TaskCancelled {
			if *req.Status != task.Status {
				return nil, apperrors.NewAppError(409, "finished tasks cannot change status", apperrors.ErrConflict)
			}
		}
		task.Status = *req.Status
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Area != nil {
		task.Area = *req.Area
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	task.LastUpdatedAt = time.Now()
	task.LastUpdatedBy = requestingUserID

	if err := s.taskRepo.UpdateTask(ctx, *task); err != nil {
		s.LogError(ctx, err, "Failed to update task",
			slog.String("task_id", taskID))
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task
func (s *taskService) DeleteTask(ctx context.Context, companyID string, taskID string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.taskRepo.DeleteTask(ctx, companyID, taskID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete task",
				slog.String("task_id", taskID))
		}
		return err
	}
	return nil
}
