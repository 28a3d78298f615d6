package dto

import (
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// CreateTaskRequest defines the data needed to create a task.
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Priority    domain.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Area        string              `json:"area"`
	AssigneeID  *string             `json:"assigneeID"`
	DueDate     *time.Time          `json:"dueDate"`
}

// UpdateTaskRequest defines the updatable task fields.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *domain.TaskStatus   `json:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS COMPLETED CANCELLED"`
	Priority    *domain.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Area        *string              `json:"area"`
	AssigneeID  *string              `json:"assigneeID"`
	DueDate     *time.Time           `json:"dueDate"`
}

// TaskResponse is the API view of a task.
type TaskResponse struct {
	TaskID      string              `json:"taskID"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	Area        string              `json:"area,omitempty"`
	AssigneeID  *string             `json:"assigneeID,omitempty"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ToTaskResponse converts a domain task.
func ToTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:      t.TaskID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Area:        t.Area,
		AssigneeID:  t.AssigneeID,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.LastUpdatedAt,
	}
}

// ToTaskResponses converts a slice of domain tasks.
func ToTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = ToTaskResponse(&tasks[i])
	}
	return out
}

// ListTasksParams defines the task listing query parameters.
type ListTasksParams struct {
	Status     *domain.TaskStatus   `form:"status"`
	Priority   *domain.TaskPriority `form:"priority"`
	Area       *string              `form:"area"`
	AssigneeID *string              `form:"assigneeID"`
	Limit      int                  `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	NextToken  *string              `form:"nextToken"`
}

// ListTasksResponse wraps a task page.
type ListTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	NextToken *string        `json:"nextToken,omitempty"`
}
