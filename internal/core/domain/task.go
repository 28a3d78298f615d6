package domain

import "time"

// TaskStatus is the lifecycle state of a task, driven entirely by user edits.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "OPEN"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// TaskPriority orders tasks for display.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// Task is a company-scoped to-do item.
type Task struct {
	TaskID      string       `json:"taskID"`
	CompanyID   string       `json:"companyID"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Area        string       `json:"area"` // Free-form grouping, e.g. "Buchhaltung", "Steuern"
	AssigneeID  *string      `json:"assigneeID"`
	DueDate     *time.Time   `json:"dueDate"`
	AuditFields
}
