package models

import "time"

// Task is the tasks table row.
type Task struct {
	TaskID      string     `db:"task_id"`
	CompanyID   string     `db:"company_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Status      string     `db:"status"`
	Priority    string     `db:"priority"`
	Area        string     `db:"area"`
	AssigneeID  *string    `db:"assignee_id"`
	DueDate     *time.Time `db:"due_date"`
	AuditFields
}
