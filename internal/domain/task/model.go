package task

import "time"

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Task is a shared work item, optionally attached to a company and a project.
// CompanyName is a snapshot taken from the directory at creation time; it is
// not kept in sync with later renames.
type Task struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CompanyID   string     `json:"company_id,omitempty"`
	CompanyName string     `json:"company_name,omitempty"`
	ProjectID   string     `json:"project_id,omitempty"`
	AssignedTo  []string   `json:"assigned_to"`
	AssignedBy  string     `json:"assigned_by"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	ProjectID   *string     `json:"project_id,omitempty"`
	AssignedTo  *[]string   `json:"assigned_to,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	Status      *Status     `json:"status,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

// Apply merges the patch into t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.UpdatedAt != nil {
		t.UpdatedAt = p.UpdatedAt
	}
}

// Comment is a free-text comment on a task. Mentions holds the roster ids
// resolved from the content at composition time.
type Comment struct {
	ID        string    `json:"id,omitempty"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Mentions  []string  `json:"mentions,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ListOptions filters task listings. Filters are pushed down as query
// parameters on the remote store and WHERE clauses on the local store.
type ListOptions struct {
	ProjectID  string
	CompanyID  string
	Status     Status
	AssignedTo string
}
