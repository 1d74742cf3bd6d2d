package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/repository"
)

// TaskRepository implements task.Repository against the remote API
type TaskRepository struct {
	client *Client
}

// NewTaskRepository creates a new remote TaskRepository
func NewTaskRepository(client *Client) *TaskRepository {
	return &TaskRepository{client: client}
}

// Create posts the task and adopts the server-assigned row
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	payload := *t
	payload.ID = "" // server assigns

	var rows []task.Task
	if err := r.client.Do(ctx, http.MethodPost, "/tasks", nil, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	query := url.Values{}
	query.Set("id", eq(id))

	var rows []task.Task
	if err := r.client.Do(ctx, http.MethodGet, "/tasks", query, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// List returns tasks matching the filter; filters are pushed down as query
// parameters
func (r *TaskRepository) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	query := url.Values{}
	if opts.ProjectID != "" {
		query.Set("project_id", eq(opts.ProjectID))
	}
	if opts.CompanyID != "" {
		query.Set("company_id", eq(opts.CompanyID))
	}
	if opts.Status != "" {
		query.Set("status", eq(string(opts.Status)))
	}
	if opts.AssignedTo != "" {
		query.Set("assigned_to", contains(opts.AssignedTo))
	}
	query.Set("order", "created_at.asc")

	var rows []task.Task
	if err := r.client.Do(ctx, http.MethodGet, "/tasks", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update patches the task and adopts the updated row
func (r *TaskRepository) Update(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	query := url.Values{}
	query.Set("id", eq(id))

	var rows []task.Task
	if err := r.client.Do(ctx, http.MethodPatch, "/tasks", query, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// Delete removes the task. Deleting an absent id is a no-op.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", eq(id))
	return notFoundOK(r.client.Do(ctx, http.MethodDelete, "/tasks", query, nil, nil))
}

// CommentRepository implements task.CommentRepository against the remote API
type CommentRepository struct {
	client *Client
}

// NewCommentRepository creates a new remote CommentRepository
func NewCommentRepository(client *Client) *CommentRepository {
	return &CommentRepository{client: client}
}

// Add posts the comment and adopts the server-assigned row
func (r *CommentRepository) Add(ctx context.Context, c *task.Comment) (*task.Comment, error) {
	payload := *c
	payload.ID = ""

	var rows []task.Comment
	if err := r.client.Do(ctx, http.MethodPost, "/task_comments", nil, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// ListByTask returns the comments on a task in insertion order
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]task.Comment, error) {
	query := url.Values{}
	query.Set("task_id", eq(taskID))
	query.Set("order", "created_at.asc")

	var rows []task.Comment
	if err := r.client.Do(ctx, http.MethodGet, "/task_comments", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListMentioning returns the comments whose mentions include userID, newest first
func (r *CommentRepository) ListMentioning(ctx context.Context, userID string) ([]task.Comment, error) {
	query := url.Values{}
	query.Set("mentions", contains(userID))
	query.Set("order", "created_at.desc")

	var rows []task.Comment
	if err := r.client.Do(ctx, http.MethodGet, "/task_comments", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the comment. Deleting an absent id is a no-op.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", eq(id))
	return notFoundOK(r.client.Do(ctx, http.MethodDelete, "/task_comments", query, nil, nil))
}
