package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/repository"
)

// TaskRepository implements task.Repository for the local fallback store
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts the task, assigning a locally generated id when missing
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	assigned, err := encodeIDs(t.AssignedTo)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO tasks (
			id, title, description, company_id, company_name, project_id,
			assigned_to, assigned_by, due_date, priority, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		t.CompanyID,
		t.CompanyName,
		t.ProjectID,
		assigned,
		t.AssignedBy,
		t.DueDate,
		t.Priority,
		t.Status,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return t, nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	query := taskSelect + ` WHERE id = ?`
	return scanTask(r.db.QueryRowContext(ctx, query, id))
}

// List returns tasks matching the filter, in insertion order
func (r *TaskRepository) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	query := taskSelect
	var conditions []string
	var args []interface{}

	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.CompanyID != "" {
		conditions = append(conditions, "company_id = ?")
		args = append(args, opts.CompanyID)
	}
	if opts.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, opts.Status)
	}
	if opts.AssignedTo != "" {
		// assigned_to is a JSON array of ids
		conditions = append(conditions, "assigned_to LIKE ?")
		args = append(args, `%"`+opts.AssignedTo+`"%`)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY rowid ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// Update merges the patch via read-modify-write. There is no version check;
// two concurrent writers are last-write-wins on the fallback store.
func (r *TaskRepository) Update(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(t)

	assigned, err := encodeIDs(t.AssignedTo)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE tasks SET
			title = ?, description = ?, project_id = ?, assigned_to = ?,
			due_date = ?, priority = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.ProjectID,
		assigned,
		t.DueDate,
		t.Priority,
		t.Status,
		t.UpdatedAt,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// Delete removes the task. Deleting an absent id is a no-op.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

const taskSelect = `
	SELECT id, title, description, company_id, company_name, project_id,
	       assigned_to, assigned_by, due_date, priority, status, created_at, updated_at
	FROM tasks`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*task.Task, error) {
	var t task.Task
	var description, companyID, companyName, projectID sql.NullString
	var assigned sql.NullString
	var dueDate, updatedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		&companyID,
		&companyName,
		&projectID,
		&assigned,
		&t.AssignedBy,
		&dueDate,
		&t.Priority,
		&t.Status,
		&t.CreatedAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	t.Description = description.String
	t.CompanyID = companyID.String
	t.CompanyName = companyName.String
	t.ProjectID = projectID.String
	if t.AssignedTo, err = decodeIDs(assigned); err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if updatedAt.Valid {
		t.UpdatedAt = &updatedAt.Time
	}
	return &t, nil
}

// CommentRepository implements task.CommentRepository for the local fallback store
type CommentRepository struct {
	db *DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Add inserts a comment, assigning a locally generated id when missing
func (r *CommentRepository) Add(ctx context.Context, c *task.Comment) (*task.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	mentions, err := encodeIDs(c.Mentions)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO task_comments (id, task_id, user_id, content, mentions, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query, c.ID, c.TaskID, c.UserID, c.Content, mentions, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return c, nil
}

// ListByTask returns the comments on a task in insertion order
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]task.Comment, error) {
	query := commentSelect + ` WHERE task_id = ? ORDER BY rowid ASC`
	return r.queryComments(ctx, query, taskID)
}

// ListMentioning returns the comments whose mentions include userID, newest first
func (r *CommentRepository) ListMentioning(ctx context.Context, userID string) ([]task.Comment, error) {
	query := commentSelect + ` WHERE mentions LIKE ? ORDER BY created_at DESC`
	return r.queryComments(ctx, query, `%"`+userID+`"%`)
}

// Delete removes the comment. Deleting an absent id is a no-op.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_comments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

const commentSelect = `
	SELECT id, task_id, user_id, content, mentions, created_at
	FROM task_comments`

func (r *CommentRepository) queryComments(ctx context.Context, query string, args ...interface{}) ([]task.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []task.Comment
	for rows.Next() {
		var c task.Comment
		var mentions sql.NullString
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &mentions, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if c.Mentions, err = decodeIDs(mentions); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}
