package task

import "context"

// Repository provides persistence for tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) (*Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, opts ListOptions) ([]Task, error)
	Update(ctx context.Context, id string, patch Patch) (*Task, error)
	Delete(ctx context.Context, id string) error
}

// CommentRepository provides persistence for task comments.
type CommentRepository interface {
	Add(ctx context.Context, c *Comment) (*Comment, error)
	ListByTask(ctx context.Context, taskID string) ([]Comment, error)
	ListMentioning(ctx context.Context, userID string) ([]Comment, error)
	Delete(ctx context.Context, id string) error
}
