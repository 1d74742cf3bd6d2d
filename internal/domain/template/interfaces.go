package template

import "context"

// Repository provides persistence for email templates.
type Repository interface {
	Create(ctx context.Context, t *Template) (*Template, error)
	Get(ctx context.Context, id string) (*Template, error)
	List(ctx context.Context) ([]Template, error)
	Update(ctx context.Context, id string, patch Patch) (*Template, error)
	Delete(ctx context.Context, id string) error
}
