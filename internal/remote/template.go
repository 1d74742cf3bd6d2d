package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mathisescriva/crmdesk/internal/domain/template"
	"github.com/mathisescriva/crmdesk/internal/repository"
)

// TemplateRepository implements template.Repository against the remote API
type TemplateRepository struct {
	client *Client
}

// NewTemplateRepository creates a new remote TemplateRepository
func NewTemplateRepository(client *Client) *TemplateRepository {
	return &TemplateRepository{client: client}
}

// Create posts the template and adopts the server-assigned row
func (r *TemplateRepository) Create(ctx context.Context, t *template.Template) (*template.Template, error) {
	payload := *t
	payload.ID = "" // server assigns

	var rows []template.Template
	if err := r.client.Do(ctx, http.MethodPost, "/email_templates", nil, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// Get retrieves a template by ID
func (r *TemplateRepository) Get(ctx context.Context, id string) (*template.Template, error) {
	query := url.Values{}
	query.Set("id", eq(id))

	var rows []template.Template
	if err := r.client.Do(ctx, http.MethodGet, "/email_templates", query, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// List returns all templates in insertion order
func (r *TemplateRepository) List(ctx context.Context) ([]template.Template, error) {
	query := url.Values{}
	query.Set("order", "created_at.asc")

	var rows []template.Template
	if err := r.client.Do(ctx, http.MethodGet, "/email_templates", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update patches the template and adopts the updated row
func (r *TemplateRepository) Update(ctx context.Context, id string, patch template.Patch) (*template.Template, error) {
	query := url.Values{}
	query.Set("id", eq(id))

	var rows []template.Template
	if err := r.client.Do(ctx, http.MethodPatch, "/email_templates", query, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// Delete removes the template. Deleting an absent id is a no-op.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", eq(id))
	return notFoundOK(r.client.Do(ctx, http.MethodDelete, "/email_templates", query, nil, nil))
}
