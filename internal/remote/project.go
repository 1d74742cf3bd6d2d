package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/repository"
)

// ProjectRepository implements project.Repository against the remote API
type ProjectRepository struct {
	client *Client
}

// NewProjectRepository creates a new remote ProjectRepository
func NewProjectRepository(client *Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

// Create posts the project and adopts the server-assigned row
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	payload := *p
	payload.ID = "" // server assigns

	var rows []project.Project
	if err := r.client.Do(ctx, http.MethodPost, "/projects", nil, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := url.Values{}
	query.Set("id", eq(id))

	var rows []project.Project
	if err := r.client.Do(ctx, http.MethodGet, "/projects", query, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// List returns projects matching the filter; filters are pushed down as
// query parameters
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	query := url.Values{}
	if opts.CompanyID != "" {
		query.Set("company_id", eq(opts.CompanyID))
	}
	if opts.Status != "" {
		query.Set("status", eq(string(opts.Status)))
	}
	if opts.Stage != "" {
		query.Set("stage", eq(string(opts.Stage)))
	}
	if opts.OwnerID != "" {
		query.Set("owner_id", eq(opts.OwnerID))
	}
	query.Set("order", "created_at.asc")

	var rows []project.Project
	if err := r.client.Do(ctx, http.MethodGet, "/projects", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update patches the project and adopts the updated row
func (r *ProjectRepository) Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	query := url.Values{}
	query.Set("id", eq(id))

	var rows []project.Project
	if err := r.client.Do(ctx, http.MethodPatch, "/projects", query, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// Delete removes the project. Deleting an absent id is a no-op.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", eq(id))
	return notFoundOK(r.client.Do(ctx, http.MethodDelete, "/projects", query, nil, nil))
}

// AddMember inserts a membership link. The collection's (project, user)
// uniqueness maps a conflict response to repository.ErrDuplicate.
func (r *ProjectRepository) AddMember(ctx context.Context, m *project.Member) error {
	err := r.client.Do(ctx, http.MethodPost, "/project_members", nil, m, nil)
	if apiErr, ok := err.(*APIError); ok && apiErr.Status == http.StatusConflict {
		return repository.ErrDuplicate
	}
	return err
}

// RemoveMember drops a membership link. Removing an absent link is a no-op.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	query := url.Values{}
	query.Set("project_id", eq(projectID))
	query.Set("user_id", eq(userID))
	return notFoundOK(r.client.Do(ctx, http.MethodDelete, "/project_members", query, nil, nil))
}

// ListMembers returns the project's members
func (r *ProjectRepository) ListMembers(ctx context.Context, projectID string) ([]project.Member, error) {
	query := url.Values{}
	query.Set("project_id", eq(projectID))

	var rows []project.Member
	if err := r.client.Do(ctx, http.MethodGet, "/project_members", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// AddDocument posts the document and adopts the server-assigned row
func (r *ProjectRepository) AddDocument(ctx context.Context, d *project.Document) (*project.Document, error) {
	payload := *d
	payload.ID = ""

	var rows []project.Document
	if err := r.client.Do(ctx, http.MethodPost, "/project_documents", nil, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// ListDocuments returns the project's documents in insertion order
func (r *ProjectRepository) ListDocuments(ctx context.Context, projectID string) ([]project.Document, error) {
	query := url.Values{}
	query.Set("project_id", eq(projectID))
	query.Set("order", "created_at.asc")

	var rows []project.Document
	if err := r.client.Do(ctx, http.MethodGet, "/project_documents", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteDocument removes a document link. Deleting an absent id is a no-op.
func (r *ProjectRepository) DeleteDocument(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", eq(id))
	return notFoundOK(r.client.Do(ctx, http.MethodDelete, "/project_documents", query, nil, nil))
}

// NoteRepository implements project.NoteRepository against the remote API
type NoteRepository struct {
	client *Client
}

// NewNoteRepository creates a new remote NoteRepository
func NewNoteRepository(client *Client) *NoteRepository {
	return &NoteRepository{client: client}
}

// Add posts the note and adopts the server-assigned row
func (r *NoteRepository) Add(ctx context.Context, n *project.Note) (*project.Note, error) {
	payload := *n
	payload.ID = ""

	var rows []project.Note
	if err := r.client.Do(ctx, http.MethodPost, "/project_notes", nil, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// ListByProject returns the project's notes in insertion order
func (r *NoteRepository) ListByProject(ctx context.Context, projectID string) ([]project.Note, error) {
	query := url.Values{}
	query.Set("project_id", eq(projectID))
	query.Set("order", "created_at.asc")

	var rows []project.Note
	if err := r.client.Do(ctx, http.MethodGet, "/project_notes", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListMentioning returns the notes whose mentions include userID, newest first
func (r *NoteRepository) ListMentioning(ctx context.Context, userID string) ([]project.Note, error) {
	query := url.Values{}
	query.Set("mentions", contains(userID))
	query.Set("order", "created_at.desc")

	var rows []project.Note
	if err := r.client.Do(ctx, http.MethodGet, "/project_notes", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the note. Deleting an absent id is a no-op.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", eq(id))
	return notFoundOK(r.client.Do(ctx, http.MethodDelete, "/project_notes", query, nil, nil))
}
