package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mathisescriva/crmdesk/internal/domain/template"
	"github.com/mathisescriva/crmdesk/internal/repository"
)

// TemplateRepository implements template.Repository for the local fallback store
type TemplateRepository struct {
	db *DB
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db *DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts the template, assigning a locally generated id when missing
func (r *TemplateRepository) Create(ctx context.Context, t *template.Template) (*template.Template, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	query := `
		INSERT INTO email_templates (id, name, subject, body, category, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Subject, t.Body, t.Category, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return t, nil
}

// Get retrieves a template by ID
func (r *TemplateRepository) Get(ctx context.Context, id string) (*template.Template, error) {
	query := templateSelect + ` WHERE id = ?`
	return scanTemplate(r.db.QueryRowContext(ctx, query, id))
}

// List returns all templates in insertion order
func (r *TemplateRepository) List(ctx context.Context) ([]template.Template, error) {
	rows, err := r.db.QueryContext(ctx, templateSelect+` ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []template.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}
	return templates, nil
}

// Update merges the patch via read-modify-write
func (r *TemplateRepository) Update(ctx context.Context, id string, patch template.Patch) (*template.Template, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(t)

	query := `
		UPDATE email_templates SET name = ?, subject = ?, body = ?, category = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = r.db.ExecContext(ctx, query, t.Name, t.Subject, t.Body, t.Category, t.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return t, nil
}

// Delete removes the template. Deleting an absent id is a no-op.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM email_templates WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

const templateSelect = `
	SELECT id, name, subject, body, category, created_by, created_at, updated_at
	FROM email_templates`

func scanTemplate(row rowScanner) (*template.Template, error) {
	var t template.Template
	var category sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &category, &t.CreatedBy, &t.CreatedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}

	t.Category = category.String
	if updatedAt.Valid {
		t.UpdatedAt = &updatedAt.Time
	}
	return &t, nil
}
