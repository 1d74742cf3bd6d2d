package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/repository"
)

// ProjectRepository implements project.Repository for the local fallback store
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts the project, assigning a locally generated id when missing
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO projects (
			id, title, description, company_id, company_name, status, stage,
			budget, spent, probability, progress, start_date, end_date,
			expected_close_date, owner_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.CompanyID,
		p.CompanyName,
		p.Status,
		p.Stage,
		p.Budget,
		p.Spent,
		p.Probability,
		p.Progress,
		p.StartDate,
		p.EndDate,
		p.ExpectedClose,
		p.OwnerID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return p, nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := projectSelect + ` WHERE id = ?`
	return scanProject(r.db.QueryRowContext(ctx, query, id))
}

// List returns projects matching the filter, in insertion order
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	query := projectSelect
	var conditions []string
	var args []interface{}

	if opts.CompanyID != "" {
		conditions = append(conditions, "company_id = ?")
		args = append(args, opts.CompanyID)
	}
	if opts.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, opts.Status)
	}
	if opts.Stage != "" {
		conditions = append(conditions, "stage = ?")
		args = append(args, opts.Stage)
	}
	if opts.OwnerID != "" {
		conditions = append(conditions, "owner_id = ?")
		args = append(args, opts.OwnerID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY rowid ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// Update merges the patch via read-modify-write. There is no version check;
// two concurrent writers are last-write-wins on the fallback store.
func (r *ProjectRepository) Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)

	query := `
		UPDATE projects SET
			title = ?, description = ?, status = ?, stage = ?, budget = ?,
			spent = ?, probability = ?, progress = ?, start_date = ?,
			end_date = ?, expected_close_date = ?, owner_id = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = r.db.ExecContext(ctx, query,
		p.Title,
		p.Description,
		p.Status,
		p.Stage,
		p.Budget,
		p.Spent,
		p.Probability,
		p.Progress,
		p.StartDate,
		p.EndDate,
		p.ExpectedClose,
		p.OwnerID,
		p.UpdatedAt,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

// Delete removes the project. Deleting an absent id is a no-op.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddMember inserts a membership link. A second insert for the same
// (project, user) pair reports repository.ErrDuplicate.
func (r *ProjectRepository) AddMember(ctx context.Context, m *project.Member) error {
	query := `INSERT INTO project_members (project_id, user_id, role) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, m.ProjectID, m.UserID, m.Role)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember drops a membership link. Removing an absent link is a no-op.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	query := `DELETE FROM project_members WHERE project_id = ? AND user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// ListMembers returns the project's members in insertion order
func (r *ProjectRepository) ListMembers(ctx context.Context, projectID string) ([]project.Member, error) {
	query := `SELECT project_id, user_id, role FROM project_members WHERE project_id = ? ORDER BY rowid ASC`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []project.Member
	for rows.Next() {
		var m project.Member
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, nil
}

// AddDocument inserts a document link, assigning a locally generated id when missing
func (r *ProjectRepository) AddDocument(ctx context.Context, d *project.Document) (*project.Document, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	query := `
		INSERT INTO project_documents (id, project_id, name, url, type, added_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, d.ID, d.ProjectID, d.Name, d.URL, d.Type, d.AddedBy, d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add document: %w", err)
	}
	return d, nil
}

// ListDocuments returns the project's documents in insertion order
func (r *ProjectRepository) ListDocuments(ctx context.Context, projectID string) ([]project.Document, error) {
	query := `
		SELECT id, project_id, name, url, type, added_by, created_at
		FROM project_documents WHERE project_id = ? ORDER BY rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []project.Document
	for rows.Next() {
		var d project.Document
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Name, &d.URL, &d.Type, &d.AddedBy, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document link. Deleting an absent id is a no-op.
func (r *ProjectRepository) DeleteDocument(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

const projectSelect = `
	SELECT id, title, description, company_id, company_name, status, stage,
	       budget, spent, probability, progress, start_date, end_date,
	       expected_close_date, owner_id, created_at, updated_at
	FROM projects`

func scanProject(row rowScanner) (*project.Project, error) {
	var p project.Project
	var description, companyName sql.NullString
	var startDate, endDate, expectedClose, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.Title,
		&description,
		&p.CompanyID,
		&companyName,
		&p.Status,
		&p.Stage,
		&p.Budget,
		&p.Spent,
		&p.Probability,
		&p.Progress,
		&startDate,
		&endDate,
		&expectedClose,
		&p.OwnerID,
		&p.CreatedAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	p.Description = description.String
	p.CompanyName = companyName.String
	if startDate.Valid {
		p.StartDate = &startDate.Time
	}
	if endDate.Valid {
		p.EndDate = &endDate.Time
	}
	if expectedClose.Valid {
		p.ExpectedClose = &expectedClose.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return &p, nil
}

// NoteRepository implements project.NoteRepository for the local fallback store
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Add inserts a note, assigning a locally generated id when missing
func (r *NoteRepository) Add(ctx context.Context, n *project.Note) (*project.Note, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	mentions, err := encodeIDs(n.Mentions)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO project_notes (id, project_id, author_id, content, mentions, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query, n.ID, n.ProjectID, n.AuthorID, n.Content, mentions, n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return n, nil
}

// ListByProject returns the project's notes in insertion order
func (r *NoteRepository) ListByProject(ctx context.Context, projectID string) ([]project.Note, error) {
	query := noteSelect + ` WHERE project_id = ? ORDER BY rowid ASC`
	return r.queryNotes(ctx, query, projectID)
}

// ListMentioning returns the notes whose mentions include userID, newest first
func (r *NoteRepository) ListMentioning(ctx context.Context, userID string) ([]project.Note, error) {
	query := noteSelect + ` WHERE mentions LIKE ? ORDER BY created_at DESC`
	return r.queryNotes(ctx, query, `%"`+userID+`"%`)
}

// Delete removes the note. Deleting an absent id is a no-op.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

const noteSelect = `
	SELECT id, project_id, author_id, content, mentions, created_at
	FROM project_notes`

func (r *NoteRepository) queryNotes(ctx context.Context, query string, args ...interface{}) ([]project.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []project.Note
	for rows.Next() {
		var n project.Note
		var mentions sql.NullString
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.AuthorID, &n.Content, &mentions, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		if n.Mentions, err = decodeIDs(mentions); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating note rows: %w", err)
	}
	return notes, nil
}
