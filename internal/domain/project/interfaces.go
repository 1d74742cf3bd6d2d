package project

import "context"

// Repository provides persistence for projects, their members and documents.
type Repository interface {
	Create(ctx context.Context, p *Project) (*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, opts ListOptions) ([]Project, error)
	Update(ctx context.Context, id string, patch Patch) (*Project, error)
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, m *Member) error
	RemoveMember(ctx context.Context, projectID, userID string) error
	ListMembers(ctx context.Context, projectID string) ([]Member, error)

	AddDocument(ctx context.Context, d *Document) (*Document, error)
	ListDocuments(ctx context.Context, projectID string) ([]Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// NoteRepository provides persistence for project notes.
type NoteRepository interface {
	Add(ctx context.Context, n *Note) (*Note, error)
	ListByProject(ctx context.Context, projectID string) ([]Note, error)
	ListMentioning(ctx context.Context, userID string) ([]Note, error)
	Delete(ctx context.Context, id string) error
}
