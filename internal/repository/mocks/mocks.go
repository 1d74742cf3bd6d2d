package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/domain/template"
)

// TaskRepository is a mock for task.Repository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	args := m.Called(ctx, t)
	if created, ok := args.Get(0).(*task.Task); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	args := m.Called(ctx, id, patch)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// CommentRepository is a mock for task.CommentRepository.
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Add(ctx context.Context, c *task.Comment) (*task.Comment, error) {
	args := m.Called(ctx, c)
	if added, ok := args.Get(0).(*task.Comment); ok {
		return added, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]task.Comment, error) {
	args := m.Called(ctx, taskID)
	if list, ok := args.Get(0).([]task.Comment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) ListMentioning(ctx context.Context, userID string) ([]task.Comment, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]task.Comment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	args := m.Called(ctx, p)
	if created, ok := args.Get(0).(*project.Project); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*project.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	args := m.Called(ctx, id, patch)
	if p, ok := args.Get(0).(*project.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) AddMember(ctx context.Context, member *project.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *ProjectRepository) ListMembers(ctx context.Context, projectID string) ([]project.Member, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]project.Member); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) AddDocument(ctx context.Context, d *project.Document) (*project.Document, error) {
	args := m.Called(ctx, d)
	if added, ok := args.Get(0).(*project.Document); ok {
		return added, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListDocuments(ctx context.Context, projectID string) ([]project.Document, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]project.Document); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) DeleteDocument(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// NoteRepository is a mock for project.NoteRepository.
type NoteRepository struct {
	mock.Mock
}

func (m *NoteRepository) Add(ctx context.Context, n *project.Note) (*project.Note, error) {
	args := m.Called(ctx, n)
	if added, ok := args.Get(0).(*project.Note); ok {
		return added, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteRepository) ListByProject(ctx context.Context, projectID string) ([]project.Note, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]project.Note); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteRepository) ListMentioning(ctx context.Context, userID string) ([]project.Note, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]project.Note); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TemplateRepository is a mock for template.Repository.
type TemplateRepository struct {
	mock.Mock
}

func (m *TemplateRepository) Create(ctx context.Context, t *template.Template) (*template.Template, error) {
	args := m.Called(ctx, t)
	if created, ok := args.Get(0).(*template.Template); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateRepository) Get(ctx context.Context, id string) (*template.Template, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*template.Template); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateRepository) List(ctx context.Context) ([]template.Template, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]template.Template); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateRepository) Update(ctx context.Context, id string, patch template.Patch) (*template.Template, error) {
	args := m.Called(ctx, id, patch)
	if t, ok := args.Get(0).(*template.Template); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) (*activity.Entry, error) {
	args := m.Called(ctx, entry)
	if stored, ok := args.Get(0).(*activity.Entry); ok {
		return stored, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Recent(ctx context.Context, limit int) ([]activity.Entry, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Mentioning(ctx context.Context, userID string) ([]activity.Entry, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
