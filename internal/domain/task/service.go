package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mathisescriva/crmdesk/internal/directory"
	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/eventbus"
	"github.com/mathisescriva/crmdesk/internal/mention"
	"github.com/mathisescriva/crmdesk/internal/repository"
)

// Service handles task and task-comment operations.
type Service struct {
	repo      Repository
	comments  CommentRepository
	companies directory.CompanyDirectory
	roster    *directory.Roster
	recorder  *activity.Service
	bus       *eventbus.Bus
	logger    *slog.Logger
}

// NewService creates a new task service.
func NewService(repo Repository, comments CommentRepository, companies directory.CompanyDirectory, roster *directory.Roster, recorder *activity.Service, bus *eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		comments:  comments,
		companies: companies,
		roster:    roster,
		recorder:  recorder,
		bus:       bus,
		logger:    logger,
	}
}

// CreateRequest defines task creation inputs.
type CreateRequest struct {
	Title       string
	Description string
	CompanyID   string
	ProjectID   string
	AssignedTo  []string
	AssignedBy  string
	DueDate     *time.Time
	Priority    Priority
}

// Create validates the request, snapshots the company name from the
// directory, persists the task and records one activity entry.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidInput
	}
	if len(req.AssignedTo) == 0 {
		return nil, ErrNoAssignees
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	t := &Task{
		Title:       req.Title,
		Description: req.Description,
		CompanyID:   req.CompanyID,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  req.AssignedBy,
		DueDate:     req.DueDate,
		Priority:    priority,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	t.CompanyName = s.snapshotCompanyName(ctx, req.CompanyID)

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	if _, err := s.recorder.Record(ctx, req.AssignedBy, activity.ActionCreated, activity.TargetTask, created.ID, created.Title, activity.RecordOptions{}); err != nil {
		return nil, err
	}
	s.bus.Publish(eventbus.ChannelTasks)
	return created, nil
}

// Get fetches a task by ID.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// List returns tasks matching the filter.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Task, error) {
	return s.repo.List(ctx, opts)
}

// Update merges the patch into the task, stamps updated_at and records one
// activity entry. A patch that would strip every assignee is rejected; a task
// keeps at least one assignee at all times.
func (s *Service) Update(ctx context.Context, actorID, id string, patch Patch) (*Task, error) {
	if patch.AssignedTo != nil && len(*patch.AssignedTo) == 0 {
		return nil, ErrNoAssignees
	}
	now := time.Now()
	patch.UpdatedAt = &now

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}

	action := activity.ActionUpdated
	if patch.Status != nil && *patch.Status == StatusCompleted {
		action = activity.ActionCompleted
	}
	if _, err := s.recorder.Record(ctx, actorID, action, activity.TargetTask, updated.ID, updated.Title, activity.RecordOptions{}); err != nil {
		return nil, err
	}
	s.bus.Publish(eventbus.ChannelTasks)
	return updated, nil
}

// Delete removes the task. Deleting an id that is already gone is a no-op on
// both stores.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	s.bus.Publish(eventbus.ChannelTasks)
	return nil
}

// AddComment attaches a comment to the task, resolving @mentions in the
// content against the roster through the shared extractor.
func (s *Service) AddComment(ctx context.Context, taskID, userID, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}

	c := &Comment{
		TaskID:    taskID,
		UserID:    userID,
		Content:   content,
		Mentions:  mention.Extract(content, s.roster),
		CreatedAt: time.Now(),
	}
	added, err := s.comments.Add(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}

	action := activity.ActionUpdated
	if len(added.Mentions) > 0 {
		action = activity.ActionMentioned
	}
	opts := activity.RecordOptions{
		Description:    excerpt(content),
		MentionedUsers: added.Mentions,
	}
	if _, err := s.recorder.Record(ctx, userID, action, activity.TargetTask, t.ID, t.Title, opts); err != nil {
		return nil, err
	}
	s.bus.Publish(eventbus.ChannelTaskComments)
	return added, nil
}

// Comments returns the comments on a task in insertion order.
func (s *Service) Comments(ctx context.Context, taskID string) ([]Comment, error) {
	return s.comments.ListByTask(ctx, taskID)
}

// CommentsMentioning returns the comments whose mentions include userID,
// newest first.
func (s *Service) CommentsMentioning(ctx context.Context, userID string) ([]Comment, error) {
	return s.comments.ListMentioning(ctx, userID)
}

func (s *Service) snapshotCompanyName(ctx context.Context, companyID string) string {
	if companyID == "" || s.companies == nil {
		return ""
	}
	c, err := s.companies.Get(ctx, companyID)
	if err != nil {
		s.logger.Debug("company snapshot skipped", "company_id", companyID, "error", err)
		return ""
	}
	return c.Name
}

func excerpt(text string) string {
	const max = 120
	if len(text) <= max {
		return text
	}
	return text[:max]
}
