package project

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

// Service handles project, member, document and note operations.
type Service struct {
	repo      Repository
	notes     NoteRepository
	companies directory.CompanyDirectory
	roster    *directory.Roster
	recorder  *activity.Service
	bus       *eventbus.Bus
	logger    *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, notes NoteRepository, companies directory.CompanyDirectory, roster *directory.Roster, recorder *activity.Service, bus *eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		notes:     notes,
		companies: companies,
		roster:    roster,
		recorder:  recorder,
		bus:       bus,
		logger:    logger,
	}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Title         string
	Description   string
	CompanyID     string
	Stage         Stage
	Budget        float64
	Probability   int
	StartDate     *time.Time
	ExpectedClose *time.Time
	OwnerID       string
}

// Create validates the request, snapshots the company name, persists the
// project and enrolls the owner as its first member.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Title) == "" || req.CompanyID == "" || req.OwnerID == "" {
		return nil, ErrInvalidInput
	}
	if req.Probability < 0 || req.Probability > 100 {
		return nil, ErrInvalidInput
	}

	stage := req.Stage
	if stage == "" {
		stage = StageQualification
	}

	p := &Project{
		Title:         req.Title,
		Description:   req.Description,
		CompanyID:     req.CompanyID,
		Status:        StatusPlanning,
		Stage:         stage,
		Budget:        req.Budget,
		Probability:   req.Probability,
		StartDate:     req.StartDate,
		ExpectedClose: req.ExpectedClose,
		OwnerID:       req.OwnerID,
		CreatedAt:     time.Now(),
	}
	p.CompanyName = s.snapshotCompanyName(ctx, req.CompanyID)

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	if err := s.repo.AddMember(ctx, &Member{ProjectID: created.ID, UserID: req.OwnerID, Role: RoleOwner}); err != nil {
		return nil, fmt.Errorf("enrolling owner: %w", err)
	}

	if _, err := s.recorder.Record(ctx, req.OwnerID, activity.ActionCreated, activity.TargetProject, created.ID, created.Title, activity.RecordOptions{}); err != nil {
		return nil, err
	}
	s.bus.Publish(eventbus.ChannelProjects)
	return created, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

// List returns projects matching the filter.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Project, error) {
	return s.repo.List(ctx, opts)
}

// Update merges the patch into the project, stamps updated_at and records one
// activity entry: "signed" on a move to closed_won, "completed" when the
// status lands on completed, "updated" otherwise.
func (s *Service) Update(ctx context.Context, actorID, id string, patch Patch) (*Project, error) {
	if patch.Probability != nil && (*patch.Probability < 0 || *patch.Probability > 100) {
		return nil, ErrInvalidInput
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return nil, ErrInvalidInput
	}
	now := time.Now()
	patch.UpdatedAt = &now

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	action := activity.ActionUpdated
	target := activity.TargetProject
	switch {
	case patch.Stage != nil && *patch.Stage == StageClosedWon:
		action = activity.ActionSigned
		target = activity.TargetDeal
	case patch.Status != nil && *patch.Status == StatusCompleted:
		action = activity.ActionCompleted
	}
	if _, err := s.recorder.Record(ctx, actorID, action, target, updated.ID, updated.Title, activity.RecordOptions{}); err != nil {
		return nil, err
	}
	s.bus.Publish(eventbus.ChannelProjects)
	return updated, nil
}

// Delete removes the project. Deleting an id that is already gone is a no-op
// on both stores.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	s.bus.Publish(eventbus.ChannelProjects)
	return nil
}

// AddMember enrolls a roster user on the project. Membership is unique per
// (project, user).
func (s *Service) AddMember(ctx context.Context, projectID, userID string, role Role) error {
	if role == "" {
		role = RoleMember
	}
	if role != RoleOwner && role != RoleMember {
		return ErrInvalidInput
	}
	if _, err := s.Get(ctx, projectID); err != nil {
		return err
	}
	err := s.repo.AddMember(ctx, &Member{ProjectID: projectID, UserID: userID, Role: role})
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrDuplicateMember
	}
	if err != nil {
		return fmt.Errorf("adding member: %w", err)
	}
	s.bus.Publish(eventbus.ChannelProjects)
	return nil
}

// RemoveMember drops a user from the project.
func (s *Service) RemoveMember(ctx context.Context, projectID, userID string) error {
	if err := s.repo.RemoveMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("removing member: %w", err)
	}
	s.bus.Publish(eventbus.ChannelProjects)
	return nil
}

// Members returns the project's member links.
func (s *Service) Members(ctx context.Context, projectID string) ([]Member, error) {
	return s.repo.ListMembers(ctx, projectID)
}

// AddDocument attaches a link document to the project.
func (s *Service) AddDocument(ctx context.Context, projectID string, name, url string, docType DocType, addedBy string) (*Document, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(url) == "" {
		return nil, ErrInvalidInput
	}
	if docType == "" {
		docType = DocOther
	}
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	d := &Document{
		ProjectID: projectID,
		Name:      name,
		URL:       url,
		Type:      docType,
		AddedBy:   addedBy,
		CreatedAt: time.Now(),
	}
	added, err := s.repo.AddDocument(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("adding document: %w", err)
	}

	if _, err := s.recorder.Record(ctx, addedBy, activity.ActionUpdated, activity.TargetProject, p.ID, p.Title, activity.RecordOptions{Description: "added document " + name}); err != nil {
		return nil, err
	}
	s.bus.Publish(eventbus.ChannelProjects)
	return added, nil
}

// Documents returns the project's documents in insertion order.
func (s *Service) Documents(ctx context.Context, projectID string) ([]Document, error) {
	return s.repo.ListDocuments(ctx, projectID)
}

// DeleteDocument removes a document link.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	s.bus.Publish(eventbus.ChannelProjects)
	return nil
}

// AddNote attaches a note to the project, resolving @mentions in the content
// against the roster through the shared extractor.
func (s *Service) AddNote(ctx context.Context, projectID, authorID, content string) (*Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	n := &Note{
		ProjectID: projectID,
		AuthorID:  authorID,
		Content:   content,
		Mentions:  mention.Extract(content, s.roster),
		CreatedAt: time.Now(),
	}
	added, err := s.notes.Add(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("adding note: %w", err)
	}

	action := activity.ActionUpdated
	if len(added.Mentions) > 0 {
		action = activity.ActionMentioned
	}
	opts := activity.RecordOptions{
		Description:    noteExcerpt(content),
		MentionedUsers: added.Mentions,
	}
	if _, err := s.recorder.Record(ctx, authorID, action, activity.TargetProject, p.ID, p.Title, opts); err != nil {
		return nil, err
	}
	s.bus.Publish(eventbus.ChannelNotes)
	return added, nil
}

// Notes returns the project's notes in insertion order.
func (s *Service) Notes(ctx context.Context, projectID string) ([]Note, error) {
	return s.notes.ListByProject(ctx, projectID)
}

// NotesMentioning returns the notes whose mentions include userID, newest
// first.
func (s *Service) NotesMentioning(ctx context.Context, userID string) ([]Note, error) {
	return s.notes.ListMentioning(ctx, userID)
}

func (s *Service) snapshotCompanyName(ctx context.Context, companyID string) string {
	if s.companies == nil {
		return ""
	}
	c, err := s.companies.Get(ctx, companyID)
	if err != nil {
		s.logger.Debug("company snapshot skipped", "company_id", companyID, "error", err)
		return ""
	}
	return c.Name
}

func noteExcerpt(text string) string {
	const max = 120
	if len(text) <= max {
		return text
	}
	return text[:max]
}
