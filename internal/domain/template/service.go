package template

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mathisescriva/crmdesk/internal/eventbus"
	"github.com/mathisescriva/crmdesk/internal/repository"
)

// Service handles email template operations.
type Service struct {
	repo   Repository
	bus    *eventbus.Bus
	logger *slog.Logger
}

// NewService creates a new template service.
func NewService(repo Repository, bus *eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

// Create persists a new template.
func (s *Service) Create(ctx context.Context, t *Template) (*Template, error) {
	if t == nil || strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Subject) == "" {
		return nil, ErrInvalidInput
	}
	t.CreatedAt = time.Now()

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}
	s.bus.Publish(eventbus.ChannelTemplates)
	return created, nil
}

// Get fetches a template by ID.
func (s *Service) Get(ctx context.Context, id string) (*Template, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("getting template: %w", err)
	}
	return t, nil
}

// List returns all templates in insertion order.
func (s *Service) List(ctx context.Context) ([]Template, error) {
	return s.repo.List(ctx)
}

// Update merges the patch into the template and stamps updated_at.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Template, error) {
	now := time.Now()
	patch.UpdatedAt = &now

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("updating template: %w", err)
	}
	s.bus.Publish(eventbus.ChannelTemplates)
	return updated, nil
}

// Delete removes the template. Deleting an id that is already gone is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	s.bus.Publish(eventbus.ChannelTemplates)
	return nil
}
