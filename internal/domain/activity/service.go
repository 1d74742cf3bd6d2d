package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mathisescriva/crmdesk/internal/eventbus"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	bus    *eventbus.Bus
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, bus *eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

// Record appends one immutable entry to the log and publishes the activity
// channel. The store assigns the timestamp when the caller leaves it zero.
func (s *Service) Record(ctx context.Context, userID string, action Action, target TargetType, targetID, targetName string, opts RecordOptions) (*Entry, error) {
	if userID == "" || action == "" {
		return nil, ErrInvalidInput
	}

	entry := &Entry{
		UserID:         userID,
		Action:         action,
		TargetType:     target,
		TargetID:       targetID,
		TargetName:     targetName,
		Description:    opts.Description,
		MentionedUsers: opts.MentionedUsers,
		Timestamp:      time.Now(),
	}

	stored, err := s.repo.Append(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("recording activity: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.ChannelActivity)
	}
	return stored, nil
}

// Recent returns the most recent entries, newest first. A limit of zero or
// less returns the whole log.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.repo.Recent(ctx, limit)
}

// Mentioning returns the entries whose mentioned users include userID,
// newest first.
func (s *Service) Mentioning(ctx context.Context, userID string) ([]Entry, error) {
	return s.repo.Mentioning(ctx, userID)
}
