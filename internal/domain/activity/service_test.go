package activity_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/eventbus"
	"github.com/mathisescriva/crmdesk/internal/repository/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecordValidation(t *testing.T) {
	ctx := context.Background()

	svc := activity.NewService(&mocks.ActivityRepository{}, eventbus.New(), testLogger())

	_, err := svc.Record(ctx, "", activity.ActionCreated, activity.TargetTask, "t1", "Call ACME", activity.RecordOptions{})
	require.ErrorIs(t, err, activity.ErrInvalidInput)

	_, err = svc.Record(ctx, "u1", "", activity.TargetTask, "t1", "Call ACME", activity.RecordOptions{})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}

func TestRecordStampsTimestampAndPublishes(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	repo.On("Append", ctx, mock.MatchedBy(func(entry *activity.Entry) bool {
		return !entry.Timestamp.IsZero() && entry.UserID == "u1"
	})).Return(&activity.Entry{ID: "a1", UserID: "u1"}, nil)

	bus := eventbus.New()
	published := 0
	sub := bus.Subscribe(eventbus.ChannelActivity, func() { published++ })
	defer sub.Unsubscribe()

	svc := activity.NewService(repo, bus, testLogger())
	stored, err := svc.Record(ctx, "u1", activity.ActionCreated, activity.TargetTask, "t1", "Call ACME", activity.RecordOptions{})
	require.NoError(t, err)
	require.Equal(t, "a1", stored.ID)
	require.Equal(t, 1, published)
	repo.AssertExpectations(t)
}

func TestRecordCarriesMentionedUsers(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	repo.On("Append", ctx, mock.MatchedBy(func(entry *activity.Entry) bool {
		return len(entry.MentionedUsers) == 2 && entry.Action == activity.ActionMentioned
	})).Return(&activity.Entry{ID: "a2"}, nil)

	svc := activity.NewService(repo, eventbus.New(), testLogger())
	_, err := svc.Record(ctx, "u1", activity.ActionMentioned, activity.TargetProject, "p1", "ACME rollout",
		activity.RecordOptions{MentionedUsers: []string{"u2", "u3"}})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
