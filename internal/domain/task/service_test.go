package task_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mathisescriva/crmdesk/internal/directory"
	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/eventbus"
	"github.com/mathisescriva/crmdesk/internal/repository"
	"github.com/mathisescriva/crmdesk/internal/repository/mocks"
)

type fixture struct {
	repo     *mocks.TaskRepository
	comments *mocks.CommentRepository
	activity *mocks.ActivityRepository
	bus      *eventbus.Bus
	svc      *task.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		repo:     &mocks.TaskRepository{},
		comments: &mocks.CommentRepository{},
		activity: &mocks.ActivityRepository{},
		bus:      eventbus.New(),
	}
	roster := directory.NewRoster([]directory.TeamMember{
		{ID: "u1", Name: "Sarah Chen"},
		{ID: "u2", Name: "Mike Ross"},
	})
	companies := directory.NewStaticCompanies([]directory.Company{
		{ID: "c1", Name: "ACME Corp", EntityType: directory.EntityClient},
	})
	recorder := activity.NewService(f.activity, f.bus, logger)
	f.svc = task.NewService(f.repo, f.comments, companies, roster, recorder, f.bus, logger)
	return f
}

func (f *fixture) expectActivity(action activity.Action) {
	f.activity.On("Append", mock.Anything, mock.MatchedBy(func(entry *activity.Entry) bool {
		return entry.Action == action
	})).Return(&activity.Entry{}, nil)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, task.CreateRequest{Title: "  ", AssignedTo: []string{"u1"}})
	require.ErrorIs(t, err, task.ErrInvalidInput)

	_, err = f.svc.Create(ctx, task.CreateRequest{Title: "Call ACME"})
	require.ErrorIs(t, err, task.ErrNoAssignees)
}

func TestCreateSnapshotsCompanyName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.repo.On("Create", ctx, mock.MatchedBy(func(tk *task.Task) bool {
		return tk.CompanyName == "ACME Corp" && tk.Status == task.StatusPending && tk.Priority == task.PriorityMedium
	})).Return(&task.Task{ID: "t1", Title: "Call ACME", AssignedBy: "u1"}, nil)
	f.expectActivity(activity.ActionCreated)

	published := 0
	sub := f.bus.Subscribe(eventbus.ChannelTasks, func() { published++ })
	defer sub.Unsubscribe()

	created, err := f.svc.Create(ctx, task.CreateRequest{
		Title:      "Call ACME",
		CompanyID:  "c1",
		AssignedTo: []string{"u1"},
		AssignedBy: "u1",
	})
	require.NoError(t, err)
	require.Equal(t, "t1", created.ID)
	require.Equal(t, 1, published)
	f.repo.AssertExpectations(t)
	f.activity.AssertExpectations(t)
}

func TestUpdateRejectsEmptyAssignees(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	empty := []string{}
	_, err := f.svc.Update(ctx, "u1", "t1", task.Patch{AssignedTo: &empty})
	require.ErrorIs(t, err, task.ErrNoAssignees)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStampsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.repo.On("Update", ctx, "t1", mock.MatchedBy(func(patch task.Patch) bool {
		return patch.UpdatedAt != nil && !patch.UpdatedAt.IsZero()
	})).Return(&task.Task{ID: "t1", Title: "Call ACME"}, nil)
	f.expectActivity(activity.ActionUpdated)

	title := "Call ACME again"
	_, err := f.svc.Update(ctx, "u1", "t1", task.Patch{Title: &title})
	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestUpdateToCompletedRecordsCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	done := task.StatusCompleted
	f.repo.On("Update", ctx, "t1", mock.Anything).Return(&task.Task{ID: "t1", Title: "Call ACME", Status: done}, nil)
	f.expectActivity(activity.ActionCompleted)

	_, err := f.svc.Update(ctx, "u1", "t1", task.Patch{Status: &done})
	require.NoError(t, err)
	f.activity.AssertExpectations(t)
}

func TestUpdateMissingTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	title := "x"
	f.repo.On("Update", ctx, "missing", mock.Anything).Return(nil, repository.ErrNotFound)

	_, err := f.svc.Update(ctx, "u1", "missing", task.Patch{Title: &title})
	require.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestAddCommentExtractsMentions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.repo.On("Get", ctx, "t1").Return(&task.Task{ID: "t1", Title: "Call ACME"}, nil)
	f.comments.On("Add", ctx, mock.MatchedBy(func(c *task.Comment) bool {
		return len(c.Mentions) == 1 && c.Mentions[0] == "u2"
	})).Return(&task.Comment{ID: "cm1", TaskID: "t1", Mentions: []string{"u2"}}, nil)
	f.activity.On("Append", mock.Anything, mock.MatchedBy(func(entry *activity.Entry) bool {
		return entry.Action == activity.ActionMentioned && len(entry.MentionedUsers) == 1
	})).Return(&activity.Entry{}, nil)

	c, err := f.svc.AddComment(ctx, "t1", "u1", "@mike can you take this over?")
	require.NoError(t, err)
	require.Equal(t, []string{"u2"}, c.Mentions)
	f.comments.AssertExpectations(t)
	f.activity.AssertExpectations(t)
}

func TestAddCommentWithoutMentions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.repo.On("Get", ctx, "t1").Return(&task.Task{ID: "t1", Title: "Call ACME"}, nil)
	f.comments.On("Add", ctx, mock.Anything).Return(&task.Comment{ID: "cm2", TaskID: "t1"}, nil)
	f.expectActivity(activity.ActionUpdated)

	_, err := f.svc.AddComment(ctx, "t1", "u1", "done, left a voicemail")
	require.NoError(t, err)
	f.activity.AssertExpectations(t)
}
