package aggregate_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mathisescriva/crmdesk/internal/aggregate"
	"github.com/mathisescriva/crmdesk/internal/directory"
	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/eventbus"
	"github.com/mathisescriva/crmdesk/internal/repository/mocks"
	"github.com/mathisescriva/crmdesk/internal/sqlite"
)

type harness struct {
	tasks    *task.Service
	projects *project.Service
	activity *activity.Service
	roster   *directory.Roster
	engine   *aggregate.Engine
}

func daysAgo(n int) *time.Time {
	t := time.Now().Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

// newHarness wires the engine over a fresh in-memory store, so view tests
// exercise the same repositories a local session runs on.
func newHarness(t *testing.T, companies []directory.Company) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	roster := directory.NewRoster([]directory.TeamMember{
		{ID: "u1", Name: "Sarah Chen"},
		{ID: "u2", Name: "Mike Ross"},
	})
	dir := directory.NewStaticCompanies(companies)
	bus := eventbus.New()

	h := &harness{roster: roster}
	h.activity = activity.NewService(sqlite.NewActivityRepository(db), bus, logger)
	h.tasks = task.NewService(sqlite.NewTaskRepository(db), sqlite.NewCommentRepository(db), dir, roster, h.activity, bus, logger)
	h.projects = project.NewService(sqlite.NewProjectRepository(db), sqlite.NewNoteRepository(db), dir, roster, h.activity, bus, logger)
	h.engine = aggregate.NewEngine(h.tasks, h.projects, h.activity, roster, dir, 0, 0, logger)
	return h
}

func TestTeamPulseOneRowPerMember(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	_, err := h.tasks.Create(ctx, task.CreateRequest{Title: "Call ACME", AssignedTo: []string{"u1"}, AssignedBy: "u1"})
	require.NoError(t, err)
	created, err := h.tasks.Create(ctx, task.CreateRequest{Title: "Send deck", AssignedTo: []string{"u1", "u2"}, AssignedBy: "u1"})
	require.NoError(t, err)

	done := task.StatusCompleted
	_, err = h.tasks.Update(ctx, "u2", created.ID, task.Patch{Status: &done})
	require.NoError(t, err)

	rows, err := h.engine.TeamPulse(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2, "one row per roster member")

	require.Equal(t, "u1", rows[0].Member.ID, "roster order preserved")
	require.Equal(t, 1, rows[0].OpenTasks, "completed tasks excluded")
	require.Equal(t, 0, rows[1].OpenTasks)

	require.NotNil(t, rows[1].LastActivity)
	require.Equal(t, activity.ActionCompleted, rows[1].LastActivity.Action)
}

func TestTeamPulseMemberWithNoHistory(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	rows, err := h.engine.TeamPulse(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Nil(t, row.LastActivity)
		require.Zero(t, row.OpenTasks)
	}
}

func TestTeamPulseDegradesWhenActivityUnavailable(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.New()
	roster := directory.NewRoster([]directory.TeamMember{{ID: "u1", Name: "Sarah Chen"}})

	actRepo := &mocks.ActivityRepository{}
	actRepo.On("Recent", mock.Anything, 0).Return(nil, errors.New("store offline"))
	act := activity.NewService(actRepo, bus, logger)

	taskRepo := &mocks.TaskRepository{}
	taskRepo.On("List", mock.Anything, task.ListOptions{}).Return([]task.Task{}, nil)
	tasks := task.NewService(taskRepo, &mocks.CommentRepository{}, nil, roster, act, bus, logger)

	engine := aggregate.NewEngine(tasks, nil, act, roster, nil, 0, 0, logger)

	rows, err := engine.TeamPulse(ctx)
	require.NoError(t, err, "an unreadable activity log does not fail the view")
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].LastActivity)
}

func TestUrgentClients(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, []directory.Company{
		{ID: "c1", Name: "Fresh Client", EntityType: directory.EntityClient, LastContact: daysAgo(5)},
		{ID: "c2", Name: "Stale Client", EntityType: directory.EntityClient, LastContact: daysAgo(20)},
		{ID: "c3", Name: "Staler Client", EntityType: directory.EntityClient, LastContact: daysAgo(30)},
		{ID: "c4", Name: "Old Partner", EntityType: directory.EntityPartner, LastContact: daysAgo(40)},
		{ID: "c5", Name: "Never Contacted", EntityType: directory.EntityClient},
	})
	// Capture now after the fixtures so the 30-day interval is not
	// fractionally short of 30 days when the engine floors it.
	now := time.Now()

	urgent, err := h.engine.UrgentClients(ctx, now)
	require.NoError(t, err)
	require.Len(t, urgent, 2, "fresh clients, partners and never-contacted companies excluded")
	require.Equal(t, "Staler Client", urgent[0].Company.Name, "stalest first")
	require.Equal(t, 30, urgent[0].StaleDays)
	require.Equal(t, "Stale Client", urgent[1].Company.Name)
}

func TestMentionsMergedReverseChronological(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, []directory.Company{
		{ID: "c1", Name: "ACME Corp", EntityType: directory.EntityClient},
	})

	tk, err := h.tasks.Create(ctx, task.CreateRequest{Title: "Call ACME", CompanyID: "c1", AssignedTo: []string{"u1"}, AssignedBy: "u1"})
	require.NoError(t, err)
	pr, err := h.projects.Create(ctx, project.CreateRequest{Title: "Renewal", CompanyID: "c1", OwnerID: "u1"})
	require.NoError(t, err)

	_, err = h.tasks.AddComment(ctx, tk.ID, "u1", "@mike they called back")
	require.NoError(t, err)
	_, err = h.projects.AddNote(ctx, pr.ID, "u1", "@mike contract draft is ready")
	require.NoError(t, err)

	items, err := h.engine.Mentions(ctx, "u2")
	require.NoError(t, err)

	// One activity entry per mentioning write, plus the comment and note.
	require.Len(t, items, 4)
	for i := 1; i < len(items); i++ {
		require.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt), "newest first")
	}

	var sources []aggregate.MentionSource
	for _, item := range items {
		sources = append(sources, item.Source)
	}
	require.Contains(t, sources, aggregate.SourceComment)
	require.Contains(t, sources, aggregate.SourceNote)
	require.Contains(t, sources, aggregate.SourceActivity)

	for _, item := range items {
		if item.Source == aggregate.SourceComment {
			require.Equal(t, tk.ID, item.TaskID)
			require.Equal(t, "Call ACME", item.ParentTitle)
			require.Equal(t, "ACME Corp", item.CompanyName)
		}
		if item.Source == aggregate.SourceNote {
			require.Equal(t, pr.ID, item.ProjectID)
			require.Equal(t, "Renewal", item.ParentTitle)
		}
	}
}

func TestMentionsEmptyInbox(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	items, err := h.engine.Mentions(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestAnalyticsWeightedPipeline(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	h := newHarness(t, []directory.Company{
		{ID: "c1", Name: "ACME Corp", EntityType: directory.EntityClient},
	})

	_, err := h.projects.Create(ctx, project.CreateRequest{Title: "Pilot", CompanyID: "c1", OwnerID: "u1", Budget: 1000, Probability: 50})
	require.NoError(t, err)
	_, err = h.projects.Create(ctx, project.CreateRequest{Title: "Renewal", CompanyID: "c1", OwnerID: "u1", Stage: project.StageProposal, Budget: 2000, Probability: 100})
	require.NoError(t, err)
	won, err := h.projects.Create(ctx, project.CreateRequest{Title: "Signed", CompanyID: "c1", OwnerID: "u1", Budget: 9000, Probability: 90})
	require.NoError(t, err)
	closed := project.StageClosedWon
	_, err = h.projects.Update(ctx, "u1", won.ID, project.Patch{Stage: &closed})
	require.NoError(t, err)

	tk, err := h.tasks.Create(ctx, task.CreateRequest{Title: "Call ACME", AssignedTo: []string{"u1"}, AssignedBy: "u1"})
	require.NoError(t, err)
	_, err = h.tasks.Create(ctx, task.CreateRequest{Title: "Send deck", AssignedTo: []string{"u2"}, AssignedBy: "u1"})
	require.NoError(t, err)
	done := task.StatusCompleted
	_, err = h.tasks.Update(ctx, "u1", tk.ID, task.Patch{Status: &done})
	require.NoError(t, err)

	report, err := h.engine.Analytics(ctx, now)
	require.NoError(t, err)

	require.InDelta(t, 2500.0, report.WeightedPipeline, 0.001, "closed deals carry no weight")
	require.Len(t, report.PipelineByStage, 3, "one bucket per open stage")
	require.Equal(t, project.StageQualification, report.PipelineByStage[0].Stage)
	require.Equal(t, 1, report.PipelineByStage[0].Count)
	require.InDelta(t, 1000.0, report.PipelineByStage[0].Value, 0.001)

	require.Equal(t, 2, report.TasksTotal)
	require.Equal(t, 1, report.TasksCompleted)
	require.InDelta(t, 0.5, report.CompletionRatio, 0.001)

	require.Len(t, report.MemberActivity, 2, "roster order, every member present")
	require.Equal(t, "u1", report.MemberActivity[0].UserID)
	require.NotZero(t, report.MemberActivity[0].Count)
}

func TestAnalyticsEmptyWorkspace(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	report, err := h.engine.Analytics(ctx, time.Now())
	require.NoError(t, err)
	require.Zero(t, report.WeightedPipeline)
	require.Zero(t, report.TasksTotal)
	require.Zero(t, report.CompletionRatio, "no tasks means ratio zero, not NaN")
	require.Len(t, report.PipelineByStage, 3)
}
