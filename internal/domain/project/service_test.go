package project_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mathisescriva/crmdesk/internal/directory"
	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/eventbus"
	"github.com/mathisescriva/crmdesk/internal/repository"
	"github.com/mathisescriva/crmdesk/internal/repository/mocks"
)

type fixture struct {
	repo     *mocks.ProjectRepository
	notes    *mocks.NoteRepository
	activity *mocks.ActivityRepository
	bus      *eventbus.Bus
	svc      *project.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		repo:     &mocks.ProjectRepository{},
		notes:    &mocks.NoteRepository{},
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
	f.svc = project.NewService(f.repo, f.notes, companies, roster, recorder, f.bus, logger)
	return f
}

func (f *fixture) expectActivity(action activity.Action, target activity.TargetType) {
	f.activity.On("Append", mock.Anything, mock.MatchedBy(func(entry *activity.Entry) bool {
		return entry.Action == action && entry.TargetType == target
	})).Return(&activity.Entry{}, nil)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := []project.CreateRequest{
		{Title: "", CompanyID: "c1", OwnerID: "u1"},
		{Title: "Renewal", CompanyID: "", OwnerID: "u1"},
		{Title: "Renewal", CompanyID: "c1", OwnerID: ""},
		{Title: "Renewal", CompanyID: "c1", OwnerID: "u1", Probability: 120},
	}
	for _, req := range cases {
		_, err := f.svc.Create(ctx, req)
		require.ErrorIs(t, err, project.ErrInvalidInput)
	}
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateEnrollsOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.repo.On("Create", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.CompanyName == "ACME Corp" &&
			p.Status == project.StatusPlanning &&
			p.Stage == project.StageQualification
	})).Return(&project.Project{ID: "p1", Title: "Renewal"}, nil)
	f.repo.On("AddMember", ctx, mock.MatchedBy(func(m *project.Member) bool {
		return m.ProjectID == "p1" && m.UserID == "u1" && m.Role == project.RoleOwner
	})).Return(nil)
	f.expectActivity(activity.ActionCreated, activity.TargetProject)

	created, err := f.svc.Create(ctx, project.CreateRequest{
		Title:       "Renewal",
		CompanyID:   "c1",
		OwnerID:     "u1",
		Budget:      1000,
		Probability: 50,
	})
	require.NoError(t, err)
	require.Equal(t, "p1", created.ID)
	f.repo.AssertExpectations(t)
	f.activity.AssertExpectations(t)
}

func TestUpdateToClosedWonRecordsSigned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	won := project.StageClosedWon
	f.repo.On("Update", ctx, "p1", mock.Anything).
		Return(&project.Project{ID: "p1", Title: "Renewal", Stage: won}, nil)
	f.expectActivity(activity.ActionSigned, activity.TargetDeal)

	_, err := f.svc.Update(ctx, "u1", "p1", project.Patch{Stage: &won})
	require.NoError(t, err)
	f.activity.AssertExpectations(t)
}

func TestUpdateToCompletedRecordsCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	done := project.StatusCompleted
	f.repo.On("Update", ctx, "p1", mock.Anything).
		Return(&project.Project{ID: "p1", Title: "Renewal", Status: done}, nil)
	f.expectActivity(activity.ActionCompleted, activity.TargetProject)

	_, err := f.svc.Update(ctx, "u1", "p1", project.Patch{Status: &done})
	require.NoError(t, err)
	f.activity.AssertExpectations(t)
}

func TestUpdateValidatesRanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	bad := -5
	_, err := f.svc.Update(ctx, "u1", "p1", project.Patch{Probability: &bad})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	over := 101
	_, err = f.svc.Update(ctx, "u1", "p1", project.Patch{Progress: &over})
	require.ErrorIs(t, err, project.ErrInvalidInput)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMissingProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	title := "x"
	f.repo.On("Update", ctx, "missing", mock.Anything).Return(nil, repository.ErrNotFound)

	_, err := f.svc.Update(ctx, "u1", "missing", project.Patch{Title: &title})
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestAddMemberDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.repo.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", Title: "Renewal"}, nil)
	f.repo.On("AddMember", ctx, mock.Anything).Return(repository.ErrDuplicate)

	err := f.svc.AddMember(ctx, "p1", "u2", project.RoleMember)
	require.ErrorIs(t, err, project.ErrDuplicateMember)
}

func TestAddMemberRejectsUnknownRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.svc.AddMember(ctx, "p1", "u2", project.Role("admin"))
	require.ErrorIs(t, err, project.ErrInvalidInput)
	f.repo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestAddNoteExtractsMentions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.repo.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", Title: "Renewal"}, nil)
	f.notes.On("Add", ctx, mock.MatchedBy(func(n *project.Note) bool {
		return len(n.Mentions) == 1 && n.Mentions[0] == "u2"
	})).Return(&project.Note{ID: "n1", ProjectID: "p1", Mentions: []string{"u2"}}, nil)
	f.activity.On("Append", mock.Anything, mock.MatchedBy(func(entry *activity.Entry) bool {
		return entry.Action == activity.ActionMentioned && len(entry.MentionedUsers) == 1
	})).Return(&activity.Entry{}, nil)

	n, err := f.svc.AddNote(ctx, "p1", "u1", "@mike the contract draft is ready")
	require.NoError(t, err)
	require.Equal(t, []string{"u2"}, n.Mentions)
	f.notes.AssertExpectations(t)
	f.activity.AssertExpectations(t)
}

func TestAddDocumentValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.AddDocument(ctx, "p1", "", "https://drive.example/x", project.DocPDF, "u1")
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = f.svc.AddDocument(ctx, "p1", "Contract", " ", project.DocPDF, "u1")
	require.ErrorIs(t, err, project.ErrInvalidInput)
}
