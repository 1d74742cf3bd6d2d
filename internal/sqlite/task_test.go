package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/repository"
)

func newTask(title string) *task.Task {
	return &task.Task{
		Title:      title,
		AssignedTo: []string{"u1"},
		AssignedBy: "u1",
		Priority:   task.PriorityMedium,
		Status:     task.StatusPending,
		CreatedAt:  time.Now(),
	}
}

func TestTaskRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	in := newTask("Call ACME")
	in.Description = "Quarterly check-in"
	in.CompanyID = "c1"
	in.CompanyName = "ACME Corp"
	in.AssignedTo = []string{"u1", "u2"}
	in.DueDate = &due

	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID, "repository assigns an id when none is given")

	loaded, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Call ACME", loaded.Title)
	require.Equal(t, "ACME Corp", loaded.CompanyName)
	require.Equal(t, []string{"u1", "u2"}, loaded.AssignedTo)
	require.NotNil(t, loaded.DueDate)
}

func TestTaskRepository_GetMissing(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	_, err := repo.Get(ctx, "missing")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestTaskRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	a := newTask("First")
	a.ProjectID = "p1"
	a.AssignedTo = []string{"u1"}
	b := newTask("Second")
	b.ProjectID = "p1"
	b.Status = task.StatusCompleted
	b.AssignedTo = []string{"u2"}
	c := newTask("Third")
	c.ProjectID = "p2"
	c.AssignedTo = []string{"u1", "u2"}

	for _, in := range []*task.Task{a, b, c} {
		_, err := repo.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, task.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "First", all[0].Title, "insertion order preserved")

	byProject, err := repo.List(ctx, task.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, byProject, 2)

	byStatus, err := repo.List(ctx, task.ListOptions{Status: task.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, "Second", byStatus[0].Title)

	byAssignee, err := repo.List(ctx, task.ListOptions{AssignedTo: "u2"})
	require.NoError(t, err)
	require.Len(t, byAssignee, 2)
}

func TestTaskRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	created, err := repo.Create(ctx, newTask("Call ACME"))
	require.NoError(t, err)

	title := "Call ACME back"
	status := task.StatusInProgress
	now := time.Now()
	updated, err := repo.Update(ctx, created.ID, task.Patch{Title: &title, Status: &status, UpdatedAt: &now})
	require.NoError(t, err)
	require.Equal(t, "Call ACME back", updated.Title)
	require.Equal(t, task.StatusInProgress, updated.Status)
	require.NotNil(t, updated.UpdatedAt)

	_, err = repo.Update(ctx, "missing", task.Patch{Title: &title})
	require.Equal(t, repository.ErrNotFound, err)
}

func TestTaskRepository_DeleteIdempotent(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	created, err := repo.Create(ctx, newTask("Call ACME"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID), "second delete is a no-op")

	_, err = repo.Get(ctx, created.ID)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestCommentRepository_AddList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	tasks := NewTaskRepository(db)
	comments := NewCommentRepository(db)

	parent, err := tasks.Create(ctx, newTask("Call ACME"))
	require.NoError(t, err)

	first, err := comments.Add(ctx, &task.Comment{
		TaskID:    parent.ID,
		UserID:    "u1",
		Content:   "left a voicemail",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = comments.Add(ctx, &task.Comment{
		TaskID:    parent.ID,
		UserID:    "u2",
		Content:   "@sarah they called back",
		Mentions:  []string{"u1"},
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	listed, err := comments.ListByTask(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "left a voicemail", listed[0].Content, "insertion order preserved")
	require.Equal(t, []string{"u1"}, listed[1].Mentions)
}

func TestCommentRepository_ListMentioning(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	tasks := NewTaskRepository(db)
	comments := NewCommentRepository(db)

	parent, err := tasks.Create(ctx, newTask("Call ACME"))
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	for i, c := range []*task.Comment{
		{TaskID: parent.ID, UserID: "u2", Content: "@sarah ping", Mentions: []string{"u1"}},
		{TaskID: parent.ID, UserID: "u2", Content: "no mention here"},
		{TaskID: parent.ID, UserID: "u2", Content: "@sarah again", Mentions: []string{"u1"}},
	} {
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := comments.Add(ctx, c)
		require.NoError(t, err)
	}

	mentioning, err := comments.ListMentioning(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mentioning, 2)
	require.Equal(t, "@sarah again", mentioning[0].Content, "newest first")

	none, err := comments.ListMentioning(ctx, "u9")
	require.NoError(t, err)
	require.Empty(t, none)
}
