// Package aggregate computes the read-only derived views of the workspace:
// team pulse, urgent clients, the mention inbox and pipeline analytics. Views
// are recomputed on demand from the entity stores and the activity log; each
// view fetches every collection it needs exactly once.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mathisescriva/crmdesk/internal/directory"
	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/domain/task"
)

const (
	// DefaultStaleAfter is the staleness threshold for urgent clients.
	DefaultStaleAfter = 14 * 24 * time.Hour
	// DefaultActivityWindow is the rolling window for per-member activity
	// counts in analytics.
	DefaultActivityWindow = 7 * 24 * time.Hour
)

// Engine computes derived views. It holds no state of its own.
type Engine struct {
	tasks     *task.Service
	projects  *project.Service
	activity  *activity.Service
	roster    *directory.Roster
	companies directory.CompanyDirectory

	staleAfter time.Duration
	window     time.Duration
	logger     *slog.Logger
}

// NewEngine creates an aggregation engine over the given stores and
// collaborators. Zero durations select the defaults.
func NewEngine(tasks *task.Service, projects *project.Service, act *activity.Service, roster *directory.Roster, companies directory.CompanyDirectory, staleAfter, window time.Duration, logger *slog.Logger) *Engine {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if window <= 0 {
		window = DefaultActivityWindow
	}
	return &Engine{
		tasks:      tasks,
		projects:   projects,
		activity:   act,
		roster:     roster,
		companies:  companies,
		staleAfter: staleAfter,
		window:     window,
		logger:     logger,
	}
}

// PulseRow is one roster member's slice of the team pulse.
type PulseRow struct {
	Member       directory.TeamMember `json:"member"`
	LastActivity *activity.Entry      `json:"last_activity,omitempty"`
	OpenTasks    int                  `json:"open_tasks"`
}

// TeamPulse returns exactly one row per roster member, in roster order: the
// member's most recent activity entry (if any) and their count of assigned
// not-completed tasks. An unreadable activity log degrades to no last
// activity rather than failing the view.
func (e *Engine) TeamPulse(ctx context.Context) ([]PulseRow, error) {
	entries, err := e.activity.Recent(ctx, 0)
	if err != nil {
		e.logger.Warn("team pulse: activity log unavailable", "error", err)
		entries = nil
	}

	tasks, err := e.tasks.List(ctx, task.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("team pulse: %w", err)
	}

	latest := make(map[string]*activity.Entry)
	for i := range entries {
		// entries are newest first; keep the first hit per user
		if _, ok := latest[entries[i].UserID]; !ok {
			latest[entries[i].UserID] = &entries[i]
		}
	}

	open := make(map[string]int)
	for _, t := range tasks {
		if t.Status == task.StatusCompleted {
			continue
		}
		for _, userID := range t.AssignedTo {
			open[userID]++
		}
	}

	rows := make([]PulseRow, 0, len(e.roster.Members()))
	for _, m := range e.roster.Members() {
		rows = append(rows, PulseRow{
			Member:       m,
			LastActivity: latest[m.ID],
			OpenTasks:    open[m.ID],
		})
	}
	return rows, nil
}

// UrgentClient is a client company whose last contact is past the staleness
// threshold.
type UrgentClient struct {
	Company   directory.Company `json:"company"`
	StaleDays int               `json:"stale_days"`
}

// UrgentClients returns client-type companies not contacted within the
// staleness threshold, stalest first. Partner companies are excluded
// regardless of staleness, as are companies the directory has no contact
// date for.
func (e *Engine) UrgentClients(ctx context.Context, now time.Time) ([]UrgentClient, error) {
	companies, err := e.companies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("urgent clients: %w", err)
	}

	cutoff := now.Add(-e.staleAfter)
	var urgent []UrgentClient
	for _, c := range companies {
		if c.EntityType != directory.EntityClient {
			continue
		}
		if c.LastContact == nil || !c.LastContact.Before(cutoff) {
			continue
		}
		urgent = append(urgent, UrgentClient{
			Company:   c,
			StaleDays: int(now.Sub(*c.LastContact).Hours() / 24),
		})
	}

	sort.SliceStable(urgent, func(i, j int) bool {
		return urgent[i].StaleDays > urgent[j].StaleDays
	})
	return urgent, nil
}

// MentionSource names where a mention inbox item came from.
type MentionSource string

const (
	SourceActivity MentionSource = "activity"
	SourceNote     MentionSource = "note"
	SourceComment  MentionSource = "comment"
)

// MentionItem is one entry in a user's mention inbox, carrying enough parent
// context to deep-link.
type MentionItem struct {
	Source      MentionSource `json:"source"`
	ID          string        `json:"id"`
	AuthorID    string        `json:"author_id"`
	Content     string        `json:"content"`
	TaskID      string        `json:"task_id,omitempty"`
	ProjectID   string        `json:"project_id,omitempty"`
	ParentTitle string        `json:"parent_title,omitempty"`
	CompanyName string        `json:"company_name,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Mentions returns the union of activity entries, project notes and task
// comments mentioning the user, merged into one reverse-chronological feed.
func (e *Engine) Mentions(ctx context.Context, userID string) ([]MentionItem, error) {
	var items []MentionItem

	entries, err := e.activity.Mentioning(ctx, userID)
	if err != nil {
		e.logger.Warn("mention inbox: activity log unavailable", "error", err)
		entries = nil
	}
	for _, entry := range entries {
		item := MentionItem{
			Source:      SourceActivity,
			ID:          entry.ID,
			AuthorID:    entry.UserID,
			Content:     entry.Description,
			ParentTitle: entry.TargetName,
			CreatedAt:   entry.Timestamp,
		}
		switch entry.TargetType {
		case activity.TargetTask:
			item.TaskID = entry.TargetID
		case activity.TargetProject, activity.TargetDeal:
			item.ProjectID = entry.TargetID
		}
		items = append(items, item)
	}

	notes, err := e.projects.NotesMentioning(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("mention inbox: %w", err)
	}
	comments, err := e.tasks.CommentsMentioning(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("mention inbox: %w", err)
	}

	// One fetch per collection for parent context, never per item.
	projectCtx := map[string]project.Project{}
	if len(notes) > 0 {
		projects, err := e.projects.List(ctx, project.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("mention inbox: %w", err)
		}
		for _, p := range projects {
			projectCtx[p.ID] = p
		}
	}
	taskCtx := map[string]task.Task{}
	if len(comments) > 0 {
		tasks, err := e.tasks.List(ctx, task.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("mention inbox: %w", err)
		}
		for _, t := range tasks {
			taskCtx[t.ID] = t
		}
	}

	for _, n := range notes {
		item := MentionItem{
			Source:    SourceNote,
			ID:        n.ID,
			AuthorID:  n.AuthorID,
			Content:   n.Content,
			ProjectID: n.ProjectID,
			CreatedAt: n.CreatedAt,
		}
		if p, ok := projectCtx[n.ProjectID]; ok {
			item.ParentTitle = p.Title
			item.CompanyName = p.CompanyName
		}
		items = append(items, item)
	}
	for _, c := range comments {
		item := MentionItem{
			Source:    SourceComment,
			ID:        c.ID,
			AuthorID:  c.UserID,
			Content:   c.Content,
			TaskID:    c.TaskID,
			CreatedAt: c.CreatedAt,
		}
		if t, ok := taskCtx[c.TaskID]; ok {
			item.ParentTitle = t.Title
			item.CompanyName = t.CompanyName
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// StageTotal sums one open pipeline stage.
type StageTotal struct {
	Stage project.Stage `json:"stage"`
	Count int           `json:"count"`
	Value float64       `json:"value"`
}

// MemberCount is one roster member's activity count over the rolling window.
type MemberCount struct {
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
}

// Report is the pipeline analytics snapshot.
type Report struct {
	PipelineByStage  []StageTotal  `json:"pipeline_by_stage"`
	WeightedPipeline float64       `json:"weighted_pipeline"`
	TasksTotal       int           `json:"tasks_total"`
	TasksCompleted   int           `json:"tasks_completed"`
	CompletionRatio  float64       `json:"completion_ratio"`
	MemberActivity   []MemberCount `json:"member_activity"`
}

var openStages = []project.Stage{
	project.StageQualification,
	project.StageProposal,
	project.StageNegotiation,
}

// Analytics computes the pipeline report at now. Sums are face-value in the
// stored currency; weighted pipeline multiplies each open deal's budget by
// probability/100.
func (e *Engine) Analytics(ctx context.Context, now time.Time) (*Report, error) {
	projects, err := e.projects.List(ctx, project.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	tasks, err := e.tasks.List(ctx, task.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	entries, err := e.activity.Recent(ctx, 0)
	if err != nil {
		e.logger.Warn("analytics: activity log unavailable", "error", err)
		entries = nil
	}

	report := &Report{}

	byStage := make(map[project.Stage]*StageTotal)
	for _, stage := range openStages {
		total := &StageTotal{Stage: stage}
		byStage[stage] = total
	}
	for _, p := range projects {
		total, open := byStage[p.Stage]
		if !open {
			continue
		}
		total.Count++
		total.Value += p.Budget
		report.WeightedPipeline += p.Budget * float64(p.Probability) / 100
	}
	for _, stage := range openStages {
		report.PipelineByStage = append(report.PipelineByStage, *byStage[stage])
	}

	report.TasksTotal = len(tasks)
	for _, t := range tasks {
		if t.Status == task.StatusCompleted {
			report.TasksCompleted++
		}
	}
	if report.TasksTotal > 0 {
		report.CompletionRatio = float64(report.TasksCompleted) / float64(report.TasksTotal)
	}

	since := now.Add(-e.window)
	counts := make(map[string]int)
	for _, entry := range entries {
		if entry.Timestamp.Before(since) {
			continue
		}
		counts[entry.UserID]++
	}
	for _, m := range e.roster.Members() {
		report.MemberActivity = append(report.MemberActivity, MemberCount{UserID: m.ID, Count: counts[m.ID]})
	}

	return report, nil
}
