// Package gateway decides, once per session, whether the workspace reads and
// writes go to the remote API or to the local fallback store. The probe runs
// exactly once at session start; its result is latched in the Backend and
// never re-evaluated, even if the remote later becomes reachable or
// unreachable.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mathisescriva/crmdesk/internal/directory"
	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/domain/template"
	"github.com/mathisescriva/crmdesk/internal/remote"
	"github.com/mathisescriva/crmdesk/internal/sqlite"
)

// Mode names the backing store selected for the session.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Options configures store selection.
type Options struct {
	Remote       remote.Options
	ProbeTimeout time.Duration
	LocalPath    string
	// LocalCompanies seeds the company directory when the session falls
	// back to the local store.
	LocalCompanies []directory.Company
}

// Backend is the repository set for one session, all bound to the same store.
type Backend struct {
	Mode         Mode
	Tasks        task.Repository
	TaskComments task.CommentRepository
	Projects     project.Repository
	ProjectNotes project.NoteRepository
	Templates    template.Repository
	Activity     activity.Repository
	Companies    directory.CompanyDirectory

	db *sqlite.DB
}

// Close releases the local store when one was opened.
func (b *Backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// Select probes the remote API once and returns the repository set for the
// session. A probe timeout or transport failure selects the local fallback
// store; the probe is abandoned on expiry, never retried.
func Select(ctx context.Context, opts Options, logger *slog.Logger) (*Backend, error) {
	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	if opts.Remote.BaseURL != "" {
		client := remote.NewClient(opts.Remote)
		err := client.Probe(ctx, timeout)
		if err == nil {
			logger.Info("workspace store selected", "mode", ModeRemote)
			return &Backend{
				Mode:         ModeRemote,
				Tasks:        remote.NewTaskRepository(client),
				TaskComments: remote.NewCommentRepository(client),
				Projects:     remote.NewProjectRepository(client),
				ProjectNotes: remote.NewNoteRepository(client),
				Templates:    remote.NewTemplateRepository(client),
				Activity:     remote.NewActivityRepository(client),
				Companies:    remote.NewCompanyDirectory(client),
			}, nil
		}
		logger.Warn("remote probe failed, falling back to local store", "error", err)
	}

	path := opts.LocalPath
	if path == "" {
		path = ":memory:"
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing local store: %w", err)
	}

	logger.Info("workspace store selected", "mode", ModeLocal, "path", path)
	return &Backend{
		Mode:         ModeLocal,
		Tasks:        sqlite.NewTaskRepository(db),
		TaskComments: sqlite.NewCommentRepository(db),
		Projects:     sqlite.NewProjectRepository(db),
		ProjectNotes: sqlite.NewNoteRepository(db),
		Templates:    sqlite.NewTemplateRepository(db),
		Activity:     sqlite.NewActivityRepository(db),
		Companies:    directory.NewStaticCompanies(opts.LocalCompanies),
		db:           db,
	}, nil
}
