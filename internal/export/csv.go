// Package export writes flat CSV projections of entity lists: a header row
// of column names, one row per entity. Field values are joined with commas
// and deliberately never quoted or escaped; that matches the export format
// the team's existing tooling ingests, so a comma inside a value shifts
// columns there too.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/domain/task"
)

// CSV renders a header and rows as comma-joined lines.
func CSV(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// Tasks projects a task list to CSV.
func Tasks(tasks []task.Task) string {
	header := []string{"id", "title", "company", "project", "assigned_to", "priority", "status", "due_date", "created_at"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID,
			t.Title,
			t.CompanyName,
			t.ProjectID,
			strings.Join(t.AssignedTo, ";"),
			string(t.Priority),
			string(t.Status),
			formatDate(t.DueDate),
			t.CreatedAt.Format(time.RFC3339),
		})
	}
	return CSV(header, rows)
}

// Projects projects a project list to CSV.
func Projects(projects []project.Project) string {
	header := []string{"id", "title", "company", "status", "stage", "budget", "spent", "probability", "progress", "owner", "expected_close"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.ID,
			p.Title,
			p.CompanyName,
			string(p.Status),
			string(p.Stage),
			formatAmount(p.Budget),
			formatAmount(p.Spent),
			fmt.Sprintf("%d", p.Probability),
			fmt.Sprintf("%d", p.Progress),
			p.OwnerID,
			formatDate(p.ExpectedClose),
		})
	}
	return CSV(header, rows)
}

// Activities projects an activity log slice to CSV.
func Activities(entries []activity.Entry) string {
	header := []string{"id", "user", "action", "target_type", "target", "description", "timestamp"}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.ID,
			entry.UserID,
			string(entry.Action),
			string(entry.TargetType),
			entry.TargetName,
			entry.Description,
			entry.Timestamp.Format(time.RFC3339),
		})
	}
	return CSV(header, rows)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
