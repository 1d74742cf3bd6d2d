package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/domain/task"
)

func TestCSVHeaderAndRows(t *testing.T) {
	out := CSV([]string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	require.Equal(t, "a,b\n1,2\n3,4\n", out)
}

func TestCSVValuesAreNotEscaped(t *testing.T) {
	// Legacy format: a comma inside a value shifts columns, on purpose.
	out := CSV([]string{"a", "b"}, [][]string{{"x,y", "z"}})
	require.Equal(t, "a,b\nx,y,z\n", out)
}

func TestTasksProjection(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	out := Tasks([]task.Task{{
		ID:          "t1",
		Title:       "Call ACME",
		CompanyName: "ACME Corp",
		ProjectID:   "p1",
		AssignedTo:  []string{"u1", "u2"},
		Priority:    task.PriorityHigh,
		Status:      task.StatusPending,
		DueDate:     &due,
		CreatedAt:   created,
	}})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "id,title,company,project,assigned_to,priority,status,due_date,created_at", lines[0])
	require.Equal(t, "t1,Call ACME,ACME Corp,p1,u1;u2,high,pending,2026-09-15,2026-09-01T10:00:00Z", lines[1])
}

func TestTasksProjectionNilDueDate(t *testing.T) {
	out := Tasks([]task.Task{{ID: "t1", Title: "Call ACME", CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)}})
	require.Contains(t, out, ",,2026-09-01T10:00:00Z")
}

func TestProjectsProjection(t *testing.T) {
	out := Projects([]project.Project{{
		ID:          "p1",
		Title:       "Renewal",
		CompanyName: "ACME Corp",
		Status:      project.StatusActive,
		Stage:       project.StageProposal,
		Budget:      12000,
		Spent:       2500.5,
		Probability: 60,
		Progress:    40,
		OwnerID:     "u1",
	}})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "p1,Renewal,ACME Corp,active,proposal,12000.00,2500.50,60,40,u1,", lines[1])
}
