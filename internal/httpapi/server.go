// Package httpapi exposes the workspace over a JSON REST surface. Handlers
// are thin: decode, call the service, encode. All semantics live in the
// domain layer.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mathisescriva/crmdesk/internal/aggregate"
	"github.com/mathisescriva/crmdesk/internal/directory"
	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/domain/template"
	"github.com/mathisescriva/crmdesk/internal/remote"
)

// Services bundles what the API serves.
type Services struct {
	Tasks     *task.Service
	Projects  *project.Service
	Templates *template.Service
	Activity  *activity.Service
	Engine    *aggregate.Engine
	Calendar  directory.CalendarProvider
}

// Server is the HTTP API over the workspace services.
type Server struct {
	services Services
	logger   *slog.Logger
}

// NewServer creates the API server.
func NewServer(services Services, logger *slog.Logger) *Server {
	return &Server{services: services, logger: logger}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", s.handleGetTask).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods(http.MethodPatch)
	r.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/tasks/{id}/comments", s.handleListComments).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}/comments", s.handleAddComment).Methods(http.MethodPost)

	r.HandleFunc("/projects", s.handleListProjects).Methods(http.MethodGet)
	r.HandleFunc("/projects", s.handleCreateProject).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}", s.handleGetProject).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}", s.handleUpdateProject).Methods(http.MethodPatch)
	r.HandleFunc("/projects/{id}", s.handleDeleteProject).Methods(http.MethodDelete)
	r.HandleFunc("/projects/{id}/members", s.handleListMembers).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}/members", s.handleAddMember).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}/members/{userID}", s.handleRemoveMember).Methods(http.MethodDelete)
	r.HandleFunc("/projects/{id}/documents", s.handleListDocuments).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}/documents", s.handleAddDocument).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}/notes", s.handleListNotes).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}/notes", s.handleAddNote).Methods(http.MethodPost)

	r.HandleFunc("/templates", s.handleListTemplates).Methods(http.MethodGet)
	r.HandleFunc("/templates", s.handleCreateTemplate).Methods(http.MethodPost)
	r.HandleFunc("/templates/{id}", s.handleGetTemplate).Methods(http.MethodGet)
	r.HandleFunc("/templates/{id}", s.handleUpdateTemplate).Methods(http.MethodPatch)
	r.HandleFunc("/templates/{id}", s.handleDeleteTemplate).Methods(http.MethodDelete)

	r.HandleFunc("/activity", s.handleRecentActivity).Methods(http.MethodGet)

	r.HandleFunc("/views/pulse", s.handlePulse).Methods(http.MethodGet)
	r.HandleFunc("/views/urgent-clients", s.handleUrgentClients).Methods(http.MethodGet)
	r.HandleFunc("/views/mentions/{userID}", s.handleMentions).Methods(http.MethodGet)
	r.HandleFunc("/views/analytics", s.handleAnalytics).Methods(http.MethodGet)

	r.HandleFunc("/calendar/events", s.handleCalendarEvents).Methods(http.MethodGet)

	r.HandleFunc("/export/{kind}.csv", s.handleExport).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.logger.Error("encoding response", "error", err)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto status codes: validation to 400,
// missing ids to 404, remote store failures to 502.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, template.ErrTemplateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, task.ErrInvalidInput),
		errors.Is(err, task.ErrNoAssignees),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, project.ErrDuplicateMember),
		errors.Is(err, template.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		var apiErr *remote.APIError
		var transportErr *remote.TransportError
		if errors.As(err, &apiErr) || errors.As(err, &transportErr) {
			status = http.StatusBadGateway
		}
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
