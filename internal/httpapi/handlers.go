package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mathisescriva/crmdesk/internal/domain/project"
	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/domain/template"
	"github.com/mathisescriva/crmdesk/internal/export"
)

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CompanyID   string     `json:"company_id"`
	ProjectID   string     `json:"project_id"`
	AssignedTo  []string   `json:"assigned_to"`
	AssignedBy  string     `json:"assigned_by"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !s.decode(w, r, &req) {
		return
	}
	created, err := s.services.Tasks.Create(r.Context(), task.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		CompanyID:   req.CompanyID,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  req.AssignedBy,
		DueDate:     req.DueDate,
		Priority:    task.Priority(req.Priority),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := s.services.Tasks.List(r.Context(), task.ListOptions{
		ProjectID:  q.Get("project_id"),
		CompanyID:  q.Get("company_id"),
		Status:     task.Status(q.Get("status")),
		AssignedTo: q.Get("assigned_to"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.services.Tasks.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

type updateTaskRequest struct {
	ActorID string     `json:"actor_id"`
	Patch   task.Patch `json:"patch"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if !s.decode(w, r, &req) {
		return
	}
	updated, err := s.services.Tasks.Update(r.Context(), req.ActorID, mux.Vars(r)["id"], req.Patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Tasks.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addCommentRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if !s.decode(w, r, &req) {
		return
	}
	c, err := s.services.Tasks.AddComment(r.Context(), mux.Vars(r)["id"], req.UserID, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.services.Tasks.Comments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, comments)
}

type createProjectRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	CompanyID     string     `json:"company_id"`
	Stage         string     `json:"stage"`
	Budget        float64    `json:"budget"`
	Probability   int        `json:"probability"`
	StartDate     *time.Time `json:"start_date"`
	ExpectedClose *time.Time `json:"expected_close_date"`
	OwnerID       string     `json:"owner_id"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !s.decode(w, r, &req) {
		return
	}
	created, err := s.services.Projects.Create(r.Context(), project.CreateRequest{
		Title:         req.Title,
		Description:   req.Description,
		CompanyID:     req.CompanyID,
		Stage:         project.Stage(req.Stage),
		Budget:        req.Budget,
		Probability:   req.Probability,
		StartDate:     req.StartDate,
		ExpectedClose: req.ExpectedClose,
		OwnerID:       req.OwnerID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projects, err := s.services.Projects.List(r.Context(), project.ListOptions{
		CompanyID: q.Get("company_id"),
		Status:    project.Status(q.Get("status")),
		Stage:     project.Stage(q.Get("stage")),
		OwnerID:   q.Get("owner_id"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.services.Projects.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

type updateProjectRequest struct {
	ActorID string        `json:"actor_id"`
	Patch   project.Patch `json:"patch"`
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if !s.decode(w, r, &req) {
		return
	}
	updated, err := s.services.Projects.Update(r.Context(), req.ActorID, mux.Vars(r)["id"], req.Patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Projects.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.services.Projects.AddMember(r.Context(), mux.Vars(r)["id"], req.UserID, project.Role(req.Role))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.services.Projects.RemoveMember(r.Context(), vars["id"], vars["userID"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.services.Projects.Members(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, members)
}

type addDocumentRequest struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Type    string `json:"type"`
	AddedBy string `json:"added_by"`
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if !s.decode(w, r, &req) {
		return
	}
	d, err := s.services.Projects.AddDocument(r.Context(), mux.Vars(r)["id"], req.Name, req.URL, project.DocType(req.Type), req.AddedBy)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.services.Projects.Documents(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, docs)
}

type addNoteRequest struct {
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var req addNoteRequest
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.services.Projects.AddNote(r.Context(), mux.Vars(r)["id"], req.AuthorID, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.services.Projects.Notes(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t template.Template
	if !s.decode(w, r, &t) {
		return
	}
	created, err := s.services.Templates.Create(r.Context(), &t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.services.Templates.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.services.Templates.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var patch template.Patch
	if !s.decode(w, r, &patch) {
		return
	}
	updated, err := s.services.Templates.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Templates.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}
	entries, err := s.services.Activity.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handlePulse(w http.ResponseWriter, r *http.Request) {
	rows, err := s.services.Engine.TeamPulse(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleUrgentClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.services.Engine.UrgentClients(r.Context(), time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleMentions(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Engine.Mentions(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := s.services.Engine.Analytics(r.Context(), time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCalendarEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid from"})
		return
	}
	to, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid to"})
		return
	}
	events, err := s.services.Calendar.EventsBetween(r.Context(), from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var out string
	switch mux.Vars(r)["kind"] {
	case "tasks":
		tasks, err := s.services.Tasks.List(r.Context(), task.ListOptions{})
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = export.Tasks(tasks)
	case "projects":
		projects, err := s.services.Projects.List(r.Context(), project.ListOptions{})
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = export.Projects(projects)
	case "activity":
		entries, err := s.services.Activity.Recent(r.Context(), 0)
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = export.Activities(entries)
	default:
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown export"})
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}
