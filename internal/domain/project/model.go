package project

import "time"

// Status of a project.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Stage of the deal pipeline.
type Stage string

const (
	StageQualification Stage = "qualification"
	StageProposal      Stage = "proposal"
	StageNegotiation   Stage = "negotiation"
	StageClosedWon     Stage = "closed_won"
	StageClosedLost    Stage = "closed_lost"
)

// Closed reports whether the stage is terminal.
func (s Stage) Closed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Project is a deal/engagement with a company. CompanyName is a snapshot
// taken from the directory at creation time; it is not kept in sync with
// later renames. Budget and Spent are face-value amounts in the stored
// currency; no conversion happens anywhere.
type Project struct {
	ID            string     `json:"id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	CompanyID     string     `json:"company_id"`
	CompanyName   string     `json:"company_name"`
	Status        Status     `json:"status"`
	Stage         Stage      `json:"stage"`
	Budget        float64    `json:"budget"`
	Spent         float64    `json:"spent"`
	Probability   int        `json:"probability"`
	Progress      int        `json:"progress"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	ExpectedClose *time.Time `json:"expected_close_date,omitempty"`
	OwnerID       string     `json:"owner_id"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Role of a project member.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Member links a roster user to a project. Unique per (project, user).
type Member struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	Role      Role   `json:"role"`
}

// DocType classifies a project document.
type DocType string

const (
	DocPDF   DocType = "pdf"
	DocDoc   DocType = "doc"
	DocSheet DocType = "sheet"
	DocSlide DocType = "slide"
	DocImage DocType = "image"
	DocOther DocType = "other"
)

// Document is a link attached to a project.
type Document struct {
	ID        string    `json:"id,omitempty"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Type      DocType   `json:"type"`
	AddedBy   string    `json:"added_by"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Note is a free-text note on a project. Mentions holds the roster ids
// resolved from the content at composition time.
type Note struct {
	ID        string    `json:"id,omitempty"`
	ProjectID string    `json:"project_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	Mentions  []string  `json:"mentions,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Patch is a partial project update. Nil fields are left untouched.
type Patch struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Status        *Status    `json:"status,omitempty"`
	Stage         *Stage     `json:"stage,omitempty"`
	Budget        *float64   `json:"budget,omitempty"`
	Spent         *float64   `json:"spent,omitempty"`
	Probability   *int       `json:"probability,omitempty"`
	Progress      *int       `json:"progress,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	ExpectedClose *time.Time `json:"expected_close_date,omitempty"`
	OwnerID       *string    `json:"owner_id,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Apply merges the patch into p.
func (pt Patch) Apply(p *Project) {
	if pt.Title != nil {
		p.Title = *pt.Title
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Status != nil {
		p.Status = *pt.Status
	}
	if pt.Stage != nil {
		p.Stage = *pt.Stage
	}
	if pt.Budget != nil {
		p.Budget = *pt.Budget
	}
	if pt.Spent != nil {
		p.Spent = *pt.Spent
	}
	if pt.Probability != nil {
		p.Probability = *pt.Probability
	}
	if pt.Progress != nil {
		p.Progress = *pt.Progress
	}
	if pt.StartDate != nil {
		p.StartDate = pt.StartDate
	}
	if pt.EndDate != nil {
		p.EndDate = pt.EndDate
	}
	if pt.ExpectedClose != nil {
		p.ExpectedClose = pt.ExpectedClose
	}
	if pt.OwnerID != nil {
		p.OwnerID = *pt.OwnerID
	}
	if pt.UpdatedAt != nil {
		p.UpdatedAt = pt.UpdatedAt
	}
}

// ListOptions filters project listings.
type ListOptions struct {
	CompanyID string
	Status    Status
	Stage     Stage
	OwnerID   string
}
