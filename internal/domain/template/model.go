package template

import "time"

// Template is a reusable email template shared across the team.
type Template struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Category  string     `json:"category,omitempty"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Patch is a partial template update. Nil fields are left untouched.
type Patch struct {
	Name      *string    `json:"name,omitempty"`
	Subject   *string    `json:"subject,omitempty"`
	Body      *string    `json:"body,omitempty"`
	Category  *string    `json:"category,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Apply merges the patch into t.
func (p Patch) Apply(t *Template) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Subject != nil {
		t.Subject = *p.Subject
	}
	if p.Body != nil {
		t.Body = *p.Body
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.UpdatedAt != nil {
		t.UpdatedAt = p.UpdatedAt
	}
}
