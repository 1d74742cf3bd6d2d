package directory

import "time"

// TeamMember is one entry in the static team roster.
type TeamMember struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// EntityType classifies a directory company.
type EntityType string

const (
	EntityClient  EntityType = "client"
	EntityPartner EntityType = "partner"
)

// Company is the slice of a directory record the workspace reads. The
// directory owns these rows; the workspace only references and snapshots them.
type Company struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	EntityType  EntityType `json:"entity_type"`
	LastContact *time.Time `json:"last_contact_date,omitempty"`
	Contacts    []Contact  `json:"contacts,omitempty"`
}

// Contact is a person attached to a directory company.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CalendarEvent is a read-only event from the calendar provider.
type CalendarEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Attendees []string  `json:"attendees,omitempty"`
}
