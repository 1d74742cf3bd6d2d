package activity

import "time"

// Action represents the kind of user-meaningful event being logged
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionContacted Action = "contacted"
	ActionSigned    Action = "signed"
	ActionMentioned Action = "mentioned"
	ActionCompleted Action = "completed"
)

// TargetType classifies what an activity entry points at
type TargetType string

const (
	TargetCompany TargetType = "company"
	TargetContact TargetType = "contact"
	TargetTask    TargetType = "task"
	TargetDeal    TargetType = "deal"
	TargetProject TargetType = "project"
)

// Entry is one record in the append-only team activity log. Entries are never
// mutated or deleted; every higher-level feed is a projection of this log.
type Entry struct {
	ID             string     `json:"id,omitempty"`
	UserID         string     `json:"user_id"`
	Action         Action     `json:"action"`
	TargetType     TargetType `json:"target_type"`
	TargetID       string     `json:"target_id"`
	TargetName     string     `json:"target_name"`
	Description    string     `json:"description,omitempty"`
	MentionedUsers []string   `json:"mentioned_users,omitempty"`
	Timestamp      time.Time  `json:"timestamp,omitempty"`
}
