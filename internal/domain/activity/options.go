package activity

// RecordOptions carries the optional fields of an activity entry.
type RecordOptions struct {
	Description    string
	MentionedUsers []string
}
