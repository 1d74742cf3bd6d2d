package activity

import "context"

// Repository provides persistence operations for activity entries.
type Repository interface {
	Append(ctx context.Context, entry *Entry) (*Entry, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Mentioning(ctx context.Context, userID string) ([]Entry, error)
}
