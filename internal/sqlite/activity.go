package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mathisescriva/crmdesk/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for the local fallback
// store. The log is append-only; there is no update or delete path.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts a new activity entry, stamping id and timestamp when missing
func (r *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) (*activity.Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	mentioned, err := encodeIDs(entry.MentionedUsers)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO team_activities (
			id, user_id, action, target_type, target_id, target_name,
			description, mentioned_users, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.TargetType,
		entry.TargetID,
		entry.TargetName,
		entry.Description,
		mentioned,
		entry.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append activity: %w", err)
	}
	return entry, nil
}

// Recent returns the most recent entries, newest first. A limit of zero or
// less returns the whole log.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]activity.Entry, error) {
	query := activitySelect + ` ORDER BY timestamp DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.queryEntries(ctx, query, args...)
}

// Mentioning returns the entries whose mentioned users include userID, newest first
func (r *ActivityRepository) Mentioning(ctx context.Context, userID string) ([]activity.Entry, error) {
	query := activitySelect + ` WHERE mentioned_users LIKE ? ORDER BY timestamp DESC, rowid DESC`
	return r.queryEntries(ctx, query, `%"`+userID+`"%`)
}

const activitySelect = `
	SELECT id, user_id, action, target_type, target_id, target_name,
	       description, mentioned_users, timestamp
	FROM team_activities`

func (r *ActivityRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]activity.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var entry activity.Entry
		var description, mentioned sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.TargetType,
			&entry.TargetID,
			&entry.TargetName,
			&description,
			&mentioned,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entry.Description = description.String
		if entry.MentionedUsers, err = decodeIDs(mentioned); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return entries, nil
}
