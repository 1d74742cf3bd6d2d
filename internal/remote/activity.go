package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mathisescriva/crmdesk/internal/domain/activity"
	"github.com/mathisescriva/crmdesk/internal/repository"
)

// ActivityRepository implements activity.Repository against the remote API.
// The log is append-only; there is no update or delete path.
type ActivityRepository struct {
	client *Client
}

// NewActivityRepository creates a new remote ActivityRepository
func NewActivityRepository(client *Client) *ActivityRepository {
	return &ActivityRepository{client: client}
}

// Append posts the entry and adopts the server-assigned row
func (r *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) (*activity.Entry, error) {
	payload := *entry
	payload.ID = "" // server assigns

	var rows []activity.Entry
	if err := r.client.Do(ctx, http.MethodPost, "/team_activities", nil, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// Recent returns the most recent entries, newest first. A limit of zero or
// less returns the whole log.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]activity.Entry, error) {
	query := url.Values{}
	query.Set("order", "timestamp.desc")
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var rows []activity.Entry
	if err := r.client.Do(ctx, http.MethodGet, "/team_activities", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Mentioning returns the entries whose mentioned users include userID, newest first
func (r *ActivityRepository) Mentioning(ctx context.Context, userID string) ([]activity.Entry, error) {
	query := url.Values{}
	query.Set("mentioned_users", contains(userID))
	query.Set("order", "timestamp.desc")

	var rows []activity.Entry
	if err := r.client.Do(ctx, http.MethodGet, "/team_activities", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
