package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mathisescriva/crmdesk/internal/directory"
)

// CompanyDirectory reads the externally owned company collection through the
// remote API. The workspace never writes these rows.
type CompanyDirectory struct {
	client *Client
}

// NewCompanyDirectory creates a remote-backed company directory reader
func NewCompanyDirectory(client *Client) *CompanyDirectory {
	return &CompanyDirectory{client: client}
}

// Get retrieves one company by ID
func (d *CompanyDirectory) Get(ctx context.Context, id string) (*directory.Company, error) {
	query := url.Values{}
	query.Set("id", eq(id))

	var rows []directory.Company
	if err := d.client.Do(ctx, http.MethodGet, "/companies", query, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, directory.ErrCompanyNotFound
	}
	return &rows[0], nil
}

// List returns the whole company collection
func (d *CompanyDirectory) List(ctx context.Context) ([]directory.Company, error) {
	var rows []directory.Company
	if err := d.client.Do(ctx, http.MethodGet, "/companies", nil, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
