package directory

import (
	"context"
	"errors"
	"time"
)

// ErrCompanyNotFound indicates the directory has no company with that id.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyDirectory provides read access to the external company directory.
type CompanyDirectory interface {
	Get(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context) ([]Company, error)
}

// CalendarProvider supplies read-only events in a time range.
type CalendarProvider interface {
	EventsBetween(ctx context.Context, from, to time.Time) ([]CalendarEvent, error)
}

// Roster is the static team roster for a session. Member order is fixed at
// construction and preserved by Members.
type Roster struct {
	members []TeamMember
	byID    map[string]TeamMember
}

// NewRoster builds a roster from a fixed member list.
func NewRoster(members []TeamMember) *Roster {
	byID := make(map[string]TeamMember, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return &Roster{members: members, byID: byID}
}

// Members returns all roster members in roster order.
func (r *Roster) Members() []TeamMember {
	return r.members
}

// Lookup returns the member with the given id.
func (r *Roster) Lookup(id string) (TeamMember, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// StaticCompanies is an in-memory CompanyDirectory used when no remote
// directory is reachable, and in tests.
type StaticCompanies struct {
	companies []Company
}

// NewStaticCompanies builds a directory over a fixed company list.
func NewStaticCompanies(companies []Company) *StaticCompanies {
	return &StaticCompanies{companies: companies}
}

func (d *StaticCompanies) Get(ctx context.Context, id string) (*Company, error) {
	for i := range d.companies {
		if d.companies[i].ID == id {
			c := d.companies[i]
			return &c, nil
		}
	}
	return nil, ErrCompanyNotFound
}

func (d *StaticCompanies) List(ctx context.Context) ([]Company, error) {
	return d.companies, nil
}

// StaticCalendar is a fixed-event CalendarProvider for local sessions and tests.
type StaticCalendar struct {
	events []CalendarEvent
}

// NewStaticCalendar builds a calendar over a fixed event list.
func NewStaticCalendar(events []CalendarEvent) *StaticCalendar {
	return &StaticCalendar{events: events}
}

func (c *StaticCalendar) EventsBetween(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	var out []CalendarEvent
	for _, ev := range c.events {
		if ev.StartsAt.Before(to) && ev.EndsAt.After(from) {
			out = append(out, ev)
		}
	}
	return out, nil
}
