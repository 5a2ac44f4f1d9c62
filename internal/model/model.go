package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateFormat is the wire format for every calendar date in a document.
// Day granularity only; no time component.
const DateFormat = "2006-01-02"

// Team is the track an event belongs to.
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Lane bounds. Lanes are user-assigned vertical slots, independent of any
// derived layout state.
const (
	MinLane = 1
	MaxLane = 4
)

// Event is the domain model for one timeline entry.
// Storage order is meaningless; display order is always derived.
type Event struct {
	ID          string
	Date        time.Time
	Team        Team
	Description string
	Lane        int
}

// Config holds the assessment header and the valid date range.
type Config struct {
	Title string
	Start time.Time
	End   time.Time
}

// Document is the whole persisted state: a config plus a flat event list.
type Document struct {
	Config Config
	Events []Event
}

// NewID returns a fresh opaque event identifier.
func NewID() string { return uuid.NewString() }

// ParseDate parses an ISO calendar date (YYYY-MM-DD) at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("not a valid date (want YYYY-MM-DD): %q", s)
	}
	return t, nil
}

// ParseTeam parses a team name, case-insensitively.
func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TeamRed):
		return TeamRed, nil
	case string(TeamBlue):
		return TeamBlue, nil
	}
	return "", fmt.Errorf("team must be %q or %q: %q", TeamRed, TeamBlue, s)
}

// Validate checks an event against the entry-point contract: parseable day
// date inside the configured range, known team, non-empty description, lane
// within bounds. The layout core assumes all of this already holds.
func (e Event) Validate(cfg Config) error {
	if e.Date.IsZero() {
		return fmt.Errorf("event date is not set")
	}
	if e.Team != TeamRed && e.Team != TeamBlue {
		return fmt.Errorf("team must be %q or %q: %q", TeamRed, TeamBlue, e.Team)
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("description cannot be empty")
	}
	if e.Lane < MinLane || e.Lane > MaxLane {
		return fmt.Errorf("lane must be between %d and %d: %d", MinLane, MaxLane, e.Lane)
	}
	if e.Date.Before(cfg.Start) || e.Date.After(cfg.End) {
		return fmt.Errorf("date %s is outside the timeline range %s..%s",
			e.Date.Format(DateFormat), cfg.Start.Format(DateFormat), cfg.End.Format(DateFormat))
	}
	return nil
}

// Validate checks the config header. Start after end is a user error at the
// entry point; a degenerate equal-day range is allowed and handled by the
// layout core.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if c.Start.IsZero() || c.End.IsZero() {
		return fmt.Errorf("start and end dates must be set")
	}
	if c.End.Before(c.Start) {
		return fmt.Errorf("end date %s is before start date %s",
			c.End.Format(DateFormat), c.Start.Format(DateFormat))
	}
	return nil
}

// Add appends a validated event with a fresh id and returns it.
func (d *Document) Add(e Event) (Event, error) {
	if e.ID == "" {
		e.ID = NewID()
	}
	if err := e.Validate(d.Config); err != nil {
		return Event{}, err
	}
	d.Events = append(d.Events, e)
	return e, nil
}

// Update replaces the event with the same id in place.
func (d *Document) Update(e Event) error {
	if err := e.Validate(d.Config); err != nil {
		return err
	}
	for i := range d.Events {
		if d.Events[i].ID == e.ID {
			d.Events[i] = e
			return nil
		}
	}
	return fmt.Errorf("no event with id %s", e.ID)
}

// Remove deletes the event with the given id.
func (d *Document) Remove(id string) error {
	for i := range d.Events {
		if d.Events[i].ID == id {
			d.Events = append(d.Events[:i], d.Events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no event with id %s", id)
}

// Stats counts events per team for headers.
func (d *Document) Stats() (red, blue int) {
	for _, e := range d.Events {
		if e.Team == TeamRed {
			red++
		} else {
			blue++
		}
	}
	return
}
