package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseEventArgs builds an event from the submission fields
// `<date> <red|blue> [lane] <description...>`. The lane token is optional;
// a first description word that happens to be a digit must therefore be
// quoted together with the rest. Range checking against the document config
// is the caller's job via Validate.
func ParseEventArgs(args []string) (Event, error) {
	if len(args) < 3 {
		return Event{}, fmt.Errorf("want <date> <red|blue> [lane] <description...>")
	}
	var e Event
	var err error
	if e.Date, err = ParseDate(args[0]); err != nil {
		return Event{}, err
	}
	if e.Team, err = ParseTeam(args[1]); err != nil {
		return Event{}, err
	}
	rest := args[2:]
	e.Lane = MinLane
	if n, err := strconv.Atoi(rest[0]); err == nil {
		if n < MinLane || n > MaxLane {
			return Event{}, fmt.Errorf("lane must be between %d and %d: %d", MinLane, MaxLane, n)
		}
		e.Lane = n
		rest = rest[1:]
	}
	e.Description = strings.TrimSpace(strings.Join(rest, " "))
	if e.Description == "" {
		return Event{}, fmt.Errorf("description cannot be empty")
	}
	return e, nil
}

// ParseEventLine is ParseEventArgs over a whitespace-separated input line,
// as typed into the interactive editor.
func ParseEventLine(s string) (Event, error) {
	return ParseEventArgs(strings.Fields(s))
}

// FormLine renders an event back into the editable line format.
func (e Event) FormLine() string {
	return fmt.Sprintf("%s %s %d %s", e.Date.Format(DateFormat), e.Team, e.Lane, e.Description)
}
