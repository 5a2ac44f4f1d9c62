package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/operato/trackline/internal/model"
)

// JSON-backed document storage. Single file, human-readable, portable.
// No locking for v1; fine for a local single-user CLI.

// DefaultFileName is the document looked for in the working directory when
// no -f flag is given.
const DefaultFileName = "timeline.json"

// ErrNoDocument is returned by Load when the file does not exist yet.
var ErrNoDocument = errors.New("no timeline document found")

// Wire format. Dates travel as ISO calendar date strings.
type fileDoc struct {
	Config fileConfig  `json:"config"`
	Events []fileEvent `json:"events"`
}

type fileConfig struct {
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type fileEvent struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Team        string          `json:"team"`
	Description string          `json:"description"`
	Lane        json.RawMessage `json:"lane,omitempty"`
}

// Load reads and validates the document at path.
func Load(path string) (model.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Document{}, fmt.Errorf("%w: %s", ErrNoDocument, path)
		}
		return model.Document{}, fmt.Errorf("read file: %w", err)
	}
	doc, err := Decode(b)
	if err != nil {
		return model.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document to path.
func Save(path string, doc model.Document) error {
	b, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Decode validates an imported document against the format contract.
// Rejections carry the offending field; a document with any invalid part is
// rejected whole, never partially accepted. Lane defaults to 1 when absent
// or invalid (wrong type, non-integer, out of range), and a missing or
// empty id is regenerated.
func Decode(b []byte) (model.Document, error) {
	var raw struct {
		Config *fileConfig     `json:"config"`
		Events json.RawMessage `json:"events"`
	}
	if err := sonic.Unmarshal(b, &raw); err != nil {
		return model.Document{}, fmt.Errorf("document root must be a JSON object: %w", err)
	}
	if raw.Config == nil {
		return model.Document{}, fmt.Errorf("config: missing")
	}

	cfg := model.Config{Title: strings.TrimSpace(raw.Config.Title)}
	if cfg.Title == "" {
		return model.Document{}, fmt.Errorf("config.title: cannot be empty")
	}
	var err error
	if cfg.Start, err = model.ParseDate(raw.Config.StartDate); err != nil {
		return model.Document{}, fmt.Errorf("config.startDate: %w", err)
	}
	if cfg.End, err = model.ParseDate(raw.Config.EndDate); err != nil {
		return model.Document{}, fmt.Errorf("config.endDate: %w", err)
	}
	if cfg.End.Before(cfg.Start) {
		return model.Document{}, fmt.Errorf("config.endDate: %s is before startDate %s",
			cfg.End.Format(model.DateFormat), cfg.Start.Format(model.DateFormat))
	}

	var rawEvents []fileEvent
	if len(raw.Events) > 0 && string(raw.Events) != "null" {
		if err := sonic.Unmarshal(raw.Events, &rawEvents); err != nil {
			return model.Document{}, fmt.Errorf("events: must be an array of event objects: %w", err)
		}
	}

	doc := model.Document{Config: cfg, Events: make([]model.Event, 0, len(rawEvents))}
	for i, fe := range rawEvents {
		e := model.Event{Description: strings.TrimSpace(fe.Description)}
		if e.Date, err = model.ParseDate(fe.Date); err != nil {
			return model.Document{}, fmt.Errorf("events[%d].date: %w", i, err)
		}
		if e.Team, err = model.ParseTeam(fe.Team); err != nil {
			return model.Document{}, fmt.Errorf("events[%d].team: %w", i, err)
		}
		if e.Description == "" {
			return model.Document{}, fmt.Errorf("events[%d].description: cannot be empty", i)
		}
		e.Lane = laneOrDefault(fe.Lane)
		e.ID = strings.TrimSpace(fe.ID)
		if e.ID == "" {
			e.ID = model.NewID()
		}
		doc.Events = append(doc.Events, e)
	}
	return doc, nil
}

// laneOrDefault reads a lane value tolerantly: only an integer already
// within bounds is honored, everything else (absent, wrong type, fractional,
// out of range) falls back to the first lane instead of failing the import.
func laneOrDefault(raw json.RawMessage) int {
	var n int
	if err := sonic.Unmarshal(raw, &n); err != nil {
		return model.MinLane
	}
	if n < model.MinLane || n > model.MaxLane {
		return model.MinLane
	}
	return n
}

// Encode renders the document in the wire format, indented for humans.
func Encode(doc model.Document) ([]byte, error) {
	out := fileDoc{
		Config: fileConfig{
			Title:     doc.Config.Title,
			StartDate: doc.Config.Start.Format(model.DateFormat),
			EndDate:   doc.Config.End.Format(model.DateFormat),
		},
		Events: make([]fileEvent, 0, len(doc.Events)),
	}
	for _, e := range doc.Events {
		out.Events = append(out.Events, fileEvent{
			ID:          e.ID,
			Date:        e.Date.Format(model.DateFormat),
			Team:        string(e.Team),
			Description: e.Description,
			Lane:        json.RawMessage(strconv.Itoa(e.Lane)),
		})
	}
	b, err := sonic.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}
