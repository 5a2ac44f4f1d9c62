package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operato/trackline/internal/model"
)

const validDoc = `{
  "config": {"title": "Q1 Assessment", "startDate": "2026-03-02", "endDate": "2026-03-29"},
  "events": [
    {"id": "e1", "date": "2026-03-05", "team": "red", "description": "Initial access", "lane": 2},
    {"id": "e2", "date": "2026-03-06", "team": "blue", "description": "EDR alert triage"}
  ]
}`

func TestDecodeValid(t *testing.T) {
	doc, err := Decode([]byte(validDoc))
	require.NoError(t, err)

	assert.Equal(t, "Q1 Assessment", doc.Config.Title)
	require.Len(t, doc.Events, 2)
	assert.Equal(t, "e1", doc.Events[0].ID)
	assert.Equal(t, model.TeamRed, doc.Events[0].Team)
	assert.Equal(t, 2, doc.Events[0].Lane)
	// Lane absent: defaults to 1.
	assert.Equal(t, 1, doc.Events[1].Lane)
}

func TestDecodeRejections(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "non_object_root",
			input:   `[1, 2, 3]`,
			wantErr: "document root must be a JSON object",
		},
		{
			name:    "missing_config",
			input:   `{"events": []}`,
			wantErr: "config: missing",
		},
		{
			name:    "empty_title",
			input:   `{"config": {"title": " ", "startDate": "2026-03-02", "endDate": "2026-03-29"}}`,
			wantErr: "config.title",
		},
		{
			name:    "bad_start_date",
			input:   `{"config": {"title": "t", "startDate": "03/02/2026", "endDate": "2026-03-29"}}`,
			wantErr: "config.startDate",
		},
		{
			name:    "end_before_start",
			input:   `{"config": {"title": "t", "startDate": "2026-03-29", "endDate": "2026-03-02"}}`,
			wantErr: "config.endDate",
		},
		{
			name:    "events_not_array",
			input:   `{"config": {"title": "t", "startDate": "2026-03-02", "endDate": "2026-03-29"}, "events": {}}`,
			wantErr: "events: must be an array",
		},
		{
			name: "bad_event_date",
			input: `{"config": {"title": "t", "startDate": "2026-03-02", "endDate": "2026-03-29"},
				"events": [{"date": "soon", "team": "red", "description": "x"}]}`,
			wantErr: "events[0].date",
		},
		{
			name: "bad_team",
			input: `{"config": {"title": "t", "startDate": "2026-03-02", "endDate": "2026-03-29"},
				"events": [{"date": "2026-03-05", "team": "purple", "description": "x"}]}`,
			wantErr: "events[0].team",
		},
		{
			name: "empty_description",
			input: `{"config": {"title": "t", "startDate": "2026-03-02", "endDate": "2026-03-29"},
				"events": [{"date": "2026-03-05", "team": "red", "description": "  "}]}`,
			wantErr: "events[0].description",
		},
		{
			name: "second_event_invalid_rejects_all",
			input: `{"config": {"title": "t", "startDate": "2026-03-02", "endDate": "2026-03-29"},
				"events": [
					{"date": "2026-03-05", "team": "red", "description": "fine"},
					{"date": "2026-03-06", "team": "red", "description": ""}]}`,
			wantErr: "events[1].description",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeLaneAndIDDefaults(t *testing.T) {
	input := `{"config": {"title": "t", "startDate": "2026-03-02", "endDate": "2026-03-29"},
		"events": [
			{"date": "2026-03-05", "team": "red", "description": "a", "lane": 9},
			{"id": "  ", "date": "2026-03-05", "team": "blue", "description": "b"}]}`

	doc, err := Decode([]byte(input))
	require.NoError(t, err)
	require.Len(t, doc.Events, 2)

	// Out-of-range lane falls back to 1, blank id is regenerated.
	assert.Equal(t, model.MinLane, doc.Events[0].Lane)
	assert.NotEmpty(t, doc.Events[1].ID)
}

func TestDecodeInvalidLaneDefaultsInsteadOfRejecting(t *testing.T) {
	tests := []struct {
		name string
		lane string
	}{
		{name: "string_typed", lane: `"2"`},
		{name: "fractional", lane: `2.5`},
		{name: "boolean", lane: `true`},
		{name: "null", lane: `null`},
		{name: "negative", lane: `-1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `{"config": {"title": "t", "startDate": "2026-03-02", "endDate": "2026-03-29"},
				"events": [{"date": "2026-03-05", "team": "red", "description": "a", "lane": ` + tt.lane + `}]}`

			doc, err := Decode([]byte(input))
			require.NoError(t, err)
			require.Len(t, doc.Events, 1)
			assert.Equal(t, model.MinLane, doc.Events[0].Lane)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	orig, err := Decode([]byte(validDoc))
	require.NoError(t, err)

	b, err := Encode(orig)
	require.NoError(t, err)

	again, err := Decode(b)
	require.NoError(t, err)
	// Ids were present on export, so content must match exactly.
	assert.Equal(t, orig, again)
}

func TestLoadSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.json")

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrNoDocument))

	doc, err := Decode([]byte(validDoc))
	require.NoError(t, err)
	require.NoError(t, Save(path, doc))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	// Corrupt file surfaces a descriptive error, not a partial document.
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
