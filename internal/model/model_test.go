package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func testConfig(t *testing.T) Config {
	return Config{
		Title: "Spring Engagement",
		Start: mustDate(t, "2026-03-02"),
		End:   mustDate(t, "2026-03-29"),
	}
}

func TestParseDate(t *testing.T) {
	d := mustDate(t, "2026-03-05")
	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, 0, d.Hour())

	for _, bad := range []string{"", "03/05/2026", "2026-3-5", "2026-03-05T10:00:00Z", "soon"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseTeam(t *testing.T) {
	for in, want := range map[string]Team{"red": TeamRed, "BLUE": TeamBlue, " Red ": TeamRed} {
		got, err := ParseTeam(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseTeam("purple")
	assert.Error(t, err)
}

func TestEventValidate(t *testing.T) {
	cfg := testConfig(t)
	ok := Event{ID: "x", Date: mustDate(t, "2026-03-10"), Team: TeamRed, Description: "recon", Lane: 1}
	require.NoError(t, ok.Validate(cfg))

	tests := []struct {
		name   string
		mutate func(*Event)
	}{
		{"empty_description", func(e *Event) { e.Description = "   " }},
		{"bad_team", func(e *Event) { e.Team = "purple" }},
		{"lane_too_small", func(e *Event) { e.Lane = 0 }},
		{"lane_too_large", func(e *Event) { e.Lane = 5 }},
		{"before_range", func(e *Event) { e.Date = mustDate(t, "2026-02-27") }},
		{"after_range", func(e *Event) { e.Date = mustDate(t, "2026-04-01") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ok
			tt.mutate(&e)
			assert.Error(t, e.Validate(cfg))
		})
	}
}

func TestDocumentCRUD(t *testing.T) {
	doc := Document{Config: testConfig(t)}

	added, err := doc.Add(Event{Date: mustDate(t, "2026-03-10"), Team: TeamRed, Description: "phish", Lane: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	require.Len(t, doc.Events, 1)

	// Out-of-range events are rejected at the entry point, not stored.
	_, err = doc.Add(Event{Date: mustDate(t, "2026-05-01"), Team: TeamRed, Description: "late", Lane: 1})
	assert.Error(t, err)
	assert.Len(t, doc.Events, 1)

	added.Description = "spear phish"
	require.NoError(t, doc.Update(added))
	assert.Equal(t, "spear phish", doc.Events[0].Description)

	require.NoError(t, doc.Remove(added.ID))
	assert.Empty(t, doc.Events)
	assert.Error(t, doc.Remove(added.ID))
}

func TestParseEventArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantLane int
		wantDesc string
		wantErr  bool
	}{
		{
			name:     "with_lane",
			args:     []string{"2026-03-10", "red", "3", "Credential", "harvesting"},
			wantLane: 3,
			wantDesc: "Credential harvesting",
		},
		{
			name:     "without_lane",
			args:     []string{"2026-03-10", "blue", "Alert", "triage"},
			wantLane: MinLane,
			wantDesc: "Alert triage",
		},
		{
			name:    "lane_out_of_range",
			args:    []string{"2026-03-10", "red", "7", "whoops"},
			wantErr: true,
		},
		{
			name:    "lane_but_no_description",
			args:    []string{"2026-03-10", "red", "2"},
			wantErr: true,
		},
		{
			name:    "too_few_fields",
			args:    []string{"2026-03-10", "red"},
			wantErr: true,
		},
		{
			name:    "bad_date",
			args:    []string{"tomorrow", "red", "thing"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseEventArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLane, e.Lane)
			assert.Equal(t, tt.wantDesc, e.Description)
		})
	}
}

func TestFormLineRoundTrip(t *testing.T) {
	e := Event{Date: mustDate(t, "2026-03-10"), Team: TeamBlue, Description: "Netflow review", Lane: 4}
	again, err := ParseEventLine(e.FormLine())
	require.NoError(t, err)
	assert.Equal(t, e.Date, again.Date)
	assert.Equal(t, e.Team, again.Team)
	assert.Equal(t, e.Lane, again.Lane)
	assert.Equal(t, e.Description, again.Description)
}
