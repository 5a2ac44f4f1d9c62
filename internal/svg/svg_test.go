package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operato/trackline/internal/model"
	"github.com/operato/trackline/internal/timeline"
)

func testDoc(t *testing.T) model.Document {
	t.Helper()
	start, err := model.ParseDate("2026-03-02")
	require.NoError(t, err)
	end, err := model.ParseDate("2026-03-29")
	require.NoError(t, err)
	d3, err := model.ParseDate("2026-03-05")
	require.NoError(t, err)
	d4, err := model.ParseDate("2026-03-12")
	require.NoError(t, err)

	return model.Document{
		Config: model.Config{Title: "Q1 <Assessment>", Start: start, End: end},
		Events: []model.Event{
			{ID: "r1", Date: d3, Team: model.TeamRed, Description: "Initial access", Lane: 1},
			{ID: "b1", Date: d4, Team: model.TeamBlue, Description: "Containment & triage", Lane: 2},
		},
	}
}

func TestRenderBasics(t *testing.T) {
	doc := testDoc(t)
	l := timeline.Resolve(doc, timeline.ScaleWeeks)
	out := Render(l, doc.Config.Title, DefaultStyle(), 1.0)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0"`))
	assert.Contains(t, out, "</svg>")
	// One flag polygon per visible event.
	assert.Equal(t, 2, strings.Count(out, "<polygon"))
	// Escaping: raw title and ampersand must not leak through.
	assert.Contains(t, out, "Q1 &lt;Assessment&gt;")
	assert.Contains(t, out, "Containment &amp; triage")
	assert.NotContains(t, out, "Q1 <Assessment>")
	// Four week columns means four week ticks.
	assert.Equal(t, 4, strings.Count(out, `class="tick-text"`))
}

func TestRenderZoomScalesWidthOnly(t *testing.T) {
	doc := testDoc(t)
	l := timeline.Resolve(doc, timeline.ScaleDays)

	normal := Render(l, doc.Config.Title, DefaultStyle(), 1.0)
	wide := Render(l, doc.Config.Title, DefaultStyle(), 2.0)

	assert.Contains(t, normal, `<svg width="1200" height="640"`)
	assert.Contains(t, wide, `<svg width="2400" height="640"`)
}

func TestRenderOverflowBadge(t *testing.T) {
	doc := testDoc(t)
	date := doc.Events[0].Date
	for _, id := range []string{"x1", "x2", "x3", "x4"} {
		doc.Events = append(doc.Events, model.Event{
			ID: id, Date: date, Team: model.TeamRed, Description: "burst " + id, Lane: 1,
		})
	}

	l := timeline.Resolve(doc, timeline.ScaleDays)
	out := Render(l, doc.Config.Title, DefaultStyle(), 1.0)

	// 5 red events on one day: 3 visible flags + blue's flag, one +2 badge
	// carrying the hidden descriptions as a tooltip.
	assert.Contains(t, out, ">+2</text>")
	assert.Contains(t, out, "burst x3")
	assert.Contains(t, out, "burst x4")
	assert.Equal(t, 1, strings.Count(out, "<circle"))
}

func TestRenderClampsOutOfRangeEvents(t *testing.T) {
	doc := testDoc(t)
	before, err := model.ParseDate("2026-02-20")
	require.NoError(t, err)
	after, err := model.ParseDate("2026-04-30")
	require.NoError(t, err)
	doc.Events = append(doc.Events,
		model.Event{ID: "o1", Date: before, Team: model.TeamRed, Description: "early recon", Lane: 1},
		model.Event{ID: "o2", Date: after, Team: model.TeamBlue, Description: "late report", Lane: 1},
	)

	l := timeline.Resolve(doc, timeline.ScaleDays)
	out := Render(l, doc.Config.Title, DefaultStyle(), 1.0)

	// Default layout: plot spans x=60..1160. Events outside the configured
	// range pin to the plot edges instead of rendering off-canvas.
	assert.Contains(t, out, `<line x1="60" y1="320" x2="60"`)
	assert.Contains(t, out, `<line x1="1160" y1="320" x2="1160"`)
	for _, line := range strings.Split(out, "\n") {
		assert.NotContains(t, line, `x1="-`)
	}
}

func TestLoadStyleMissingFileFails(t *testing.T) {
	_, err := LoadStyle("nope.yaml")
	assert.Error(t, err)

	s, err := LoadStyle("")
	require.NoError(t, err)
	assert.Equal(t, DefaultStyle(), s)
}
