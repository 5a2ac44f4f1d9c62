package timeline

import (
	"time"

	"github.com/operato/trackline/internal/model"
)

// Scale selects how calendar days map onto the horizontal axis.
type Scale string

const (
	// ScaleDays positions days linearly across the range.
	ScaleDays Scale = "days"
	// ScaleWeeks gives every calendar week an equal width column, even when
	// the range starts or ends mid-week. Column uniformity is traded against
	// strict chronological proportionality on purpose: the gridlines stay
	// even.
	ScaleWeeks Scale = "weeks"
)

const day = 24 * time.Hour

// ParseScale parses a scale policy name.
func ParseScale(s string) (Scale, bool) {
	switch Scale(s) {
	case ScaleDays, ScaleWeeks:
		return Scale(s), true
	}
	return "", false
}

// Tick is an axis annotation handed to render layers.
type Tick struct {
	Date    time.Time
	Percent float64
	Week    bool // week-boundary tick rather than a single-day tick
}

// Axis maps a calendar day to a horizontal percentage in [0, 100) for a
// configured date range under one scale policy. It is a plain value built
// once per layout pass; it never sees pixels or zoom.
type Axis struct {
	Start, End time.Time
	Scale      Scale

	weekStarts []time.Time
}

// NewAxis builds an axis for the configured range.
func NewAxis(cfg model.Config, scale Scale) Axis {
	a := Axis{Start: cfg.Start, End: cfg.End, Scale: scale}
	if scale == ScaleWeeks {
		a.weekStarts = weekStarts(cfg.Start, cfg.End)
	}
	return a
}

// Percent maps a day to its horizontal position. Dates are assumed valid and
// in range; that contract is enforced at the entry points, not here.
func (a Axis) Percent(d time.Time) float64 {
	if a.Scale == ScaleWeeks {
		return a.weekPercent(d)
	}
	return a.dayPercent(d)
}

func (a Axis) dayPercent(d time.Time) float64 {
	total := daysBetween(a.Start, a.End)
	if total <= 0 {
		// Degenerate single-day range: everything collapses to the origin.
		return 0
	}
	return float64(daysBetween(a.Start, d)) / float64(total) * 100
}

// weekPercent gives each week a 100/numWeeks share and positions the day at
// its fractional offset inside that share. Lookup scans from the most recent
// week start backward. The final week's length runs one day past the end
// date so the end date itself lands inside it.
func (a Axis) weekPercent(d time.Time) float64 {
	n := len(a.weekStarts)
	if n == 0 {
		return 0
	}
	width := 100.0 / float64(n)
	for i := n - 1; i >= 0; i-- {
		ws := a.weekStarts[i]
		if ws.After(d) {
			continue
		}
		weekEnd := a.End.Add(day)
		if i < n-1 {
			weekEnd = a.weekStarts[i+1]
		}
		length := daysBetween(ws, weekEnd)
		if length <= 0 {
			return float64(i) * width
		}
		return float64(i)*width + float64(daysBetween(ws, d))/float64(length)*width
	}
	return 0
}

// Ticks emits the axis annotations for the active policy: one tick per week
// start under ScaleWeeks, one per day under ScaleDays.
func (a Axis) Ticks() []Tick {
	if a.Scale == ScaleWeeks {
		n := len(a.weekStarts)
		if n == 0 {
			return nil
		}
		width := 100.0 / float64(n)
		ticks := make([]Tick, 0, n)
		for i, ws := range a.weekStarts {
			ticks = append(ticks, Tick{Date: ws, Percent: float64(i) * width, Week: true})
		}
		return ticks
	}
	total := daysBetween(a.Start, a.End)
	if total < 0 {
		return nil
	}
	ticks := make([]Tick, 0, total+1)
	for i := 0; i <= total; i++ {
		d := a.Start.Add(time.Duration(i) * day)
		ticks = append(ticks, Tick{Date: d, Percent: a.dayPercent(d)})
	}
	return ticks
}

// weekStarts partitions [start, end] at Monday cuts. The first entry is the
// start date itself, so a mid-week start yields a short leading week.
func weekStarts(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	starts := []time.Time{start}
	next := nextMonday(start)
	for !next.After(end) {
		starts = append(starts, next)
		next = next.Add(7 * day)
	}
	return starts
}

func nextMonday(t time.Time) time.Time {
	d := t.Add(day)
	for d.Weekday() != time.Monday {
		d = d.Add(day)
	}
	return d
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}
