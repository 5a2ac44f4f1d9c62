package timeline

import (
	"sort"
	"time"

	"github.com/operato/trackline/internal/model"
)

// Layout geometry. Threshold is in axis percentage points, offsets in the
// render layer's unscaled pixel units (zoom is applied downstream).
const (
	// ClusterThreshold is how far a placement may sit from its cluster's
	// first member before it starts a new cluster.
	ClusterThreshold = 1.5
	// VisibleStack is how many flags a cluster shows before the rest
	// collapse into an overflow badge.
	VisibleStack = 3

	PoleBase     = 36.0
	StackSpacing = 22.0
)

// Placement is one event resolved to an axis position. Recomputed in full on
// every pass, never stored.
type Placement struct {
	Event       model.Event
	Percent     float64
	StackIndex  int
	ClusterSize int
	Truncated   bool
}

// Offset is the vertical distance from the axis to the flag, driven by the
// event's own lane. Clustering never moves a flag vertically: two clustered
// events on the same lane overlap, lanes and clusters are separate axes.
func (p Placement) Offset() float64 {
	return PoleBase + float64(p.Event.Lane-model.MinLane)*StackSpacing
}

// Overflow summarizes the hidden members of a cluster, one descriptor per
// date, rendered as an expandable "+N" badge past the visible stack.
type Overflow struct {
	Date    time.Time
	Percent float64
	Count   int
	Offset  float64
	Events  []model.Event
}

// Layout is the complete output snapshot of one resolve pass: the whole
// contract toward any render layer.
type Layout struct {
	Axis         Axis
	Red          []Placement
	Blue         []Placement
	RedOverflow  []Overflow
	BlueOverflow []Overflow
}

// Ticks exposes the axis annotations for the pass.
func (l Layout) Ticks() []Tick { return l.Axis.Ticks() }

// Resolve recomputes the entire layout from the current document. It is a
// pure function of its inputs: no caching, no incremental updates.
func Resolve(doc model.Document, scale Scale) Layout {
	axis := NewAxis(doc.Config, scale)
	red := resolveTeam(doc.Events, model.TeamRed, axis)
	blue := resolveTeam(doc.Events, model.TeamBlue, axis)
	return Layout{
		Axis:         axis,
		Red:          red,
		Blue:         blue,
		RedOverflow:  collectOverflow(red),
		BlueOverflow: collectOverflow(blue),
	}
}

func resolveTeam(events []model.Event, team model.Team, axis Axis) []Placement {
	var ps []Placement
	for _, e := range events {
		if e.Team == team {
			ps = append(ps, Placement{Event: e})
		}
	}
	// Stable: same-day events keep their stored relative order.
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Event.Date.Before(ps[j].Event.Date)
	})
	for i := range ps {
		ps[i].Percent = axis.Percent(ps[i].Event.Date)
	}
	cluster(ps)
	return ps
}

// cluster walks placements in axis order and groups runs whose percent stays
// within ClusterThreshold of the run's FIRST member. The anchor is the first
// member, not the previous one: a chain of close neighbors still breaks once
// it drifts far enough from where the cluster began.
func cluster(ps []Placement) {
	for start := 0; start < len(ps); {
		end := start + 1
		for end < len(ps) && ps[end].Percent-ps[start].Percent < ClusterThreshold {
			end++
		}
		for i := start; i < end; i++ {
			ps[i].StackIndex = i - start
			ps[i].ClusterSize = end - start
			ps[i].Truncated = i-start >= VisibleStack
		}
		start = end
	}
}

// collectOverflow groups truncated placements by their shared date. The team
// walk is date-sorted, so members of a group are always adjacent.
func collectOverflow(ps []Placement) []Overflow {
	var out []Overflow
	for _, p := range ps {
		if !p.Truncated {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Event.Date) {
			out[n-1].Count++
			out[n-1].Events = append(out[n-1].Events, p.Event)
			continue
		}
		out = append(out, Overflow{
			Date:    p.Event.Date,
			Percent: p.Percent,
			Count:   1,
			Offset:  PoleBase + VisibleStack*StackSpacing,
			Events:  []model.Event{p.Event},
		})
	}
	return out
}
