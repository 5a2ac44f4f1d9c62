// Package svg renders a resolved timeline layout into a static SVG diagram:
// a center axis with day or week ticks, red team flags above, blue team
// flags below, and "+N" badges where clusters overflow.
//
// The renderer is a pure consumer of layout placements; it knows nothing
// about the document beyond the percentages, offsets and counts it is
// handed.
package svg

import (
	"fmt"
	"strings"

	"github.com/operato/trackline/internal/model"
	"github.com/operato/trackline/internal/timeline"
)

// Render draws the layout. Zoom scales the final pixel width only; the
// underlying percentages are untouched.
func Render(l timeline.Layout, title string, style Style, zoom float64) string {
	if zoom <= 0 {
		zoom = 1
	}
	width := int(float64(style.Layout.Width) * zoom)
	height := style.Layout.Height
	plotW := width - style.Layout.MarginLeft - style.Layout.MarginRight
	axisY := height / 2

	// Positions are clamped to the plot edges so events outside the
	// configured range (possible after an import) stay on the canvas.
	xFor := func(percent float64) int {
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
		return style.Layout.MarginLeft + int(percent/100*float64(plotW))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.title-text { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.event-text { font-family: %s; font-size: %dpx; fill: %s; }
.tick-text { font-family: %s; font-size: %dpx; fill: %s; }
.badge-text { font-family: %s; font-size: %dpx; font-weight: bold; fill: #ffffff; }
</style>
</defs>
`, width, height, style.Colors.Background,
		style.Font.Family, style.Font.Size+4, style.Colors.Text,
		style.Font.Family, style.Font.Size, style.Colors.Text,
		style.Font.Family, style.Font.Size-2, style.Colors.Muted,
		style.Font.Family, style.Font.Size-2))

	// Title
	b.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" class="title-text">%s</text>`+"\n",
		width/2, style.Layout.MarginTop/2, escapeXML(title)))

	// Axis
	b.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`+"\n",
		style.Layout.MarginLeft, axisY, style.Layout.MarginLeft+plotW, axisY, style.Colors.Axis))
	drawTicks(&b, l.Ticks(), xFor, axisY, style)

	// Red above the axis, blue below.
	for _, p := range l.Red {
		drawFlag(&b, p, xFor(p.Percent), axisY, -1, style)
	}
	for _, p := range l.Blue {
		drawFlag(&b, p, xFor(p.Percent), axisY, +1, style)
	}
	for _, of := range l.RedOverflow {
		drawBadge(&b, of, xFor(of.Percent), axisY, -1, style, style.Colors.Red)
	}
	for _, of := range l.BlueOverflow {
		drawBadge(&b, of, xFor(of.Percent), axisY, +1, style, style.Colors.Blue)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func drawTicks(b *strings.Builder, ticks []timeline.Tick, xFor func(float64) int, axisY int, style Style) {
	for _, t := range ticks {
		x := xFor(t.Percent)
		label := t.Date.Format("02")
		if t.Week {
			label = t.Date.Format("Jan 02")
		}
		b.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			x, axisY-4, x, axisY+4, style.Colors.Muted))
		b.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" class="tick-text">%s</text>`+"\n",
			x, axisY+18, escapeXML(label)))
	}
}

// drawFlag draws one visible placement: a pole from the axis to the lane
// offset and a pennant with the event text. dir is -1 above the axis (red)
// and +1 below (blue). Truncated placements are left to the overflow badge.
func drawFlag(b *strings.Builder, p timeline.Placement, x, axisY, dir int, style Style) {
	if p.Truncated {
		return
	}
	color := style.teamColor(string(p.Event.Team))
	topY := axisY + dir*int(p.Offset())

	b.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
		x, axisY, x, topY, color))

	fw, fh := style.Layout.FlagWidth, style.Layout.FlagHeight
	flagBase := topY
	if dir < 0 {
		b.WriteString(fmt.Sprintf(`<polygon points="%d,%d %d,%d %d,%d" fill="%s"/>`+"\n",
			x, flagBase, x+fw, flagBase+fh/2, x, flagBase+fh, color))
	} else {
		b.WriteString(fmt.Sprintf(`<polygon points="%d,%d %d,%d %d,%d" fill="%s"/>`+"\n",
			x, flagBase, x+fw, flagBase-fh/2, x, flagBase-fh, color))
	}

	textY := flagBase - 3
	if dir > 0 {
		textY = flagBase + style.Font.Size
	}
	b.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="start" class="event-text">%s</text>`+"\n",
		x+fw+3, textY, escapeXML(p.Event.Description)))
}

// drawBadge draws the "+N more" marker one stack slot past the last visible
// flag. The hidden descriptions ride along as an SVG tooltip, the static
// stand-in for the expandable affordance.
func drawBadge(b *strings.Builder, of timeline.Overflow, x, axisY, dir int, style Style, color string) {
	cy := axisY + dir*int(of.Offset)
	r := style.Layout.BadgeRadius

	var hidden []string
	for _, e := range of.Events {
		hidden = append(hidden, e.Date.Format(model.DateFormat)+" "+e.Description)
	}

	b.WriteString(fmt.Sprintf(`<g><title>%s</title>`, escapeXML(strings.Join(hidden, "\n"))))
	b.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%d" fill="%s"/>`, x, cy, r, color))
	b.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" class="badge-text">+%d</text></g>`+"\n",
		x, cy+style.Font.Size/3, of.Count))
}

func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
