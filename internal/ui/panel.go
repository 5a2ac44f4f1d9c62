package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	t := Current()
	// compute visible width
	maxw := 0
	for _, ln := range lines {
		if w := runewidth.StringWidth(stripANSI(ln)); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		vis := runewidth.StringWidth(stripANSI(s))
		if vis < maxw {
			s = s + strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Println(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR)
	for _, ln := range lines {
		fmt.Println(t.V + " " + pad(ln) + " " + t.V)
	}
	fmt.Println(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR)
}

// Mark is one glyph placed on a track row at an axis percentage.
type Mark struct {
	Percent float64
	Glyph   string // may span several cells, e.g. "+2"
	Color   string
}

// TrackRow lays marks onto a fixed-width row of spaces. A later mark wins a
// contested cell; callers emit overflow badges after the flags they
// summarize, so badges stay visible.
func TrackRow(width int, marks []Mark) string {
	if width < 2 {
		width = 2
	}
	cells := make([]string, width)
	colors := make([]string, width)
	for i := range cells {
		cells[i] = " "
	}
	for _, m := range marks {
		at := column(m.Percent, width)
		for _, r := range m.Glyph {
			if at >= width {
				break
			}
			cells[at] = string(r)
			colors[at] = m.Color
			at++
		}
	}
	var b strings.Builder
	for i, c := range cells {
		if colors[i] != "" && c != " " {
			b.WriteString(C(colors[i], c))
			continue
		}
		b.WriteString(c)
	}
	return b.String()
}

// AxisRow renders the axis line with tick marks for the mini-map.
func AxisRow(width int, tickPercents []float64) string {
	if width < 2 {
		width = 2
	}
	t := Current()
	cells := make([]string, width)
	for i := range cells {
		cells[i] = t.AxisDot
	}
	for _, p := range tickPercents {
		cells[column(p, width)] = t.AxisTick
	}
	return C(t.Muted, strings.Join(cells, ""))
}

func column(percent float64, width int) int {
	c := int(percent / 100 * float64(width-1))
	if c < 0 {
		c = 0
	}
	if c > width-1 {
		c = width - 1
	}
	return c
}
