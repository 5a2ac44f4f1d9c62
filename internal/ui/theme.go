package ui

import "strings"

// Theme bundles palette + symbols + box borders for the terminal views.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Error            string
	Red, Blue                              string
	FlagRed, FlagBlue                      string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	AxisDot, AxisTick                      string
}

var current Theme

// SetTheme selects a named theme; unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m", Error: fgRed,
			Red: "\033[91m", Blue: "\033[94m",
			FlagRed: "▲", FlagBlue: "▼",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			AxisDot: "·", AxisTick: "┼",
		}
	case "mono":
		disableColor = true
		current = Theme{
			Title: "", Muted: "", Accent: "", Error: "",
			Red: "", Blue: "",
			FlagRed: "R", FlagBlue: "B",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			AxisDot: "-", AxisTick: "|",
		}
	default: // classic
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue, Error: fgRed,
			Red: fgRed, Blue: fgBlue,
			FlagRed: "⚑", FlagBlue: "⚑",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			AxisDot: "─", AxisTick: "┬",
		}
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }

// TeamColor picks the ANSI color for a team name.
func (t Theme) TeamColor(team string) string {
	if team == "red" {
		return t.Red
	}
	return t.Blue
}

// TeamFlag picks the flag glyph for a team name.
func (t Theme) TeamFlag(team string) string {
	if team == "red" {
		return t.FlagRed
	}
	return t.FlagBlue
}
