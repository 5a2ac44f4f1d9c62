package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/operato/trackline/internal/model"
	"github.com/operato/trackline/internal/store/jsonstore"
	"github.com/operato/trackline/internal/svg"
	"github.com/operato/trackline/internal/timeline"
	"github.com/operato/trackline/internal/tui"
	"github.com/operato/trackline/internal/ui"
	"github.com/operato/trackline/internal/watch"
)

// Options tune behavior from root flags.
type Options struct {
	File  string         // document path
	Scale timeline.Scale // active scale policy
	Zoom  float64        // pixel-width scaling for rendered output
	Style string         // optional YAML style file for SVG export
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "init":
		if len(a) != 3 {
			ui.Fail("usage: trackline init <title> <start> <end>")
			return 2
		}
		return doInit(opt, a[0], a[1], a[2])

	case "add":
		if len(a) < 3 {
			ui.Fail("usage: trackline add <date> <red|blue> [lane] <description...>")
			return 2
		}
		return doAdd(opt, a)

	case "ls":
		return doList(opt)

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: trackline rm <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("rm: not a number: " + a[0])
			return 2
		}
		return doRemove(opt, n)

	case "set":
		if len(a) < 2 {
			ui.Fail("usage: trackline set <title|start|end> <value>")
			return 2
		}
		return doSet(opt, a[0], strings.Join(a[1:], " "))

	case "board":
		return doBoard(opt)

	case "render":
		out := "timeline.svg"
		if len(a) == 1 {
			out = a[0]
		} else if len(a) > 1 {
			ui.Fail("usage: trackline render [output.svg]")
			return 2
		}
		return doRender(opt, out)

	case "import":
		if len(a) != 1 {
			ui.Fail("usage: trackline import <file>")
			return 2
		}
		return doImport(opt, a[0])

	case "export":
		if len(a) != 1 {
			ui.Fail("usage: trackline export <file>")
			return 2
		}
		return doExport(opt, a[0])

	case "watch":
		out := "timeline.svg"
		if len(a) == 1 {
			out = a[0]
		} else if len(a) > 1 {
			ui.Fail("usage: trackline watch [output.svg]")
			return 2
		}
		return doWatch(opt, out)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`trackline - a red/blue engagement timeline editor

Usage:
  trackline [flags] <subcommand> [args]

Subcommands:
  init <title> <start> <end>                Create a new timeline document
  add <date> <red|blue> [lane] <desc...>    Add an event (lane 1-4, default 1)
  ls                                        List events with a track mini-map
  rm <index>                                Remove event at 1-based index
  set <title|start|end> <value>             Update the timeline config
  board                                     Interactive editor
  render [output.svg]                       Export the diagram as SVG
  import <file>                             Validate and adopt a document
  export <file>                             Write the document to a file
  watch [output.svg]                        Re-render the SVG on every change

Flags:
  -f <file>          Document path (default timeline.json)
  -scale days|weeks  Axis scale policy
  -zoom <factor>     Width scaling for rendered output
  -theme <name>      classic, neon or mono
  -style <file>      YAML style file for SVG export
  -no-color          Disable ANSI colors
  -save-prefs        Persist theme, scale and zoom as defaults

Examples:
  trackline init "Q1 Assessment" 2026-03-02 2026-03-29
  trackline add 2026-03-05 red 2 "Initial access via phishing"
  trackline -scale weeks render q1.svg
`)
}

// -------------- subcommand impls ----------------

func doInit(opt Options, title, start, end string) int {
	if _, err := os.Stat(opt.File); err == nil {
		ui.Fail("init: " + opt.File + " already exists")
		return 1
	}
	cfg := model.Config{Title: strings.TrimSpace(title)}
	var err error
	if cfg.Start, err = model.ParseDate(start); err != nil {
		ui.Fail("init: start: " + err.Error())
		return 2
	}
	if cfg.End, err = model.ParseDate(end); err != nil {
		ui.Fail("init: end: " + err.Error())
		return 2
	}
	if err := cfg.Validate(); err != nil {
		ui.Fail("init: " + err.Error())
		return 2
	}
	if err := jsonstore.Save(opt.File, model.Document{Config: cfg}); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("created " + opt.File)
	return 0
}

func doAdd(opt Options, args []string) int {
	doc, code := loadDoc(opt)
	if code != 0 {
		return code
	}
	e, err := model.ParseEventArgs(args)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}
	added, err := doc.Add(e)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(opt.File, doc); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("added %s event on %s", added.Team, added.Date.Format(model.DateFormat)))
	return 0
}

func doList(opt Options) int {
	doc, code := loadDoc(opt)
	if code != 0 {
		return code
	}
	t := ui.Current()
	red, blue := doc.Stats()

	header := fmt.Sprintf("%s  %s  %s %d  %s %d",
		ui.C(t.Title, doc.Config.Title),
		ui.C(t.Muted, doc.Config.Start.Format(model.DateFormat)+".."+doc.Config.End.Format(model.DateFormat)),
		ui.C(t.Red, "red"), red,
		ui.C(t.Blue, "blue"), blue,
	)

	lines := []string{header, ""}
	lines = append(lines, miniMap(doc, opt.Scale, 64)...)
	lines = append(lines, "")

	for i, e := range displayOrder(doc) {
		flag := ui.C(t.TeamColor(string(e.Team)), t.TeamFlag(string(e.Team)))
		desc := runewidth.Truncate(e.Description, 48, "…")
		lines = append(lines, fmt.Sprintf("%2d  %s  %s  %s  %s",
			i+1,
			ui.C(t.Muted, e.Date.Format(model.DateFormat)),
			flag,
			ui.C(t.Muted, fmt.Sprintf("L%d", e.Lane)),
			desc,
		))
	}
	if len(doc.Events) == 0 {
		lines = append(lines, ui.C(t.Muted, "no events yet — add with `trackline add`"))
	}
	ui.Panel(lines)
	return 0
}

func doRemove(opt Options, n int) int {
	doc, code := loadDoc(opt)
	if code != 0 {
		return code
	}
	ordered := displayOrder(doc)
	if n < 1 || n > len(ordered) {
		ui.Fail(fmt.Sprintf("rm: index out of range: %d", n))
		return 2
	}
	victim := ordered[n-1]
	if err := doc.Remove(victim.ID); err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(opt.File, doc); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("removed " + victim.Description)
	return 0
}

func doSet(opt Options, field, value string) int {
	doc, code := loadDoc(opt)
	if code != 0 {
		return code
	}
	cfg := doc.Config
	switch field {
	case "title":
		cfg.Title = strings.TrimSpace(value)
	case "start", "end":
		d, err := model.ParseDate(value)
		if err != nil {
			ui.Fail("set: " + err.Error())
			return 2
		}
		if field == "start" {
			cfg.Start = d
		} else {
			cfg.End = d
		}
	default:
		ui.Fail("set: unknown field: " + field)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		ui.Fail("set: " + err.Error())
		return 2
	}
	// Shrinking the range must not strand stored events outside it.
	for _, e := range doc.Events {
		if e.Date.Before(cfg.Start) || e.Date.After(cfg.End) {
			ui.Fail(fmt.Sprintf("set: event %q on %s would fall outside the new range",
				e.Description, e.Date.Format(model.DateFormat)))
			return 1
		}
	}
	doc.Config = cfg
	if err := jsonstore.Save(opt.File, doc); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("updated " + field)
	return 0
}

func doBoard(opt Options) int {
	doc, code := loadDoc(opt)
	if code != 0 {
		return code
	}
	changed, err := tui.Run(&doc, opt.Scale)
	if err != nil {
		ui.Fail("board: " + err.Error())
		return 1
	}
	if changed {
		if err := jsonstore.Save(opt.File, doc); err != nil {
			ui.Fail("save: " + err.Error())
			return 1
		}
		ui.OK("saved")
	}
	return 0
}

func doRender(opt Options, out string) int {
	doc, code := loadDoc(opt)
	if code != 0 {
		return code
	}
	style, err := svg.LoadStyle(opt.Style)
	if err != nil {
		ui.Fail("render: " + err.Error())
		return 1
	}
	l := timeline.Resolve(doc, opt.Scale)
	if err := os.WriteFile(out, []byte(svg.Render(l, doc.Config.Title, style, opt.Zoom)), 0o644); err != nil {
		ui.Fail("render: " + err.Error())
		return 1
	}
	ui.OK("rendered " + out)
	return 0
}

func doImport(opt Options, path string) int {
	doc, err := jsonstore.Load(path)
	if err != nil {
		// All-or-nothing: the current document is untouched on any failure.
		ui.Fail("import: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(opt.File, doc); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("imported %d events from %s", len(doc.Events), path))
	return 0
}

func doExport(opt Options, path string) int {
	doc, code := loadDoc(opt)
	if code != 0 {
		return code
	}
	if err := jsonstore.Save(path, doc); err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	ui.OK("exported " + path)
	return 0
}

func doWatch(opt Options, out string) int {
	if err := watch.Run(watch.Config{
		DocPath:   opt.File,
		OutPath:   out,
		StylePath: opt.Style,
		Scale:     opt.Scale,
		Zoom:      opt.Zoom,
	}); err != nil {
		ui.Fail("watch: " + err.Error())
		return 1
	}
	return 0
}

// -------------- helpers ----------------

func loadDoc(opt Options) (model.Document, int) {
	doc, err := jsonstore.Load(opt.File)
	if err != nil {
		if errors.Is(err, jsonstore.ErrNoDocument) {
			ui.Fail("no timeline at " + opt.File + " — create one with `trackline init`")
			return model.Document{}, 1
		}
		ui.Fail("load: " + err.Error())
		return model.Document{}, 1
	}
	return doc, 0
}

// displayOrder sorts events by date, keeping stored order for same-day
// events. Indexes shown by ls are positions in this ordering.
func displayOrder(doc model.Document) []model.Event {
	ordered := make([]model.Event, len(doc.Events))
	copy(ordered, doc.Events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}

// miniMap renders both tracks and the axis as three terminal rows, a second
// consumer of the same layout snapshot the SVG renderer uses.
func miniMap(doc model.Document, scale timeline.Scale, width int) []string {
	t := ui.Current()
	l := timeline.Resolve(doc, scale)

	marks := func(ps []timeline.Placement, ofs []timeline.Overflow, color, glyph string) []ui.Mark {
		var ms []ui.Mark
		for _, p := range ps {
			if p.Truncated {
				continue
			}
			ms = append(ms, ui.Mark{Percent: p.Percent, Glyph: glyph, Color: color})
		}
		for _, of := range ofs {
			ms = append(ms, ui.Mark{Percent: of.Percent, Glyph: fmt.Sprintf("+%d", of.Count), Color: color})
		}
		return ms
	}

	var ticks []float64
	for _, tick := range l.Ticks() {
		if tick.Week || scale == timeline.ScaleDays {
			ticks = append(ticks, tick.Percent)
		}
	}

	return []string{
		ui.TrackRow(width, marks(l.Red, l.RedOverflow, t.Red, t.FlagRed)),
		ui.AxisRow(width, ticks),
		ui.TrackRow(width, marks(l.Blue, l.BlueOverflow, t.Blue, t.FlagBlue)),
	}
}
