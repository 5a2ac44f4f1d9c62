package tui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"syscall"
	"unsafe"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/operato/trackline/internal/model"
	"github.com/operato/trackline/internal/timeline"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	redStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	blueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

func teamStyle(team model.Team) lipgloss.Style {
	if team == model.TeamRed {
		return redStyle
	}
	return blueStyle
}

// listItem adapts an Event to bubbles/list.Item.
type listItem struct {
	ev model.Event
}

func (i listItem) Title() string       { return i.ev.Description }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.ev.Description }

// Custom delegate to control how events render (single line).
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	line := fmt.Sprintf("%s  %s  %s  %s",
		mutedStyle.Render(it.ev.Date.Format(model.DateFormat)),
		teamStyle(it.ev.Team).Render(fmt.Sprintf("%-4s", it.ev.Team)),
		mutedStyle.Render(fmt.Sprintf("L%d", it.ev.Lane)),
		it.ev.Description,
	)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type editor struct {
	list    list.Model
	doc     *model.Document
	scale   timeline.Scale
	changed bool

	// Inline add/edit share one text input; the line format is the same one
	// the CLI takes: <date> <team> [lane] <description...>.
	adding   bool
	editing  bool
	editID   string
	ti       textinput.Model
	inputErr string

	// Undo support (single-level)
	canUndo bool
	undo    model.Event
}

// Run starts the Bubble Tea editor over the document. It mutates doc in
// place and reports whether anything changed; persisting is the caller's
// job.
func Run(doc *model.Document, scale timeline.Scale) (bool, error) {
	m := editor{doc: doc, scale: scale}

	l := list.New(m.items(), itemDelegate{}, 0, 0)
	l.Title = headerLine(doc)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("event", "events")

	// Extend help with our bindings
	extra := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "team")),
		key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "lane")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return extra }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extra }
	m.list = l

	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "2026-03-05 red 2 Initial access..."
	m.ti.CharLimit = 200

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := finalModel.(editor)
	if !ok {
		return false, nil
	}
	return fm.changed, nil
}

func headerLine(doc *model.Document) string {
	red, blue := doc.Stats()
	return fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render(doc.Config.Title),
		redStyle.Render("red"), red,
		blueStyle.Render("blue"), blue,
	)
}

// items rebuilds the list entries in display order: date-sorted, stable for
// same-day events.
func (m editor) items() []list.Item {
	ordered := make([]model.Event, len(m.doc.Events))
	copy(ordered, m.doc.Events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	li := make([]list.Item, 0, len(ordered))
	for _, e := range ordered {
		li = append(li, listItem{ev: e})
	}
	return li
}

func (m *editor) refresh() {
	m.list.SetItems(m.items())
	m.list.Title = headerLine(m.doc)
}

func (m editor) selected() (model.Event, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Event{}, false
	}
	return it.ev, true
}

func (m editor) Init() tea.Cmd { return nil }

func (m editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// input mode (shared by add and edit)
	if m.adding || m.editing {
		var cmd tea.Cmd
		switch x := msg.(type) {
		case tea.KeyMsg:
			switch x.String() {
			case "enter":
				e, err := model.ParseEventLine(m.ti.Value())
				if err != nil {
					m.inputErr = err.Error()
					return m, nil
				}
				if m.editing {
					e.ID = m.editID
					err = m.doc.Update(e)
				} else {
					_, err = m.doc.Add(e)
				}
				if err != nil {
					m.inputErr = err.Error()
					return m, nil
				}
				m.changed = true
				m.inputErr = ""
				m.adding, m.editing = false, false
				m.ti.SetValue("")
				m.ti.Blur()
				m.refresh()
				return m, nil
			case "esc":
				m.adding, m.editing = false, false
				m.inputErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "a":
			m.adding = true
			m.inputErr = ""
			m.ti.SetValue("")
			m.ti.Focus()
			return m, nil
		case "e":
			if e, ok := m.selected(); ok {
				m.editing = true
				m.editID = e.ID
				m.inputErr = ""
				m.ti.SetValue(e.FormLine())
				m.ti.CursorEnd()
				m.ti.Focus()
			}
			return m, nil
		case "t":
			if e, ok := m.selected(); ok {
				if e.Team == model.TeamRed {
					e.Team = model.TeamBlue
				} else {
					e.Team = model.TeamRed
				}
				if m.doc.Update(e) == nil {
					m.changed = true
					m.refresh()
				}
			}
			return m, nil
		case "L":
			if e, ok := m.selected(); ok {
				e.Lane = e.Lane%model.MaxLane + 1
				if m.doc.Update(e) == nil {
					m.changed = true
					m.refresh()
				}
			}
			return m, nil
		case "d":
			if e, ok := m.selected(); ok {
				if m.doc.Remove(e.ID) == nil {
					m.undo = e
					m.canUndo = true
					m.changed = true
					m.refresh()
				}
			}
			return m, nil
		case "u":
			if m.canUndo {
				if _, err := m.doc.Add(m.undo); err == nil {
					m.changed = true
					m.canUndo = false
					m.refresh()
				}
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m editor) View() string {
	w, h := widthHeight()
	track := m.trackRows(w - 8)
	listHeight := h - 8
	if m.adding || m.editing {
		listHeight = h - 10
	}
	m.list.SetSize(w-2, listHeight)

	content := strings.Join(track, "\n") + "\n" + m.list.View()
	if m.adding || m.editing {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add event  (date team [lane] description)"
		if m.editing {
			title = "Edit event"
		}
		if m.inputErr != "" {
			title += " — " + errorStyle.Render(m.inputErr)
		}
		content = content + "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return panelString(content)
}

// trackRows draws the red track, the axis and the blue track as a mini-map.
// It is recomputed from scratch on every view pass, off the same layout
// snapshot every other renderer consumes.
func (m editor) trackRows(width int) []string {
	if width < 16 {
		width = 16
	}
	l := timeline.Resolve(*m.doc, m.scale)

	row := func(ps []timeline.Placement, ofs []timeline.Overflow, style lipgloss.Style) string {
		cells := make([]string, width)
		for i := range cells {
			cells[i] = " "
		}
		put := func(percent float64, s string) {
			at := cellFor(percent, width)
			for _, r := range s {
				if at >= width {
					break
				}
				cells[at] = style.Render(string(r))
				at++
			}
		}
		for _, p := range ps {
			if !p.Truncated {
				put(p.Percent, "⚑")
			}
		}
		for _, of := range ofs {
			put(of.Percent, fmt.Sprintf("+%d", of.Count))
		}
		return strings.Join(cells, "")
	}

	axis := make([]string, width)
	for i := range axis {
		axis[i] = "─"
	}
	for _, tick := range l.Ticks() {
		if tick.Week || m.scale == timeline.ScaleDays {
			axis[cellFor(tick.Percent, width)] = "┬"
		}
	}

	return []string{
		row(l.Red, l.RedOverflow, redStyle),
		mutedStyle.Render(strings.Join(axis, "")),
		row(l.Blue, l.BlueOverflow, blueStyle),
	}
}

func cellFor(percent float64, width int) int {
	c := int(percent / 100 * float64(width-1))
	if c < 0 {
		c = 0
	}
	if c > width-1 {
		c = width - 1
	}
	return c
}

// helpers for View
func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

func widthHeight() (int, int) {
	w, h := 80, 24
	if tw, th, err := termSize(); err == nil {
		w, h = tw, th
	}
	return w, h
}

// portable terminal size
func termSize() (int, int, error) {
	fd := int(os.Stdout.Fd())
	type winsize struct {
		Row, Col, Xpixel, Ypixel uint16
	}
	ws := &winsize{}
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL,
		uintptr(fd), uintptr(syscall.TIOCGWINSZ), uintptr(unsafe.Pointer(ws)))
	if err != 0 {
		return 0, 0, fmt.Errorf("ioctl: %v", err)
	}
	return int(ws.Col), int(ws.Row), nil
}
