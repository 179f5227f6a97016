package tui

import (
	"context"
	"strconv"
	"time"

	"datepicker/internal/datekey"
	"datepicker/internal/dom"
	"datepicker/internal/host"
	"datepicker/internal/picker"
	"datepicker/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures one interactive session.
type Options struct {
	Config picker.Config
	// Value is the initial input text.
	Value string
	// Field, when set together with Store, is saved after every change.
	Field string
	Store *store.Store

	Palette string
	Accent  *store.AdaptiveColor
}

// Outcome is what the session leaves in the input.
type Outcome struct {
	Value   string   `json:"value"`
	Keys    []string `json:"keys"`
	Changes int      `json:"changes"`
}

// session is the state shared by every copy of the model: the in-memory
// page and the picker bound to its input.
type session struct {
	doc     *dom.Document
	input   *dom.Element
	p       *picker.Picker
	changes int
	saved   int
}

type fieldSavedMsg struct {
	value string
	err   error
}

const gridCols = 4

type model struct {
	s    *session
	opts Options

	keys keyMap
	help help.Model
	ti   textinput.Model
	pal  palette
	st   styles

	focusInput bool
	cursor     datekey.Date
	gridCursor int
	lastView   picker.ViewMode

	showHelp bool
	width    int
	height   int
	status   string
	err      error
}

func newModel(opts Options) (model, error) {
	doc := dom.NewDocument()
	input := doc.AddInput("value", opts.Field, host.Rect{Top: 0, Left: 0, Bottom: 1, Right: 40})
	input.SetValue(opts.Value)

	s := &session{doc: doc, input: input}
	cfg := opts.Config
	onSelect := cfg.OnSelect
	cfg.OnSelect = func(r picker.Result) {
		s.changes++
		if onSelect != nil {
			onSelect(r)
		}
	}
	p, err := picker.New(doc, picker.Ref(input), cfg)
	if err != nil {
		return model{}, err
	}
	s.p = p

	ti := textinput.New()
	ti.Prompt = "date: "
	ti.Placeholder = "YYYY-MM-DD"
	ti.SetValue(input.Value())

	pal := defaultPalette().withAccent(opts.Accent)
	m := model{
		s:        s,
		opts:     opts,
		keys:     defaultKeyMap(),
		help:     help.New(),
		ti:       ti,
		pal:      pal,
		st:       newStyles(pal),
		lastView: p.View(),
	}
	m.cursor = m.initialCursor()
	m.resetGridCursor()
	return m, nil
}

func (m model) initialCursor() datekey.Date {
	a := m.s.p.Anchor()
	for _, k := range m.s.p.Keys() {
		if d, err := datekey.Parse(k); err == nil && d.FirstOfMonth() == a {
			return d
		}
	}
	if t := m.s.p.Today(); t.FirstOfMonth() == a {
		return t
	}
	return a
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case fieldSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = "saved " + m.opts.Field
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.showHelp {
			if key.Matches(msg, m.keys.Help, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.focusInput {
			m, cmd = m.updateInput(msg)
		} else {
			m, cmd = m.updateCalendar(msg)
		}
		m.afterPicker()
		return m, tea.Batch(cmd, m.saveCmd())
	}
	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyShiftTab:
		m.setFocusInput(false)
		return m, nil
	case tea.KeyEnter:
		if !m.s.p.IsOpen() {
			m.s.p.Open()
		}
		m.setFocusInput(false)
		return m, nil
	}

	var allowed bool
	if msg.Paste {
		allowed = m.s.input.Dispatch(&host.Event{Type: "paste", Text: string(msg.Runes)})
	} else {
		allowed = m.s.input.Dispatch(&host.Event{Type: "keydown", Key: domKey(msg)})
	}
	if !allowed {
		m.status = "typing is disabled; pick from the calendar"
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.s.input.SetValue(m.ti.Value())
	return m, cmd
}

func (m model) updateCalendar(msg tea.KeyMsg) (model, tea.Cmd) {
	p := m.s.p
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		m.setFocusInput(true)
		return m, nil
	}

	if !p.IsOpen() {
		if key.Matches(msg, m.keys.Reopen, m.keys.Pick) {
			p.Open()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Reopen):
	case key.Matches(msg, m.keys.Prev):
		m.click("data-prev", "")
	case key.Matches(msg, m.keys.Next):
		m.click("data-next", "")
	case key.Matches(msg, m.keys.Months):
		m.click("data-view", string(picker.ViewMonth))
	case key.Matches(msg, m.keys.Years):
		m.click("data-view", string(picker.ViewYear))
	case key.Matches(msg, m.keys.Clear):
		m.click("data-clear", "")
	case key.Matches(msg, m.keys.Left):
		m.move(-1, -1)
	case key.Matches(msg, m.keys.Right):
		m.move(1, 1)
	case key.Matches(msg, m.keys.Up):
		m.move(-7, -gridCols)
	case key.Matches(msg, m.keys.Down):
		m.move(7, gridCols)
	case key.Matches(msg, m.keys.Pick):
		m.pick()
	}
	return m, nil
}

func (m *model) setFocusInput(on bool) {
	m.focusInput = on
	if on {
		m.ti.Focus()
	} else {
		m.ti.Blur()
	}
}

// click delivers a synthetic click on a control carrying attr, the same
// way a browser click reaches the popup's delegated handler.
func (m *model) click(attr, value string) {
	m.s.p.Dispatch(host.NewTarget("button", map[string]string{attr: value}))
}

func (m *model) move(days, cells int) {
	if m.s.p.View() != picker.ViewDay {
		m.gridCursor = clamp(m.gridCursor+cells, 0, 11)
		return
	}
	next := datekey.Of(m.cursor.Time(time.UTC).AddDate(0, 0, days))
	if next.FirstOfMonth() != m.s.p.Anchor() {
		m.s.p.GoTo(next)
	}
	m.cursor = next
}

func (m *model) pick() {
	p := m.s.p
	var cells []picker.Cell
	idx := m.gridCursor
	switch p.View() {
	case picker.ViewMonth:
		cells = p.MonthCells()
	case picker.ViewYear:
		cells = p.YearCells()
	default:
		cells = p.DayCells()
		idx = -1
		for i, c := range cells {
			if c.Kind == picker.CellDay && c.Date == m.cursor {
				idx = i
				break
			}
		}
	}
	if idx < 0 || idx >= len(cells) {
		return
	}
	c := cells[idx]
	if c.Disabled {
		m.status = c.Date.Key() + " is not available"
		return
	}
	m.status = ""
	p.Dispatch(c.Target())
}

// afterPicker reconciles model state with the picker after an interaction.
func (m *model) afterPicker() {
	p := m.s.p
	if v := m.s.input.Value(); v != m.ti.Value() {
		m.ti.SetValue(v)
	}
	if !p.IsOpen() && !m.focusInput {
		m.setFocusInput(true)
	}
	if view := p.View(); view != m.lastView {
		m.lastView = view
		m.resetGridCursor()
	}
	if a := p.Anchor(); m.cursor.FirstOfMonth() != a {
		day := m.cursor.Day
		if n := datekey.DaysInMonth(a.Year, a.Month); day > n {
			day = n
		}
		m.cursor = datekey.Date{Year: a.Year, Month: a.Month, Day: day}
	}
}

func (m *model) resetGridCursor() {
	a := m.s.p.Anchor()
	switch m.s.p.View() {
	case picker.ViewMonth:
		m.gridCursor = int(a.Month) - 1
	case picker.ViewYear:
		if cells := m.s.p.YearCells(); len(cells) > 0 {
			m.gridCursor = a.Year - cells[0].Year
		}
	}
}

func (m model) saveCmd() tea.Cmd {
	if m.opts.Store == nil || m.opts.Field == "" || m.s.changes == m.s.saved {
		return nil
	}
	m.s.saved = m.s.changes
	st, field, value := *m.opts.Store, m.opts.Field, m.s.input.Value()
	return func() tea.Msg {
		_, err := st.SaveField(context.Background(), field, value)
		return fieldSavedMsg{value: value, err: err}
	}
}

func (m model) outcome() Outcome {
	return Outcome{
		Value:   m.s.input.Value(),
		Keys:    m.s.p.Keys(),
		Changes: m.s.changes,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func itoa(n int) string { return strconv.Itoa(n) }
