package tui

import (
	"strings"

	"datepicker/internal/docs"
	"datepicker/internal/picker"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	dayGridWidth = 7 * cellWidth
	wideCell     = dayGridWidth / gridCols
)

func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = 60
	}
	if m.showHelp {
		body, _ := docs.Get("keys")
		return RenderMarkdown(body, width-2) + "\n" + m.st.hint.Render("? or esc to close")
	}

	var b strings.Builder
	b.WriteString(m.renderInputLine(dayGridWidth + 8))
	b.WriteString("\n\n")

	p := m.s.p
	if p.IsOpen() {
		cal := lipgloss.JoinVertical(lipgloss.Left,
			m.renderTitle(),
			"",
			m.renderGrid(),
			"",
			m.st.hint.Render(p.Hint()),
		)
		if !m.focusInput {
			cal = m.st.focused.Render(cal)
		}
		b.WriteString(cal)
	} else {
		b.WriteString(m.st.hint.Render("calendar closed; press enter or o to reopen"))
	}
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.st.errorLine.Render(m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(m.st.hint.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m model) renderInputLine(width int) string {
	v := strings.NewReplacer("\n", " ", "\r", " ").Replace(m.ti.View())
	if xansi.StringWidth(v) > width {
		v = xansi.Truncate(v, width, "…")
	}
	line := m.st.input.Width(width).Render(v)
	if m.focusInput {
		return m.st.focused.Render(line)
	}
	return " " + line
}

func (m model) renderTitle() string {
	p := m.s.p
	a := p.Anchor()
	month, year := m.st.title, m.st.title
	switch p.View() {
	case picker.ViewMonth:
		month = m.st.active
	case picker.ViewYear:
		year = m.st.active
	}
	label := month.Render(a.Month.String()) + " " + year.Render(itoa(a.Year))
	inner := dayGridWidth - 4
	if w := xansi.StringWidth(label); w < inner {
		label = lipgloss.PlaceHorizontal(inner, lipgloss.Center, label)
	}
	return m.st.nav.Render("‹ ") + label + m.st.nav.Render(" ›")
}

func (m model) renderGrid() string {
	p := m.s.p
	if p.View() != picker.ViewDay {
		return m.renderWideGrid(p.Cells())
	}

	head := make([]string, 0, 7)
	for _, w := range picker.Weekdays() {
		head = append(head, m.st.weekday.Render(w[:2]))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, head...)}

	var row []string
	for _, c := range p.DayCells() {
		row = append(row, m.renderDay(c))
		if len(row) == 7 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m model) cellStyle(c picker.Cell) lipgloss.Style {
	switch {
	case c.Disabled:
		return m.st.disabled
	case c.Selected:
		return m.st.selected
	case c.Today, c.Current:
		return m.st.today
	default:
		return m.st.cell
	}
}

func (m model) renderDay(c picker.Cell) string {
	if c.Kind == picker.CellBlank {
		return strings.Repeat(" ", cellWidth)
	}
	st := m.cellStyle(c)
	if c.Date == m.cursor && !m.focusInput {
		if c.Selected {
			st = st.Reverse(true)
		} else {
			st = st.Background(m.pal.cursorBg)
		}
	}
	return st.Render(c.Label)
}

func (m model) renderWideGrid(cells []picker.Cell) string {
	var rows []string
	var row []string
	for i, c := range cells {
		st := m.cellStyle(c).Width(wideCell)
		if i == m.gridCursor && !m.focusInput {
			st = st.Background(m.pal.cursorBg)
		}
		row = append(row, st.Render(c.Label))
		if len(row) == gridCols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
