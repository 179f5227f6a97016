package tui

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"datepicker/internal/datekey"
	"datepicker/internal/picker"
	"datepicker/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 10, 8, 0, 0, 0, time.Local)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func newTestModel(t *testing.T, opts Options) model {
	t.Helper()
	if opts.Config.Now == nil {
		opts.Config.Now = fixedNow
	}
	m, err := newModel(opts)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	return m
}

func send(t *testing.T, m model, msgs ...tea.Msg) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		mm, ok := next.(model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = mm
	}
	return m, cmd
}

// collect runs cmd and flattens batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestCalendarKeys_MultiplePicks(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Options{Config: picker.Config{SelectionMode: picker.Multiple}})
	if m.cursor != (datekey.Date{Year: 2024, Month: time.March, Day: 10}) {
		t.Fatalf("cursor should start on today, got %v", m.cursor)
	}
	m, _ = send(t, m, keyRight, keyEnter, keyDown, keyEnter)

	want := []string{"2024-03-11", "2024-03-18"}
	if got := m.s.p.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys:\n got: %#v\nwant: %#v", got, want)
	}
	if m.ti.Value() != "2024-03-11, 2024-03-18" {
		t.Fatalf("text input should mirror the host input, got %q", m.ti.Value())
	}
	if m.focusInput || !m.s.p.IsOpen() {
		t.Fatalf("multiple mode keeps the calendar open and focused")
	}

	m, _ = send(t, m, runes("c"))
	if len(m.s.p.Keys()) != 0 || m.ti.Value() != "" {
		t.Fatalf("clear: keys=%v input=%q", m.s.p.Keys(), m.ti.Value())
	}
	if out := m.outcome(); out.Changes != 3 || out.Value != "" {
		t.Fatalf("outcome: %#v", out)
	}
}

func TestCalendarKeys_SingleClosesThenReopens(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Options{})
	m, _ = send(t, m, keyEnter)
	if m.s.p.IsOpen() {
		t.Fatalf("single mode should close after a pick")
	}
	if !m.focusInput || m.ti.Value() != "2024-03-10" {
		t.Fatalf("focus=%v input=%q", m.focusInput, m.ti.Value())
	}
	if !strings.Contains(xansi.Strip(m.View()), "calendar closed") {
		t.Fatalf("closed view:\n%s", m.View())
	}

	m, _ = send(t, m, keyEnter)
	if !m.s.p.IsOpen() || m.focusInput {
		t.Fatalf("enter on the input should reopen the calendar")
	}
}

func TestCursorCrossesMonthBoundary(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Options{Value: "2024-03-01"})
	if m.cursor.Day != 1 {
		t.Fatalf("cursor should start on the selected date, got %v", m.cursor)
	}
	m, _ = send(t, m, keyLeft)
	if a := m.s.p.Anchor(); a.Month != time.February || a.Year != 2024 {
		t.Fatalf("anchor: %v", a)
	}
	if m.cursor != (datekey.Date{Year: 2024, Month: time.February, Day: 29}) {
		t.Fatalf("cursor: %v", m.cursor)
	}

	m, _ = send(t, m, runes("]"), runes("]"))
	if a := m.s.p.Anchor(); a.Month != time.April {
		t.Fatalf("anchor after ]]: %v", a)
	}
	if m.cursor != (datekey.Date{Year: 2024, Month: time.April, Day: 29}) {
		t.Fatalf("cursor should follow the anchor: %v", m.cursor)
	}
}

func TestMonthAndYearGrids(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Options{})
	m, _ = send(t, m, runes("m"))
	if m.s.p.View() != picker.ViewMonth || m.gridCursor != 2 {
		t.Fatalf("view=%v gridCursor=%d", m.s.p.View(), m.gridCursor)
	}
	m, _ = send(t, m, keyRight, keyEnter)
	if a := m.s.p.Anchor(); a.Month != time.April || a.Year != 2024 || m.s.p.View() != picker.ViewDay {
		t.Fatalf("after month pick: anchor=%v view=%v", a, m.s.p.View())
	}
	if m.cursor != (datekey.Date{Year: 2024, Month: time.April, Day: 10}) {
		t.Fatalf("cursor: %v", m.cursor)
	}

	m, _ = send(t, m, runes("y"))
	if m.gridCursor != 6 {
		t.Fatalf("year grid cursor should sit on the anchor year, got %d", m.gridCursor)
	}
	m, _ = send(t, m, keyLeft, keyEnter)
	if a := m.s.p.Anchor(); a.Year != 2023 || a.Month != time.April {
		t.Fatalf("after year pick: %v", a)
	}
}

func TestDisabledDayIsNotPicked(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Options{Config: picker.Config{DisablePast: true}})
	m, _ = send(t, m, keyLeft, keyEnter)
	if len(m.s.p.Keys()) != 0 {
		t.Fatalf("past day was picked: %v", m.s.p.Keys())
	}
	if !strings.Contains(m.status, "2024-03-09") {
		t.Fatalf("status: %q", m.status)
	}
}

func TestInputGuard(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Options{})
	m, _ = send(t, m, keyTab, runes("2"), runes("0"))
	if !m.focusInput {
		t.Fatalf("tab should focus the input")
	}
	if m.ti.Value() != "" || m.s.input.Value() != "" {
		t.Fatalf("typing should be blocked: %q", m.ti.Value())
	}
	if m.status == "" {
		t.Fatalf("expected a status explaining the blocked input")
	}

	open := newTestModel(t, Options{Config: picker.Config{AllowInput: true}})
	open, _ = send(t, open, keyTab, runes("2"), runes("0"))
	if open.ti.Value() != "20" || open.s.input.Value() != "20" {
		t.Fatalf("AllowInput: ti=%q input=%q", open.ti.Value(), open.s.input.Value())
	}
}

func TestSavesFieldAfterChange(t *testing.T) {
	t.Parallel()

	st, err := store.Open(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	m := newTestModel(t, Options{Field: "due", Store: &st})
	m, cmd := send(t, m, keyEnter)
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one save message, got %#v", msgs)
	}
	saved, ok := msgs[0].(fieldSavedMsg)
	if !ok || saved.err != nil || saved.value != "2024-03-10" {
		t.Fatalf("save: %#v", msgs[0])
	}
	m, _ = send(t, m, saved)
	if m.status != "saved due" {
		t.Fatalf("status: %q", m.status)
	}

	f, err := st.LoadField(context.Background(), "due")
	if err != nil || f.Value != "2024-03-10" {
		t.Fatalf("LoadField: %#v %v", f, err)
	}

	if _, cmd := send(t, m, keyTab); cmd != nil {
		if msgs := collect(cmd); len(msgs) != 0 {
			t.Fatalf("no save expected without a change, got %#v", msgs)
		}
	}
}

func TestViewAndHelp(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Options{Value: "2024-03-15"})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	view := xansi.Strip(m.View())
	for _, want := range []string{"March 2024", "Su", "Sa", "15", "31", "Select a date"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = send(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(xansi.Strip(m.View()), "Keys") {
		t.Fatalf("help overlay not shown")
	}
	m, _ = send(t, m, keyEsc)
	if m.showHelp {
		t.Fatalf("esc should close help")
	}
	_, cmd := send(t, m, keyEsc)
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("esc should quit, got %#v", msgs)
	}
	if _, ok := msgs[0].(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg, got %#v", msgs[0])
	}
}

func TestResolvePalette(t *testing.T) {
	t.Setenv("DATEPICKER_TUI_THEME", "")
	t.Setenv("COLORFGBG", "15;0")
	if got := resolvePalette(""); got != "dark" {
		t.Fatalf("COLORFGBG 15;0: %q", got)
	}
	if got := resolvePalette("light"); got != "light" {
		t.Fatalf("configured palette should win over COLORFGBG: %q", got)
	}
	t.Setenv("DATEPICKER_TUI_THEME", "dark")
	if got := resolvePalette("light"); got != "dark" {
		t.Fatalf("env should win: %q", got)
	}
}
