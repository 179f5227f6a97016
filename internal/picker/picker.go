// Package picker implements the date picker component: a popup calendar
// bound to a host text input. One Picker owns its state (view anchor, view
// mode, selection) and regenerates the popup markup from that state after
// every interaction.
package picker

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"datepicker/internal/datekey"
	"datepicker/internal/host"
	"datepicker/internal/selection"
)

var (
	ErrNoHost        = errors.New("picker: no host environment")
	ErrInputNotFound = errors.New("picker: host input not found")
)

// InputRef names the host input: a selector resolved through the host, or
// an element the caller already holds.
type InputRef interface {
	resolve(h host.Host) (host.Element, error)
}

type selectorRef string

func (s selectorRef) resolve(h host.Host) (host.Element, error) {
	el, ok := h.Lookup(string(s))
	if !ok || el == nil {
		return nil, &inputNotFoundError{selector: string(s)}
	}
	return el, nil
}

type elementRef struct{ el host.Element }

func (r elementRef) resolve(host.Host) (host.Element, error) {
	if r.el == nil {
		return nil, &inputNotFoundError{}
	}
	return r.el, nil
}

func Selector(s string) InputRef  { return selectorRef(strings.TrimSpace(s)) }
func Ref(el host.Element) InputRef { return elementRef{el: el} }

type inputNotFoundError struct{ selector string }

func (e *inputNotFoundError) Error() string {
	if e.selector == "" {
		return ErrInputNotFound.Error()
	}
	return ErrInputNotFound.Error() + ": " + e.selector
}

func (e *inputNotFoundError) Unwrap() error { return ErrInputNotFound }

// Result is the materialized selection handed to Config.OnSelect. Dates are
// local midnights in selection order.
type Result struct {
	Mode  SelectionMode
	Dates []time.Time
}

// Single returns the selected date in single mode (the first one otherwise).
func (r Result) Single() (time.Time, bool) {
	if len(r.Dates) == 0 {
		return time.Time{}, false
	}
	return r.Dates[0], true
}

func (r Result) Keys() []string {
	out := make([]string, 0, len(r.Dates))
	for _, d := range r.Dates {
		out = append(out, datekey.Of(d).Key())
	}
	return out
}

type Picker struct {
	host  host.Host
	cfg   Config
	input host.Element

	root     host.Element
	calendar host.Element
	unguard  []func()

	rules  constraints
	sel    *selection.Set
	anchor datekey.Date
	view   ViewMode
}

// New binds a picker to the input named by ref, seeds the selection from
// the input's current value, and mounts the popup below the input.
func New(h host.Host, ref InputRef, cfg Config) (*Picker, error) {
	if h == nil {
		return nil, ErrNoHost
	}
	if ref == nil {
		return nil, ErrInputNotFound
	}
	input, err := ref.resolve(h)
	if err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()
	p := &Picker{
		host:  h,
		cfg:   cfg,
		input: input,
		rules: newConstraints(cfg),
		sel:   selection.New(),
		view:  cfg.ViewMode,
	}
	p.bootstrapSelection()
	p.anchor = p.initialAnchor()
	p.mount()
	return p, nil
}

// bootstrapSelection seeds the set from the input text without calling
// OnSelect. Entries that are not valid date keys are skipped.
func (p *Picker) bootstrapSelection() {
	value := p.input.Value()
	if strings.TrimSpace(value) == "" {
		return
	}
	if p.cfg.SelectionMode == Multiple {
		for _, part := range selection.Split(value, p.cfg.Delimiter) {
			p.sel.Add(datekey.Normalize(part))
		}
		return
	}
	p.sel.Add(datekey.Normalize(value))
}

func (p *Picker) initialAnchor() datekey.Date {
	if first, ok := p.sel.First(); ok {
		if d, err := datekey.Parse(first); err == nil {
			return d.FirstOfMonth()
		}
	}
	return p.today().FirstOfMonth()
}

func (p *Picker) mount() {
	p.root = p.host.CreateElement("div")
	p.root.SetClass("vdp " + p.cfg.Theme)
	p.calendar = p.host.CreateElement("div")
	p.calendar.SetClass("vdp-calendar")

	p.Render()

	p.host.Body().AppendChild(p.root)
	p.root.AppendChild(p.calendar)

	p.position()
	p.calendar.OnClick(p.Dispatch)
	p.guardInput()
}

func (p *Picker) position() {
	r := p.input.Rect()
	sx, sy := p.host.Scroll()
	p.root.SetStyle("top", px(r.Bottom+sy))
	p.root.SetStyle("left", px(r.Left+sx))
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// Keys that still work in a guarded input.
var guardPassKeys = map[string]bool{
	"Tab": true, "Escape": true, "Enter": true, "Shift": true,
	"ArrowLeft": true, "ArrowRight": true, "ArrowUp": true, "ArrowDown": true,
	"Home": true, "End": true,
}

func (p *Picker) guardInput() {
	if p.cfg.AllowInput || len(p.unguard) > 0 {
		return
	}
	block := func(ev *host.Event) { ev.PreventDefault() }
	p.unguard = append(p.unguard,
		p.input.AddListener("keydown", func(ev *host.Event) {
			if !guardPassKeys[ev.Key] {
				ev.PreventDefault()
			}
		}),
		p.input.AddListener("paste", block),
		p.input.AddListener("drop", block),
	)
}

func (p *Picker) releaseGuards() {
	for _, rm := range p.unguard {
		rm()
	}
	p.unguard = nil
}

// Render replaces the popup markup with a fresh rendering of the current state.
func (p *Picker) Render() {
	markup, err := p.renderCalendar()
	if err != nil {
		return
	}
	p.calendar.SetInnerHTML(markup)
}

// Markup returns the current popup markup.
func (p *Picker) Markup() string {
	return p.calendar.InnerHTML()
}

// Root is the popup's outermost element.
func (p *Picker) Root() host.Element { return p.root }

func (p *Picker) Input() host.Element { return p.input }

// Dispatch is the delegated click handler: it acts on the data-* attributes
// of the clicked node. Disabled targets are ignored.
func (p *Picker) Dispatch(t host.Target) {
	if t.Disabled() {
		return
	}
	if key, ok := t.Data("date"); ok {
		p.selectKey(key)
		return
	}
	if day, ok := t.Data("day"); ok {
		if d, err := strconv.Atoi(day); err == nil {
			p.selectKey(datekey.Date{Year: p.anchor.Year, Month: p.anchor.Month, Day: d}.Key())
		}
		return
	}
	if v, ok := t.Data("month"); ok {
		p.pickMonth(v)
		return
	}
	if v, ok := t.Data("year"); ok {
		p.pickYear(v)
		return
	}
	if v, ok := t.Data("view"); ok {
		p.switchView(v)
		return
	}
	if t.Has("data-prev") {
		p.Navigate(-1)
		return
	}
	if t.Has("data-next") {
		p.Navigate(1)
		return
	}
	if t.Has("data-clear") {
		p.Clear()
	}
}

func (p *Picker) selectKey(key string) {
	d, err := datekey.Parse(key)
	if err != nil || p.Disabled(d) {
		return
	}
	key = d.Key()
	if p.cfg.SelectionMode == Multiple {
		p.sel.Toggle(key)
	} else {
		p.sel.Replace(key)
	}
	p.changed()
	if *p.cfg.CloseOnSelect {
		p.Destroy()
		return
	}
	p.Render()
}

// Select applies a click on key as if its day cell had been clicked.
func (p *Picker) Select(key string) {
	p.selectKey(key)
}

// Clear empties the selection and keeps the popup open.
func (p *Picker) Clear() {
	p.sel.Clear()
	p.changed()
	p.Render()
}

func (p *Picker) changed() {
	p.syncInput()
	p.cfg.OnSelect(p.Selected())
}

func (p *Picker) syncInput() {
	if p.cfg.SelectionMode == Multiple {
		p.input.SetValue(p.sel.Join(p.cfg.Delimiter))
		return
	}
	first, _ := p.sel.First()
	p.input.SetValue(first)
}

// Navigate moves the anchor by n months.
func (p *Picker) Navigate(n int) {
	p.anchor = p.anchor.AddMonths(n).Clamp().FirstOfMonth()
	p.Render()
}

// GoTo shows the month containing d.
func (p *Picker) GoTo(d datekey.Date) {
	p.anchor = d.Clamp().FirstOfMonth()
	p.Render()
}

// switchView handles the month/year labels. A label opens its grid from
// the day grid or the other grid, and returns to days from its own grid.
func (p *Picker) switchView(v string) {
	target, err := ParseViewMode(v)
	if err != nil || target == ViewDay {
		return
	}
	if p.view == target {
		p.view = ViewDay
	} else {
		p.view = target
	}
	p.Render()
}

func (p *Picker) pickMonth(v string) {
	idx, err := strconv.Atoi(v)
	if err != nil || idx < 0 || idx > 11 {
		return
	}
	p.anchor = datekey.Date{Year: p.anchor.Year, Month: time.Month(idx + 1), Day: 1}
	p.view = ViewDay
	p.Render()
}

func (p *Picker) pickYear(v string) {
	y, err := strconv.Atoi(v)
	if err != nil || y < datekey.MinYear || y > datekey.MaxYear {
		return
	}
	p.anchor = datekey.Date{Year: y, Month: p.anchor.Month, Day: 1}
	p.view = ViewDay
	p.Render()
}

// Destroy removes the popup and releases the input guards. Calling it again
// is a no-op.
func (p *Picker) Destroy() {
	p.releaseGuards()
	if p.root.Attached() {
		p.root.Remove()
	}
}

// Open re-mounts a destroyed popup below the input.
func (p *Picker) Open() {
	if p.root.Attached() {
		return
	}
	p.Render()
	p.host.Body().AppendChild(p.root)
	p.position()
	p.guardInput()
}

func (p *Picker) IsOpen() bool { return p.root.Attached() }

func (p *Picker) View() ViewMode { return p.view }

func (p *Picker) Anchor() datekey.Date { return p.anchor }

func (p *Picker) Mode() SelectionMode { return p.cfg.SelectionMode }

// Keys returns the selected date keys in selection order.
func (p *Picker) Keys() []string { return p.sel.Keys() }

func (p *Picker) Selected() Result {
	keys := p.sel.Keys()
	r := Result{Mode: p.cfg.SelectionMode, Dates: make([]time.Time, 0, len(keys))}
	for _, k := range keys {
		if d, err := datekey.Parse(k); err == nil {
			r.Dates = append(r.Dates, d.Time(time.Local))
		}
	}
	return r
}

// Disabled reports whether d cannot be selected right now.
func (p *Picker) Disabled(d datekey.Date) bool {
	return p.disabledOn(d, p.today())
}

func (p *Picker) disabledOn(d, today datekey.Date) bool {
	return p.rules.disabled(d, today)
}

func (p *Picker) Today() datekey.Date { return p.today() }

func (p *Picker) today() datekey.Date {
	return datekey.Of(p.cfg.Now())
}
