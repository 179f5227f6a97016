package cli

import (
	"fmt"
	"strings"

	"datepicker/internal/datekey"
	"datepicker/internal/dom"
	"datepicker/internal/host"
	"datepicker/internal/picker"
)

// page is an in-memory document with one input and a picker bound to it,
// used by the non-interactive commands.
type page struct {
	doc     *dom.Document
	input   *dom.Element
	p       *picker.Picker
	changes int
}

func newPage(value string, cfg picker.Config) (*page, error) {
	pg := &page{doc: dom.NewDocument()}
	pg.input = pg.doc.AddInput("date", "date", host.Rect{Top: 0, Left: 0, Bottom: 36, Right: 240})
	pg.input.SetValue(value)
	onSelect := cfg.OnSelect
	cfg.OnSelect = func(r picker.Result) {
		pg.changes++
		if onSelect != nil {
			onSelect(r)
		}
	}
	p, err := picker.New(pg.doc, picker.Selector("#date"), cfg)
	if err != nil {
		return nil, err
	}
	pg.p = p
	return pg, nil
}

// popup is the mounted popup element, nil once it was closed.
func (pg *page) popup() *dom.Element {
	if !pg.p.IsOpen() {
		return nil
	}
	root, _ := pg.p.Root().(*dom.Element)
	return root
}

// click delivers a click on the first calendar node matching selector.
func (pg *page) click(selector string) error {
	root := pg.popup()
	if root == nil || len(root.Children()) == 0 {
		return fmt.Errorf("click %s: popup is closed", selector)
	}
	if err := root.Children()[0].Click(selector); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// selectDate picks key as a day-cell click would, without matching markup.
func (pg *page) selectDate(key string) error {
	if !pg.p.IsOpen() {
		return fmt.Errorf("select %s: popup is closed", key)
	}
	d, err := datekey.Parse(key)
	if err != nil {
		return fmt.Errorf("select %s: %w", key, err)
	}
	if pg.p.Disabled(d) {
		return fmt.Errorf("select %s: date is disabled", key)
	}
	pg.p.Select(d.Key())
	return nil
}

// parseMonth accepts YYYY-MM.
func parseMonth(s string) (datekey.Date, error) {
	s = strings.TrimSpace(s)
	d, err := datekey.Parse(s + "-01")
	if err != nil || len(s) != len("2006-01") {
		return datekey.Date{}, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	return d, nil
}

func monthKey(d datekey.Date) string { return d.Key()[:len("2006-01")] }

type cellOut struct {
	Kind     string `json:"kind"`
	Label    string `json:"label"`
	Date     string `json:"date,omitempty"`
	Month    int    `json:"month,omitempty"`
	Year     int    `json:"year,omitempty"`
	Today    bool   `json:"today,omitempty"`
	Selected bool   `json:"selected,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
	Current  bool   `json:"current,omitempty"`
}

func cellsOut(cells []picker.Cell) []cellOut {
	out := make([]cellOut, 0, len(cells))
	for _, c := range cells {
		co := cellOut{
			Kind:     string(c.Kind),
			Label:    c.Label,
			Today:    c.Today,
			Selected: c.Selected,
			Disabled: c.Disabled,
			Current:  c.Current,
		}
		switch c.Kind {
		case picker.CellDay:
			co.Date = c.Date.Key()
		case picker.CellMonth:
			co.Month = int(c.Month)
		case picker.CellYear:
			co.Year = c.Year
		}
		out = append(out, co)
	}
	return out
}

// stateOut is the input and selection after a command ran.
func (pg *page) stateOut() map[string]any {
	return map[string]any{
		"value":   pg.input.Value(),
		"keys":    pg.p.Keys(),
		"open":    pg.p.IsOpen(),
		"mode":    string(pg.p.Mode()),
		"view":    string(pg.p.View()),
		"month":   monthKey(pg.p.Anchor()),
		"hint":    pg.p.Hint(),
		"changes": pg.changes,
	}
}
