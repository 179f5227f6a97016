package picker

import (
	"strconv"
	"strings"
	"time"

	"datepicker/internal/datekey"
	"datepicker/internal/host"
)

type CellKind string

const (
	CellBlank CellKind = "blank"
	CellDay   CellKind = "day"
	CellMonth CellKind = "month"
	CellYear  CellKind = "year"
)

// Cell is one slot of the active grid. The HTML and terminal renderers both
// draw from cells, and Target gives the click a host would deliver for it.
type Cell struct {
	Kind  CellKind
	Label string

	Date  datekey.Date // CellDay
	Month time.Month   // CellMonth
	Year  int          // CellYear

	Today    bool
	Selected bool
	Disabled bool
	// Current marks the anchor's month (month grid) or year (year grid).
	Current bool
}

// Key is the date key of a day cell, "" otherwise.
func (c Cell) Key() string {
	if c.Kind != CellDay {
		return ""
	}
	return c.Date.Key()
}

func (c Cell) Classes() string {
	var cls []string
	switch c.Kind {
	case CellBlank:
		return "vdp-empty"
	case CellDay:
		cls = append(cls, "vdp-day")
	case CellMonth:
		cls = append(cls, "vdp-cell", "vdp-month-cell")
	case CellYear:
		cls = append(cls, "vdp-cell", "vdp-year-cell")
	}
	if c.Today {
		cls = append(cls, "is-today")
	}
	if c.Selected {
		cls = append(cls, "is-selected")
	}
	if c.Disabled {
		cls = append(cls, "is-disabled")
	}
	if c.Current {
		cls = append(cls, "is-current")
	}
	return strings.Join(cls, " ")
}

// Target returns the attributes the rendered control for c carries.
func (c Cell) Target() host.Target {
	attrs := map[string]string{"class": c.Classes()}
	tag := "button"
	switch c.Kind {
	case CellBlank:
		tag = "span"
	case CellDay:
		attrs["data-day"] = strconv.Itoa(c.Date.Day)
		attrs["data-date"] = c.Date.Key()
		if c.Disabled {
			attrs["disabled"] = ""
		}
	case CellMonth:
		attrs["data-month"] = strconv.Itoa(int(c.Month) - 1)
	case CellYear:
		attrs["data-year"] = strconv.Itoa(c.Year)
	}
	return host.NewTarget(tag, attrs)
}

var weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Weekdays returns the day-grid column headers, Sunday first.
func Weekdays() []string {
	return append([]string(nil), weekdayLabels...)
}

func monthAbbrev(m time.Month) string {
	return m.String()[:3]
}

// yearGridStart is the first year shown for anchorYear. The grid never
// leaves the years a date key can express.
func yearGridStart(anchorYear int) int {
	return min(max(anchorYear-6, datekey.MinYear), datekey.MaxYear-gridSize+1)
}

const gridSize = 12

// DayCells lays out the anchor month.
func (p *Picker) DayCells() []Cell {
	return p.DayCellsFor(p.anchor.Year, p.anchor.Month)
}

// DayCellsFor lays out any month with the picker's selection and
// constraints: FirstWeekday blanks, then one cell per day.
func (p *Picker) DayCellsFor(year int, month time.Month) []Cell {
	total := datekey.DaysInMonth(year, month)
	offset := int(datekey.FirstWeekday(year, month))
	today := p.today()

	cells := make([]Cell, 0, offset+total)
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{Kind: CellBlank})
	}
	for d := 1; d <= total; d++ {
		date := datekey.Date{Year: year, Month: month, Day: d}
		cells = append(cells, Cell{
			Kind:     CellDay,
			Label:    strconv.Itoa(d),
			Date:     date,
			Today:    date == today,
			Selected: p.sel.Has(date.Key()),
			Disabled: p.disabledOn(date, today),
		})
	}
	return cells
}

func (p *Picker) MonthCells() []Cell {
	cells := make([]Cell, 0, gridSize)
	for m := time.January; m <= time.December; m++ {
		cells = append(cells, Cell{
			Kind:    CellMonth,
			Label:   monthAbbrev(m),
			Month:   m,
			Current: m == p.anchor.Month,
		})
	}
	return cells
}

func (p *Picker) YearCells() []Cell {
	start := yearGridStart(p.anchor.Year)
	cells := make([]Cell, 0, gridSize)
	for y := start; y < start+gridSize; y++ {
		cells = append(cells, Cell{
			Kind:    CellYear,
			Label:   strconv.Itoa(y),
			Year:    y,
			Current: y == p.anchor.Year,
		})
	}
	return cells
}

// Cells returns the cells of the active view.
func (p *Picker) Cells() []Cell {
	switch p.view {
	case ViewMonth:
		return p.MonthCells()
	case ViewYear:
		return p.YearCells()
	default:
		return p.DayCells()
	}
}
