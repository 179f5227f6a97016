package picker

import (
	"html/template"
	"strconv"
	"strings"
)

// The data-* attributes below are what the click handler dispatches on;
// hosts and tests probe the popup through them.
const calendarTemplate = `<div class="vdp-header">` +
	`<button type="button" class="vdp-nav" data-prev aria-label="Previous month">&lsaquo;</button>` +
	`<div class="vdp-title">` +
	`<button type="button" class="vdp-month{{if eq .View "month"}} is-active{{end}}" data-view="month" aria-label="Choose month">{{.MonthLabel}}</button>` +
	`<button type="button" class="vdp-year{{if eq .View "year"}} is-active{{end}}" data-view="year" aria-label="Choose year">{{.YearLabel}}</button>` +
	`</div>` +
	`<button type="button" class="vdp-nav" data-next aria-label="Next month">&rsaquo;</button>` +
	`</div>` +
	`{{if eq .View "month"}}` +
	`<div class="vdp-grid vdp-months">{{range .Cells}}<button type="button" class="{{.Class}}" data-month="{{.Value}}" aria-label="{{.Aria}}">{{.Label}}</button>{{end}}</div>` +
	`{{else if eq .View "year"}}` +
	`<div class="vdp-grid vdp-years">{{range .Cells}}<button type="button" class="{{.Class}}" data-year="{{.Value}}">{{.Label}}</button>{{end}}</div>` +
	`{{else}}` +
	`<div class="vdp-weekdays">{{range .Weekdays}}<div>{{.}}</div>{{end}}</div>` +
	`<div class="vdp-grid">{{range .Cells}}{{if .Blank}}<span class="vdp-empty"></span>{{else}}` +
	`<button type="button" class="{{.Class}}" data-day="{{.Label}}" data-date="{{.Value}}" aria-label="{{.Aria}}"` +
	`{{if .Selected}} aria-pressed="true"{{end}}{{if .Disabled}} disabled aria-disabled="true"{{end}}>{{.Label}}</button>` +
	`{{end}}{{end}}</div>` +
	`{{end}}` +
	`<div class="vdp-footer">` +
	`<span class="vdp-hint">{{.Hint}}</span>` +
	`<button type="button" class="vdp-clear" data-clear>Clear</button>` +
	`</div>`

var calendarTmpl = template.Must(template.New("calendar").Parse(calendarTemplate))

type calendarVM struct {
	View       string
	MonthLabel string
	YearLabel  string
	Weekdays   []string
	Cells      []cellVM
	Hint       string
}

type cellVM struct {
	Blank    bool
	Class    string
	Label    string
	Value    string
	Aria     string
	Selected bool
	Disabled bool
}

func (p *Picker) calendarVM() calendarVM {
	vm := calendarVM{
		View:       string(p.view),
		MonthLabel: p.anchor.Month.String(),
		YearLabel:  strconv.Itoa(p.anchor.Year),
		Weekdays:   weekdayLabels,
		Hint:       p.hint(),
	}
	for _, c := range p.Cells() {
		cv := cellVM{
			Blank:    c.Kind == CellBlank,
			Class:    c.Classes(),
			Label:    c.Label,
			Selected: c.Selected,
			Disabled: c.Disabled,
		}
		switch c.Kind {
		case CellDay:
			cv.Value = c.Date.Key()
			cv.Aria = c.Date.Key()
		case CellMonth:
			cv.Value = strconv.Itoa(int(c.Month) - 1)
			cv.Aria = c.Month.String()
		case CellYear:
			cv.Value = c.Label
		}
		vm.Cells = append(vm.Cells, cv)
	}
	return vm
}

// Hint is the footer text: the prompt, or in multiple mode the count.
func (p *Picker) Hint() string { return p.hint() }

func (p *Picker) hint() string {
	if p.cfg.SelectionMode != Multiple {
		return "Select a date"
	}
	switch n := p.sel.Len(); n {
	case 0:
		return "Select multiple dates"
	case 1:
		return "1 date selected"
	default:
		return strconv.Itoa(n) + " dates selected"
	}
}

func (p *Picker) renderCalendar() (string, error) {
	var b strings.Builder
	if err := calendarTmpl.Execute(&b, p.calendarVM()); err != nil {
		return "", err
	}
	return b.String(), nil
}
