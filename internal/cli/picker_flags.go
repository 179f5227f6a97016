package cli

import (
	"strings"

	"datepicker/internal/picker"
	"datepicker/internal/store"

	"github.com/spf13/pflag"
)

// pickerFlags are the picker options every command accepts. A flag that was
// not given leaves the config file's default in place.
type pickerFlags struct {
	fs *pflag.FlagSet

	theme         string
	mode          string
	view          string
	delimiter     string
	min           string
	max           string
	disable       []string
	disablePast   bool
	disableFuture bool
	allowInput    bool
	closeOnSelect bool
}

func (f *pickerFlags) bind(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVar(&f.theme, "theme", "", "Popup theme class (light|dark)")
	fs.StringVar(&f.mode, "mode", "", "Selection mode (single|multiple)")
	fs.StringVar(&f.view, "view", "", "Initial view (day|month|year)")
	fs.StringVar(&f.delimiter, "delimiter", "", `Separator between dates in multiple mode (default ", ")`)
	fs.StringVar(&f.min, "min", "", "Earliest selectable date (YYYY-MM-DD)")
	fs.StringVar(&f.max, "max", "", "Latest selectable date (YYYY-MM-DD)")
	fs.StringSliceVar(&f.disable, "disable", nil, "Dates that cannot be selected (repeatable, YYYY-MM-DD)")
	fs.BoolVar(&f.disablePast, "disable-past", false, "Disable dates before today")
	fs.BoolVar(&f.disableFuture, "disable-future", false, "Disable dates after today")
	fs.BoolVar(&f.allowInput, "allow-input", false, "Allow typing into the input")
	fs.BoolVar(&f.closeOnSelect, "close-on-select", false, "Close the popup after a pick (default: true in single mode)")
}

func (f *pickerFlags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// apply overlays the flags that were given onto d.
func (f *pickerFlags) apply(d store.PickerDefaults) store.PickerDefaults {
	set := func(name string, dst *string, v string) {
		if f.changed(name) {
			*dst = strings.TrimSpace(v)
		}
	}
	set("theme", &d.Theme, f.theme)
	set("mode", &d.SelectionMode, f.mode)
	set("view", &d.ViewMode, f.view)
	set("min", &d.MinDate, f.min)
	set("max", &d.MaxDate, f.max)
	if f.changed("delimiter") {
		d.Delimiter = f.delimiter
	}
	if f.changed("disable") {
		d.DisabledDates = append(d.DisabledDates, f.disable...)
	}
	if f.changed("disable-past") {
		d.DisablePast = f.disablePast
	}
	if f.changed("disable-future") {
		d.DisableFuture = f.disableFuture
	}
	if f.changed("allow-input") {
		d.AllowInput = f.allowInput
	}
	if f.changed("close-on-select") {
		d.CloseOnSelect = picker.Bool(f.closeOnSelect)
	}
	return d
}

// pickerConfig merges the config file and the flags, and rejects invalid
// options up front.
func pickerConfig(app *App) (picker.Config, *store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return picker.Config{}, nil, err
	}
	pc := app.picker.apply(cfg.Picker).PickerConfig()
	if err := pc.Validate(); err != nil {
		return picker.Config{}, nil, err
	}
	return pc, cfg, nil
}
