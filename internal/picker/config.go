package picker

import (
	"fmt"
	"strings"
	"time"

	"datepicker/internal/datekey"

	"cloudeng.io/errors"
)

type SelectionMode string

const (
	Single   SelectionMode = "single"
	Multiple SelectionMode = "multiple"
)

func ParseSelectionMode(s string) (SelectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single":
		return Single, nil
	case "multiple", "multi":
		return Multiple, nil
	default:
		return "", invalidOption("selectionMode", s, "expected single|multiple")
	}
}

type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewMonth ViewMode = "month"
	ViewYear  ViewMode = "year"
)

// ParseViewMode accepts "date" as another name for the day grid.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day", "date":
		return ViewDay, nil
	case "month":
		return ViewMonth, nil
	case "year":
		return ViewYear, nil
	default:
		return "", invalidOption("viewMode", s, "expected date|month|year")
	}
}

const (
	DefaultTheme     = "light"
	DefaultDelimiter = ", "
)

// Config holds the picker options. The zero value is a usable single-date
// picker; see withDefaults for the defaults applied by New.
type Config struct {
	Theme         string
	SelectionMode SelectionMode
	ViewMode      ViewMode

	DisablePast   bool
	DisableFuture bool
	// MinDate and MaxDate are inclusive bounds as date keys.
	MinDate       string
	MaxDate       string
	DisabledDates []string
	DisableFunc   func(datekey.Date) bool

	// AllowInput permits typing, pasting and dropping into the host input.
	AllowInput bool
	Delimiter  string
	// CloseOnSelect defaults to true in single mode and false in multiple mode.
	CloseOnSelect *bool

	OnSelect func(Result)
	// Now is the clock used for "today".
	Now func() time.Time
}

// Bool returns a pointer to b, for Config.CloseOnSelect.
func Bool(b bool) *bool { return &b }

// withDefaults never fails: unknown modes fall back to their defaults and
// malformed dates are dropped later. Validate reports those problems.
func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = DefaultTheme
	}
	if m, err := ParseSelectionMode(string(c.SelectionMode)); err == nil {
		c.SelectionMode = m
	} else {
		c.SelectionMode = Single
	}
	if v, err := ParseViewMode(string(c.ViewMode)); err == nil {
		c.ViewMode = v
	} else {
		c.ViewMode = ViewDay
	}
	if c.Delimiter == "" {
		c.Delimiter = DefaultDelimiter
	}
	if c.CloseOnSelect == nil {
		c.CloseOnSelect = Bool(c.SelectionMode != Multiple)
	}
	if c.OnSelect == nil {
		c.OnSelect = func(Result) {}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Validate reports every invalid option at once. New does not call it; the
// component tolerates bad options by ignoring them.
func (c Config) Validate() error {
	errs := &errors.M{}
	if _, err := ParseSelectionMode(string(c.SelectionMode)); err != nil {
		errs.Append(err)
	}
	if _, err := ParseViewMode(string(c.ViewMode)); err != nil {
		errs.Append(err)
	}
	var lo, hi datekey.Date
	var err error
	if strings.TrimSpace(c.MinDate) != "" {
		if lo, err = datekey.Parse(c.MinDate); err != nil {
			errs.Append(invalidOption("minDate", c.MinDate, err.Error()))
		}
	}
	if strings.TrimSpace(c.MaxDate) != "" {
		if hi, err = datekey.Parse(c.MaxDate); err != nil {
			errs.Append(invalidOption("maxDate", c.MaxDate, err.Error()))
		}
	}
	if !lo.IsZero() && !hi.IsZero() && lo.After(hi) {
		errs.Append(invalidOption("minDate", c.MinDate, "after maxDate "+hi.Key()))
	}
	for _, k := range c.DisabledDates {
		if _, err := datekey.Parse(k); err != nil {
			errs.Append(invalidOption("disabledDates", k, err.Error()))
		}
	}
	return errs.Err()
}

type invalidOptionError struct {
	option string
	value  string
	reason string
}

func (e invalidOptionError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.option, e.value, e.reason)
}

func invalidOption(option, value, reason string) error {
	return invalidOptionError{option: option, value: value, reason: reason}
}
