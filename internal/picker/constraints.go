package picker

import (
	"strings"

	"datepicker/internal/datekey"
)

// constraints decides per-day selectability. Malformed configuration is
// dropped here: an unparsable bound is no bound.
type constraints struct {
	disablePast   bool
	disableFuture bool
	min, max      datekey.Date
	hasMin        bool
	hasMax        bool
	blocked       map[string]struct{}
	fn            func(datekey.Date) bool
}

func newConstraints(cfg Config) constraints {
	c := constraints{
		disablePast:   cfg.DisablePast,
		disableFuture: cfg.DisableFuture,
		blocked:       map[string]struct{}{},
		fn:            cfg.DisableFunc,
	}
	if d, err := datekey.Parse(cfg.MinDate); err == nil {
		c.min, c.hasMin = d, true
	}
	if d, err := datekey.Parse(cfg.MaxDate); err == nil {
		c.max, c.hasMax = d, true
	}
	for _, k := range cfg.DisabledDates {
		if key := datekey.Normalize(strings.TrimSpace(k)); key != "" {
			c.blocked[key] = struct{}{}
		}
	}
	return c
}

// disabled reports whether d is unselectable given today. Any single rule
// is enough.
func (c constraints) disabled(d, today datekey.Date) bool {
	if c.disablePast && d.Before(today) {
		return true
	}
	if c.disableFuture && d.After(today) {
		return true
	}
	if c.hasMin && d.Before(c.min) {
		return true
	}
	if c.hasMax && d.After(c.max) {
		return true
	}
	if _, ok := c.blocked[d.Key()]; ok {
		return true
	}
	if c.fn != nil && c.fn(d) {
		return true
	}
	return false
}
