// Package datekey implements the timezone-naive calendar dates used by the
// picker and their canonical YYYY-MM-DD key form.
package datekey

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/datetime"
)

// Date is a calendar date with no time of day and no location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Of returns the date of t using t's own location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// New normalizes out-of-range months and days the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func (d Date) IsZero() bool { return d == Date{} }

// Key returns the canonical YYYY-MM-DD form.
func (d Date) Key() string {
	return fmtYear(d.Year) + "-" + fmt2(int(d.Month)) + "-" + fmt2(d.Day)
}

func (d Date) String() string { return d.Key() }

// Time returns midnight of d in loc (UTC when loc is nil).
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// FirstOfMonth returns day 1 of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// Years a key can express.
const (
	MinYear = 0
	MaxYear = 9999
)

// Clamp limits d to the years a key can express.
func (d Date) Clamp() Date {
	switch {
	case d.Year < MinYear:
		return Date{Year: MinYear, Month: time.January, Day: 1}
	case d.Year > MaxYear:
		return Date{Year: MaxYear, Month: time.December, Day: 31}
	}
	return d
}

// AddMonths moves by n months and always lands on day 1, so navigating from
// the 31st never skips a short month.
func (d Date) AddMonths(n int) Date {
	m := int(d.Month) - 1 + n
	y := d.Year + floorDiv(m, 12)
	m = floorMod(m, 12)
	return Date{Year: y, Month: time.Month(m + 1), Day: 1}
}

// DaysInMonth returns the length of month m in year y.
func DaysInMonth(y int, m time.Month) int {
	if m < time.January || m > time.December {
		return 0
	}
	return int(datetime.DaysInMonth(y, datetime.Month(m)))
}

// FirstWeekday returns the weekday of day 1 of the month (Sunday = 0).
func FirstWeekday(y int, m time.Month) time.Weekday {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// ErrInvalidKey is wrapped by every Parse failure.
var ErrInvalidKey = &keyErr{msg: "invalid date key (expected YYYY-MM-DD)"}

type keyErr struct{ msg string }

func (e *keyErr) Error() string { return e.msg }

// Parse parses a canonical YYYY-MM-DD key. Surrounding whitespace is ignored.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	for _, part := range parts {
		if !allDigits(part) {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
		}
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil || y < MinYear {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	mo, err := strconv.Atoi(parts[1])
	if err != nil || mo < 1 || mo > 12 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil || d < 1 || d > DaysInMonth(y, time.Month(mo)) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Date{Year: y, Month: time.Month(mo), Day: d}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// Normalize returns the canonical key for s, or "" when s is not a valid key.
func Normalize(s string) string {
	d, err := Parse(s)
	if err != nil {
		return ""
	}
	return d.Key()
}

func fmt2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func fmtYear(y int) string {
	s := strconv.Itoa(y)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
