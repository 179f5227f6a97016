package datekey

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-03-15", want: Date{2024, time.March, 15}},
		{in: "  2024-02-29 ", want: Date{2024, time.February, 29}},
		{in: "2023-02-29", wantErr: true},
		{in: "2024-13-01", wantErr: true},
		{in: "2024-00-10", wantErr: true},
		{in: "2024-3-5", wantErr: true},
		{in: "", wantErr: true},
		{in: "not-a-date", wantErr: true},
		{in: "2024-01-01, 2024-01-02", wantErr: true},
		{in: "2024-+3-15", wantErr: true},
		{in: "+024-03-15", wantErr: true},
		{in: "2024-03-+5", wantErr: true},
		{in: "-024-03-15", wantErr: true},
		{in: "2024-03-1 ", want: Date{}, wantErr: true},
		{in: "0000-01-01", want: Date{0, time.January, 1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q): expected error, got %v", tt.in, got)
				}
				if !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("Parse(%q): expected ErrInvalidKey, got %v", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q):\n got: %#v\nwant: %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyRoundTrip(t *testing.T) {
	t.Parallel()

	d := Date{Year: 987, Month: time.July, Day: 4}
	if got := d.Key(); got != "0987-07-04" {
		t.Fatalf("Key: got %q", got)
	}
	back, err := Parse(d.Key())
	if err != nil || back != d {
		t.Fatalf("Parse(Key()): got %v, %v", back, err)
	}
}

func TestDaysInMonthAndFirstWeekday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		y     int
		m     time.Month
		days  int
		first time.Weekday
	}{
		{2024, time.February, 29, time.Thursday},
		{2023, time.February, 28, time.Wednesday},
		{1900, time.February, 28, time.Thursday},
		{2000, time.February, 29, time.Tuesday},
		{2024, time.September, 30, time.Sunday},
		{2024, time.December, 31, time.Sunday},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.y, tt.m); got != tt.days {
			t.Fatalf("DaysInMonth(%d, %v): got %d want %d", tt.y, tt.m, got, tt.days)
		}
		if got := FirstWeekday(tt.y, tt.m); got != tt.first {
			t.Fatalf("FirstWeekday(%d, %v): got %v want %v", tt.y, tt.m, got, tt.first)
		}
	}
	if got := DaysInMonth(2024, 13); got != 0 {
		t.Fatalf("DaysInMonth out of range: got %d", got)
	}
}

func TestAddMonthsLandsOnFirst(t *testing.T) {
	t.Parallel()

	jan31 := Date{2024, time.January, 31}
	if got := jan31.AddMonths(1); got != (Date{2024, time.February, 1}) {
		t.Fatalf("Jan 31 + 1: got %v", got)
	}
	if got := jan31.AddMonths(-1); got != (Date{2023, time.December, 1}) {
		t.Fatalf("Jan 31 - 1: got %v", got)
	}
	if got := jan31.AddMonths(-13); got != (Date{2022, time.December, 1}) {
		t.Fatalf("Jan 31 - 13: got %v", got)
	}
	if got := jan31.AddMonths(23); got != (Date{2025, time.December, 1}) {
		t.Fatalf("Jan 31 + 23: got %v", got)
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := (Date{3, time.January, 1}).AddMonths(-48).Clamp(); got != (Date{0, time.January, 1}) {
		t.Fatalf("before year 0: got %v", got)
	}
	if got := (Date{9999, time.June, 1}).AddMonths(12).Clamp(); got != (Date{9999, time.December, 31}) {
		t.Fatalf("after year 9999: got %v", got)
	}
	mid := Date{2024, time.March, 15}
	if got := mid.Clamp(); got != mid {
		t.Fatalf("in range: got %v", got)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	a := Date{2024, time.February, 10}
	b := Date{2024, time.February, 11}
	if !a.Before(b) || !b.After(a) || a.Compare(a) != 0 {
		t.Fatalf("compare mismatch for %v and %v", a, b)
	}
	if !(Date{2023, time.December, 31}).Before(a) {
		t.Fatalf("expected previous year to sort first")
	}
}

func TestOfUsesLocalFields(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("east", 14*60*60)
	ts := time.Date(2024, time.March, 1, 1, 0, 0, 0, loc)
	if got := Of(ts); got != (Date{2024, time.March, 1}) {
		t.Fatalf("Of: got %v", got)
	}
	if got := New(2024, time.January, 32); got != (Date{2024, time.February, 1}) {
		t.Fatalf("New normalizes: got %v", got)
	}
}
