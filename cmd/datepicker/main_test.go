package main

import (
	"reflect"
	"testing"
)

func TestRewriteMonthShortcutArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"datepicker"},
			want: []string{"datepicker"},
		},
		{
			name: "month first token",
			in:   []string{"datepicker", "2024-02"},
			want: []string{"datepicker", "grid", "2024-02"},
		},
		{
			name: "month after value flag",
			in:   []string{"datepicker", "--value", "2024-02-14", "2024-02"},
			want: []string{"datepicker", "--value", "2024-02-14", "grid", "2024-02"},
		},
		{
			name: "month after equals flag",
			in:   []string{"datepicker", "--mode=multiple", "2024-02"},
			want: []string{"datepicker", "--mode=multiple", "grid", "2024-02"},
		},
		{
			name: "month after bool flag",
			in:   []string{"datepicker", "--disable-past", "2024-02"},
			want: []string{"datepicker", "--disable-past", "grid", "2024-02"},
		},
		{
			name: "month after double dash",
			in:   []string{"datepicker", "--dir", "./tmp", "--", "2024-02"},
			want: []string{"datepicker", "--dir", "./tmp", "grid", "--", "2024-02"},
		},
		{
			name: "flag value that looks like a month is not rewritten",
			in:   []string{"datepicker", "--field", "2024-02"},
			want: []string{"datepicker", "--field", "2024-02"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"datepicker", "grid", "2024-02"},
			want: []string{"datepicker", "grid", "2024-02"},
		},
		{
			name: "full date not rewritten",
			in:   []string{"datepicker", "2024-02-14"},
			want: []string{"datepicker", "2024-02-14"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"datepicker", "wat"},
			want: []string{"datepicker", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteMonthShortcutArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteMonthShortcutArgs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
