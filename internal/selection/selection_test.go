package selection

import (
	"reflect"
	"testing"
)

func assertConsistent(t *testing.T, s *Set) {
	t.Helper()
	if len(s.keys) != len(s.index) {
		t.Fatalf("list/index out of sync: keys=%v index=%v", s.keys, s.index)
	}
	for _, k := range s.keys {
		if _, ok := s.index[k]; !ok {
			t.Fatalf("key %q in list but not in index", k)
		}
	}
}

func TestSet_AddIgnoresEmptyAndDuplicates(t *testing.T) {
	t.Parallel()

	s := New()
	if !s.Add("2024-01-02") || !s.Add("2024-01-01") {
		t.Fatalf("expected fresh keys to be added")
	}
	if s.Add("2024-01-02") {
		t.Fatalf("duplicate add should be a no-op")
	}
	if s.Add("") {
		t.Fatalf("empty key should be ignored")
	}
	want := []string{"2024-01-02", "2024-01-01"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys:\n got: %#v\nwant: %#v", got, want)
	}
	assertConsistent(t, s)
}

func TestSet_ToggleAndRemove(t *testing.T) {
	t.Parallel()

	s := New("a", "b", "c")
	if s.Toggle("b") {
		t.Fatalf("toggle of selected key should deselect it")
	}
	if !s.Toggle("d") {
		t.Fatalf("toggle of unselected key should select it")
	}
	if s.Remove("zzz") {
		t.Fatalf("remove of missing key should report false")
	}
	want := []string{"a", "c", "d"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys:\n got: %#v\nwant: %#v", got, want)
	}
	if s.Has("b") || !s.Has("d") {
		t.Fatalf("Has mismatch after toggles")
	}
	assertConsistent(t, s)
}

func TestSet_ReplaceAndClear(t *testing.T) {
	t.Parallel()

	s := New("a", "b")
	s.Replace("c")
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("Replace: got %#v", got)
	}
	if s.Has("a") {
		t.Fatalf("replaced key still present")
	}
	s.Clear()
	if s.Len() != 0 || s.Join(", ") != "" {
		t.Fatalf("Clear: len=%d join=%q", s.Len(), s.Join(", "))
	}
	if _, ok := s.First(); ok {
		t.Fatalf("First on empty set should report false")
	}
	assertConsistent(t, s)
}

func TestSet_KeysIsACopy(t *testing.T) {
	t.Parallel()

	s := New("a", "b")
	k := s.Keys()
	k[0] = "mutated"
	if first, _ := s.First(); first != "a" {
		t.Fatalf("Keys leaked internal storage: first=%q", first)
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		delim string
		want  []string
	}{
		{name: "default delimiter", value: "2024-01-01, 2024-01-02", delim: ", ", want: []string{"2024-01-01", "2024-01-02"}},
		{name: "bare comma with default delimiter", value: "2024-01-01,2024-01-02", delim: ", ", want: []string{"2024-01-01", "2024-01-02"}},
		{name: "empties dropped", value: " ,2024-01-01,, ", delim: ",", want: []string{"2024-01-01"}},
		{name: "semicolon", value: "a ; b;c", delim: "; ", want: []string{"a", "b", "c"}},
		{name: "whitespace delimiter", value: "a  b\tc", delim: " ", want: []string{"a", "b", "c"}},
		{name: "blank", value: "   ", delim: ", ", want: []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Split(tt.value, tt.delim)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Split(%q, %q):\n got: %#v\nwant: %#v", tt.value, tt.delim, got, tt.want)
			}
		})
	}
}
