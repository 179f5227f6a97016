// Package selection holds the ordered, duplicate-free set of selected date keys.
package selection

import "strings"

// Set keeps selection order in a list and membership in an index; every
// mutation goes through methods that update both.
type Set struct {
	keys  []string
	index map[string]struct{}
}

func New(keys ...string) *Set {
	s := &Set{}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add appends key unless it is empty or already present.
func (s *Set) Add(key string) bool {
	if key == "" || s.Has(key) {
		return false
	}
	if s.index == nil {
		s.index = map[string]struct{}{}
	}
	s.index[key] = struct{}{}
	s.keys = append(s.keys, key)
	return true
}

func (s *Set) Remove(key string) bool {
	if !s.Has(key) {
		return false
	}
	delete(s.index, key)
	out := s.keys[:0]
	for _, k := range s.keys {
		if k != key {
			out = append(out, k)
		}
	}
	s.keys = out
	return true
}

// Toggle removes key when present and adds it otherwise. It reports whether
// key is selected afterwards.
func (s *Set) Toggle(key string) bool {
	if s.Remove(key) {
		return false
	}
	return s.Add(key)
}

// Replace discards the current selection and selects keys in order.
func (s *Set) Replace(keys ...string) {
	s.Clear()
	for _, k := range keys {
		s.Add(k)
	}
}

func (s *Set) Clear() {
	s.keys = nil
	s.index = nil
}

func (s *Set) Has(key string) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[key]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns a copy in selection order.
func (s *Set) Keys() []string {
	if s == nil || len(s.keys) == 0 {
		return []string{}
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *Set) First() (string, bool) {
	if s.Len() == 0 {
		return "", false
	}
	return s.keys[0], true
}

func (s *Set) Join(delim string) string {
	if s == nil {
		return ""
	}
	return strings.Join(s.keys, delim)
}

// Split parses delimiter-joined input text. The delimiter is matched with its
// surrounding whitespace trimmed, so ", " also accepts "a,b" and "a ,  b". A
// delimiter made only of whitespace splits on any whitespace run. Parts are
// trimmed and empty parts dropped.
func Split(value, delim string) []string {
	var raw []string
	sep := strings.TrimSpace(delim)
	switch {
	case strings.TrimSpace(value) == "":
		return []string{}
	case sep == "":
		raw = strings.Fields(value)
	default:
		raw = strings.Split(value, sep)
	}
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
