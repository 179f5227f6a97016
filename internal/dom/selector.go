package dom

import (
	"fmt"
	"strings"
)

// selector is the small compound selector subset the hosts need:
// tag, #id, .class and [attr] / [attr=value] / [attr="value"] in any
// combination, e.g. `button.vdp-day[data-date="2024-03-15"]`.
type selector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	name     string
	value    string
	hasValue bool
}

func parseSelector(s string) (selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return selector{}, fmt.Errorf("dom: empty selector")
	}
	var sel selector
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && isIdentByte(s[i]) {
			i++
		}
		return s[start:i]
	}

	sel.tag = strings.ToLower(readIdent())
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			sel.id = readIdent()
			if sel.id == "" {
				return selector{}, fmt.Errorf("dom: bad selector %q", s)
			}
		case '.':
			i++
			c := readIdent()
			if c == "" {
				return selector{}, fmt.Errorf("dom: bad selector %q", s)
			}
			sel.classes = append(sel.classes, c)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return selector{}, fmt.Errorf("dom: unterminated attribute in %q", s)
			}
			body := s[i+1 : i+end]
			i += end + 1
			m, err := parseAttrMatch(body)
			if err != nil {
				return selector{}, fmt.Errorf("dom: bad selector %q: %w", s, err)
			}
			sel.attrs = append(sel.attrs, m)
		default:
			return selector{}, fmt.Errorf("dom: unsupported selector %q", s)
		}
	}
	return sel, nil
}

func parseAttrMatch(body string) (attrMatch, error) {
	name, value, hasValue := strings.Cut(body, "=")
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return attrMatch{}, fmt.Errorf("empty attribute name")
	}
	if !hasValue {
		return attrMatch{name: name}, nil
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	return attrMatch{name: name, value: value, hasValue: true}, nil
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (sel selector) matches(tag string, attrs map[string]string) bool {
	if sel.tag != "" && sel.tag != strings.ToLower(tag) {
		return false
	}
	if sel.id != "" && attrs["id"] != sel.id {
		return false
	}
	if len(sel.classes) > 0 {
		have := strings.Fields(attrs["class"])
		for _, want := range sel.classes {
			if !containsString(have, want) {
				return false
			}
		}
	}
	for _, m := range sel.attrs {
		v, ok := attrs[m.name]
		if !ok {
			return false
		}
		if m.hasValue && v != m.value {
			return false
		}
	}
	return true
}

func containsString(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
