package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes v as EDN. Values go through encoding/json first so json
// tags decide the shape; object keys become kebab-case keywords
// (selectionMode => :selection-mode, _hints => :hints).
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	if err := dec.Decode(&x); err != nil {
		return err
	}
	e := ednWriter{pretty: pretty}
	e.value(x, 0)
	e.sb.WriteByte('\n')
	_, err = io.WriteString(w, e.sb.String())
	return err
}

type ednWriter struct {
	sb     strings.Builder
	pretty bool
}

func (e *ednWriter) value(v any, level int) {
	switch t := v.(type) {
	case nil:
		e.sb.WriteString("nil")
	case bool:
		e.sb.WriteString(strconv.FormatBool(t))
	case json.Number:
		e.sb.WriteString(t.String())
	case string:
		e.sb.WriteString(strconv.Quote(t))
	case []any:
		e.seq('[', ']', len(t), level, func(i int) {
			e.value(t[i], level+1)
		})
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return Keyword(keys[i]) < Keyword(keys[j]) })
		e.seq('{', '}', len(keys), level, func(i int) {
			e.sb.WriteString(Keyword(keys[i]))
			e.sb.WriteByte(' ')
			e.value(t[keys[i]], level+1)
		})
	default:
		e.sb.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

// seq writes n elements between open and close, one per line when pretty.
func (e *ednWriter) seq(open, close byte, n, level int, elem func(i int)) {
	e.sb.WriteByte(open)
	if n == 0 {
		e.sb.WriteByte(close)
		return
	}
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.sb.WriteByte('\n')
			e.sb.WriteString(strings.Repeat("  ", level+1))
		case i > 0:
			e.sb.WriteByte(' ')
		}
		elem(i)
	}
	if e.pretty {
		e.sb.WriteByte('\n')
		e.sb.WriteString(strings.Repeat("  ", level))
	}
	e.sb.WriteByte(close)
}

// Keyword converts a JSON object key to an EDN keyword.
func Keyword(k string) string {
	k = strings.TrimLeft(strings.TrimSpace(k), "_")
	var b strings.Builder
	b.WriteByte(':')
	prevLower := false
	for _, r := range k {
		switch {
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		case r == ' ' || r == '_':
			b.WriteByte('-')
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	if b.Len() == 1 {
		b.WriteByte('_')
	}
	return b.String()
}
