// Package format renders command results as json or edn.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON = "json"
	EDN  = "edn"
)

// Names lists the supported formats.
func Names() []string { return []string{JSON, EDN} }

// Parse normalizes a format name; "" means json.
func Parse(name string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", JSON:
		return JSON, nil
	case EDN:
		return EDN, nil
	default:
		return "", fmt.Errorf("unknown format: %s (expected %s)", name, strings.Join(Names(), "|"))
	}
}

// Envelope wraps a command result as {"data": v} plus optional "_hints"
// telling the reader which command to run next.
func Envelope(v any, hints ...string) map[string]any {
	out := map[string]any{"data": v}
	if len(hints) > 0 {
		out["_hints"] = hints
	}
	return out
}

// Write writes v in the named format.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Parse(format)
	if err != nil {
		return err
	}
	if f == EDN {
		return WriteEDN(w, v, pretty)
	}
	return WriteJSON(w, v, pretty)
}

// WriteJSON writes one JSON document followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
