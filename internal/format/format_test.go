package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestKeyword(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"data", ":data"},
		{"_hints", ":hints"},
		{"selectionMode", ":selection-mode"},
		{"updatedAt", ":updated-at"},
		{"day2Cells", ":day2-cells"},
		{"URL", ":url"},
		{"first name", ":first-name"},
		{"_", ":_"},
	}
	for _, tt := range tests {
		if got := Keyword(tt.in); got != tt.want {
			t.Fatalf("Keyword(%q): got %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteEDN(t *testing.T) {
	t.Parallel()

	type cell struct {
		Kind     string `json:"kind"`
		Day      int    `json:"day"`
		Selected bool   `json:"selected"`
	}
	v := Envelope(map[string]any{
		"cells": []cell{{Kind: "day", Day: 1, Selected: true}},
		"input": nil,
		"empty": []string{},
		"ratio": 1.5,
	}, "datepicker fields list")

	var buf bytes.Buffer
	if err := Write(&buf, v, "EDN", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:data {:cells [{:day 1 :kind "day" :selected true}] :empty [] :input nil :ratio 1.5} :hints ["datepicker fields list"]}` + "\n"
	if buf.String() != want {
		t.Fatalf("edn:\n got: %s\nwant: %s", buf.String(), want)
	}

	buf.Reset()
	if err := WriteEDN(&buf, map[string]any{"a": []int{1, 2}}, true); err != nil {
		t.Fatalf("WriteEDN pretty: %v", err)
	}
	wantPretty := "{\n  :a [\n    1\n    2\n  ]\n}\n"
	if buf.String() != wantPretty {
		t.Fatalf("pretty edn:\n got: %q\nwant: %q", buf.String(), wantPretty)
	}
}

func TestWriteJSONAndUnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, Envelope([]string{"2024-01-01"}), "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != `{"data":["2024-01-01"]}`+"\n" {
		t.Fatalf("json: %q", got)
	}
	if err := Write(&buf, 1, "yaml", false); err == nil || !strings.Contains(err.Error(), "json|edn") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}
