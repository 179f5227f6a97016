package docs

import (
	"reflect"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	want := []string{"config", "constraints", "keys", "overview", "selection", "views", "web"}
	if got := Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestGetAndTitle(t *testing.T) {
	t.Parallel()

	if _, ok := Get(" Keys "); !ok {
		t.Fatalf("expected keys topic (case/space insensitive)")
	}
	for _, bad := range []string{"", "nope", "../docs", "content/keys"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("Get(%q) should fail", bad)
		}
	}
	if got := Title("views"); got != "Views" {
		t.Fatalf("Title(views): %q", got)
	}
	if got := Title("missing"); got != "missing" {
		t.Fatalf("Title(missing): %q", got)
	}
}
