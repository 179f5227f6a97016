// Package host abstracts the page a picker is embedded in: element lookup,
// element creation and viewport measurement. The picker only talks to these
// interfaces, so it runs the same against the in-memory document, the
// terminal UI and the web server.
package host

import "strings"

type Host interface {
	// Lookup resolves a selector ("#id", "[name=x]", "tag").
	Lookup(selector string) (Element, bool)
	CreateElement(tag string) Element
	Body() Element
	// Scroll returns the viewport's scroll offset.
	Scroll() (x, y float64)
}

type Element interface {
	Value() string
	SetValue(v string)
	Rect() Rect

	SetClass(class string)
	SetStyle(prop, value string)
	SetInnerHTML(markup string)
	InnerHTML() string

	AppendChild(child Element)
	// Remove detaches the element from its parent. Removing a detached element is a no-op.
	Remove()
	Attached() bool

	// OnClick installs the delegated click handler, replacing any previous one.
	OnClick(fn func(Target))
	// AddListener registers fn for event and returns a func that unregisters it.
	AddListener(event string, fn func(*Event)) (remove func())
}

// Rect is an element's bounding box in viewport coordinates.
type Rect struct {
	Top, Left, Bottom, Right float64
}

// Event is delivered to listeners registered with AddListener.
type Event struct {
	Type string
	// Key is set for keydown events ("a", "Tab", "ArrowLeft", ...).
	Key string
	// Text is the payload of paste/drop events.
	Text string

	prevented bool
}

func (e *Event) PreventDefault()        { e.prevented = true }
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Target is the clicked node: its tag and attributes. Boolean attributes
// such as data-prev are present with an empty value.
type Target struct {
	Tag   string
	Attrs map[string]string
}

func NewTarget(tag string, attrs map[string]string) Target {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return Target{Tag: strings.ToLower(tag), Attrs: attrs}
}

func (t Target) Has(name string) bool {
	_, ok := t.Attrs[name]
	return ok
}

func (t Target) Get(name string) string {
	return t.Attrs[name]
}

// Data reads a data-* attribute by its short name: Data("date") reads data-date.
func (t Target) Data(name string) (string, bool) {
	v, ok := t.Attrs["data-"+name]
	return v, ok
}

// Disabled reports whether the node carries the disabled attribute.
func (t Target) Disabled() bool {
	return t.Has("disabled")
}
