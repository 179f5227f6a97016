// Package dom is an in-memory host.Host: a tiny document tree with inputs,
// listeners and markup that can be queried and clicked. Tests, the CLI and
// the web server's per-session state all run pickers against it.
package dom

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"

	"datepicker/internal/host"
)

var (
	ErrNoMatch  = errors.New("dom: no element matches selector")
	ErrDisabled = errors.New("dom: element is disabled")
)

type Document struct {
	body    *Element
	scrollX float64
	scrollY float64
}

func NewDocument() *Document {
	d := &Document{}
	d.body = d.NewElement("body")
	return d
}

func (d *Document) SetScroll(x, y float64) {
	d.scrollX, d.scrollY = x, y
}

func (d *Document) Scroll() (float64, float64) { return d.scrollX, d.scrollY }

func (d *Document) Body() host.Element { return d.body }

func (d *Document) CreateElement(tag string) host.Element { return d.NewElement(tag) }

// NewElement is CreateElement with the concrete type.
func (d *Document) NewElement(tag string) *Element {
	return &Element{
		doc:   d,
		tag:   strings.ToLower(strings.TrimSpace(tag)),
		attrs: map[string]string{},
		style: map[string]string{},
	}
}

// AddInput creates an <input> with the given id and name (either may be
// empty), places it at rect and appends it to the body.
func (d *Document) AddInput(id, name string, rect host.Rect) *Element {
	el := d.NewElement("input")
	if id != "" {
		el.attrs["id"] = id
	}
	if name != "" {
		el.attrs["name"] = name
	}
	el.rect = rect
	d.body.AppendChild(el)
	return el
}

// Lookup returns the first attached element matching selector, in document order.
func (d *Document) Lookup(selector string) (host.Element, bool) {
	el := d.Find(selector)
	if el == nil {
		return nil, false
	}
	return el, true
}

// Find is Lookup with the concrete type; it returns nil on no match or a bad selector.
func (d *Document) Find(selector string) *Element {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	var found *Element
	d.body.walk(func(el *Element) bool {
		if el != d.body && sel.matches(el.tag, el.attrs) {
			found = el
			return false
		}
		return true
	})
	return found
}

type listener struct {
	fn func(*host.Event)
}

type Element struct {
	doc      *Document
	tag      string
	attrs    map[string]string
	style    map[string]string
	value    string
	inner    string
	rect     host.Rect
	parent   *Element
	children []*Element

	onClick   func(host.Target)
	listeners map[string][]*listener
}

func (e *Element) Tag() string { return e.tag }

func (e *Element) ID() string { return e.attrs["id"] }

func (e *Element) Attr(name string) string { return e.attrs[strings.ToLower(name)] }

func (e *Element) SetAttr(name, value string) { e.attrs[strings.ToLower(name)] = value }

func (e *Element) Value() string { return e.value }

// SetValue sets the value directly, bypassing input listeners (like assigning
// input.value from script).
func (e *Element) SetValue(v string) { e.value = v }

func (e *Element) Rect() host.Rect { return e.rect }

func (e *Element) SetRect(r host.Rect) { e.rect = r }

func (e *Element) SetClass(class string) { e.attrs["class"] = strings.TrimSpace(class) }

func (e *Element) Class() string { return e.attrs["class"] }

func (e *Element) SetStyle(prop, value string) { e.style[prop] = value }

func (e *Element) Style(prop string) string { return e.style[prop] }

func (e *Element) SetInnerHTML(markup string) { e.inner = markup }

func (e *Element) InnerHTML() string { return e.inner }

func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

func (e *Element) AppendChild(child host.Element) {
	c, ok := child.(*Element)
	if !ok || c == nil {
		return
	}
	c.Remove()
	c.parent = e
	e.children = append(e.children, c)
}

func (e *Element) Remove() {
	p := e.parent
	if p == nil {
		return
	}
	out := p.children[:0]
	for _, c := range p.children {
		if c != e {
			out = append(out, c)
		}
	}
	p.children = out
	e.parent = nil
}

// Attached reports whether e is reachable from the document body.
func (e *Element) Attached() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur == e.doc.body {
			return true
		}
	}
	return false
}

func (e *Element) OnClick(fn func(host.Target)) { e.onClick = fn }

func (e *Element) AddListener(event string, fn func(*host.Event)) func() {
	if e.listeners == nil {
		e.listeners = map[string][]*listener{}
	}
	l := &listener{fn: fn}
	e.listeners[event] = append(e.listeners[event], l)
	return func() {
		ls := e.listeners[event]
		out := ls[:0]
		for _, x := range ls {
			if x != l {
				out = append(out, x)
			}
		}
		e.listeners[event] = out
	}
}

// ListenerCount reports how many listeners are registered for event.
func (e *Element) ListenerCount(event string) int {
	return len(e.listeners[event])
}

// Dispatch delivers ev to the listeners for ev.Type and reports whether the
// default action should run.
func (e *Element) Dispatch(ev *host.Event) bool {
	ls := append([]*listener(nil), e.listeners[ev.Type]...)
	for _, l := range ls {
		l.fn(ev)
	}
	return !ev.DefaultPrevented()
}

// Press sends a keydown for a named key without editing the value.
func (e *Element) Press(key string) bool {
	return e.Dispatch(&host.Event{Type: "keydown", Key: key})
}

// Type simulates typing s one rune at a time; runes whose keydown is
// prevented are not inserted.
func (e *Element) Type(s string) {
	for _, r := range s {
		if e.Dispatch(&host.Event{Type: "keydown", Key: string(r)}) {
			e.value += string(r)
		}
	}
}

func (e *Element) Paste(s string) bool {
	if !e.Dispatch(&host.Event{Type: "paste", Text: s}) {
		return false
	}
	e.value += s
	return true
}

func (e *Element) Drop(s string) bool {
	if !e.Dispatch(&host.Event{Type: "drop", Text: s}) {
		return false
	}
	e.value += s
	return true
}

// Click finds the first node in e's markup matching selector and delivers
// it to e's click handler, the way a delegated handler sees event targets.
// Disabled nodes do not fire.
func (e *Element) Click(selector string) error {
	sel, err := parseSelector(selector)
	if err != nil {
		return err
	}
	nodes, err := queryMarkup(e.inner, sel, 1)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("%w: %s", ErrNoMatch, selector)
	}
	if nodes[0].Disabled() {
		return fmt.Errorf("%w: %s", ErrDisabled, selector)
	}
	if e.onClick != nil {
		e.onClick(nodes[0].Target)
	}
	return nil
}

// Query returns every node in e's markup matching selector.
func (e *Element) Query(selector string) ([]Node, error) {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	return queryMarkup(e.inner, sel, -1)
}

// OuterHTML serializes e, its attributes, its markup and its children.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	e.writeOuter(&b)
	return b.String()
}

func (e *Element) writeOuter(b *strings.Builder) {
	b.WriteString("<" + e.tag)
	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" " + k + `="` + html.EscapeString(e.attrs[k]) + `"`)
	}
	if len(e.style) > 0 {
		props := make([]string, 0, len(e.style))
		for k := range e.style {
			props = append(props, k)
		}
		sort.Strings(props)
		parts := make([]string, 0, len(props))
		for _, p := range props {
			parts = append(parts, p+": "+e.style[p])
		}
		b.WriteString(` style="` + html.EscapeString(strings.Join(parts, "; ")) + `"`)
	}
	if e.tag == "input" {
		b.WriteString(` value="` + html.EscapeString(e.value) + `">`)
		return
	}
	b.WriteString(">")
	b.WriteString(e.inner)
	for _, c := range e.children {
		c.writeOuter(b)
	}
	b.WriteString("</" + e.tag + ">")
}

func (e *Element) walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
