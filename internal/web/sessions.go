package web

import (
	"sync"
	"time"

	"datepicker/internal/dom"
	"datepicker/internal/host"
	"datepicker/internal/picker"
)

// inputRect is where the in-memory input sits; the popup's inline top/left
// are computed from it and land right under the real input on the page.
var inputRect = host.Rect{Top: 0, Left: 0, Bottom: 36, Right: 240}

// fieldSession is one browser session's page for one field.
type fieldSession struct {
	mu      sync.Mutex
	name    string
	doc     *dom.Document
	input   *dom.Element
	p       *picker.Picker
	changes int
	seen    time.Time
}

func newFieldSession(name, value string, cfg picker.Config) (*fieldSession, error) {
	fs := &fieldSession{name: name, doc: dom.NewDocument(), seen: time.Now()}
	fs.input = fs.doc.AddInput("", name, inputRect)
	fs.input.SetValue(value)
	onSelect := cfg.OnSelect
	cfg.OnSelect = func(r picker.Result) {
		fs.changes++
		if onSelect != nil {
			onSelect(r)
		}
	}
	p, err := picker.New(fs.doc, picker.Ref(fs.input), cfg)
	if err != nil {
		return nil, err
	}
	// The page starts with the calendar closed; clicking the input opens it.
	p.Destroy()
	fs.p = p
	return fs, nil
}

func (fs *fieldSession) value() string { return fs.input.Value() }

// popup is the markup of the mounted popup, or "" when it is closed.
func (fs *fieldSession) popup() string {
	if !fs.p.IsOpen() {
		return ""
	}
	root, ok := fs.p.Root().(*dom.Element)
	if !ok {
		return ""
	}
	return root.OuterHTML()
}

type sessionKey struct {
	sid   string
	field string
}

type sessionRegistry struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[sessionKey]*fieldSession
}

func newSessionRegistry(ttl time.Duration) *sessionRegistry {
	return &sessionRegistry{
		ttl:      ttl,
		now:      time.Now,
		sessions: map[sessionKey]*fieldSession{},
	}
}

// get returns the session for sid and field. A session whose input no
// longer matches the stored value is rebuilt from value.
func (r *sessionRegistry) get(sid, field, value string, cfg picker.Config) (*fieldSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()

	k := sessionKey{sid: sid, field: field}
	if fs := r.sessions[k]; fs != nil {
		fs.mu.Lock()
		same := fs.value() == value
		if same {
			fs.seen = r.now()
		}
		fs.mu.Unlock()
		if same {
			return fs, nil
		}
	}
	fs, err := newFieldSession(field, value, cfg)
	if err != nil {
		return nil, err
	}
	fs.seen = r.now()
	r.sessions[k] = fs
	return fs, nil
}

// peek returns an existing session without creating one.
func (r *sessionRegistry) peek(sid, field string) *fieldSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[sessionKey{sid: sid, field: field}]
}

// forget drops every session of field, for example after it was deleted.
func (r *sessionRegistry) forget(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.sessions {
		if k.field == field {
			delete(r.sessions, k)
		}
	}
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *sessionRegistry) sweepLocked() {
	cutoff := r.now().Add(-r.ttl)
	for k, fs := range r.sessions {
		if fs.seen.Before(cutoff) {
			delete(r.sessions, k)
		}
	}
}

// fieldHub fans out "field changed" notifications to event streams.
type fieldHub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newFieldHub() *fieldHub {
	return &fieldHub{subs: map[chan struct{}]struct{}{}}
}

func (h *fieldHub) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
}

func (h *fieldHub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

type fieldHubs struct {
	mu   sync.Mutex
	hubs map[string]*fieldHub
}

func newFieldHubs() *fieldHubs {
	return &fieldHubs{hubs: map[string]*fieldHub{}}
}

func (b *fieldHubs) hubFor(field string) *fieldHub {
	b.mu.Lock()
	h := b.hubs[field]
	if h == nil {
		h = newFieldHub()
		b.hubs[field] = h
	}
	b.mu.Unlock()
	return h
}
