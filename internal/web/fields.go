package web

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"datepicker/internal/host"
	"datepicker/internal/store"

	"cloudeng.io/logging/ctxlog"
	"github.com/starfederation/datastar-go/datastar"
)

type fieldVM struct {
	Name       string
	ID         string
	Value      string
	Popup      template.HTML
	AllowInput bool

	OpenURL   string
	CloseURL  string
	ClickURL  string
	EventsURL string
	DeleteURL string
	// EventsJS is EventsURL as a JS string literal, for data-init.
	EventsJS string
}

func fieldDOMID(name string) string { return "f-" + hex.EncodeToString([]byte(name)) }

func newFieldVM(name, value, popup string, allowInput bool) fieldVM {
	base := "/fields/" + url.PathEscape(name)
	return fieldVM{
		Name:       name,
		ID:         fieldDOMID(name),
		Value:      value,
		Popup:      template.HTML(popup), // markup built by the picker and dom packages
		AllowInput: allowInput,
		OpenURL:    base + "/open",
		CloseURL:   base + "/close",
		ClickURL:   base + "/click",
		EventsURL:  base + "/events",
		DeleteURL:  base + "/delete",
		EventsJS:   jsString(base + "/events"),
	}
}

func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

// fieldVMFor includes the session's popup when it is open and still in sync
// with the stored value.
func (s *Server) fieldVMFor(sid, name, value string) fieldVM {
	popup := ""
	if fs := s.sessions.peek(sid, name); fs != nil {
		fs.mu.Lock()
		if fs.value() == value {
			popup = fs.popup()
		}
		fs.mu.Unlock()
	}
	return newFieldVM(name, value, popup, s.cfgSnapshot().Picker.AllowInput)
}

func validFieldName(name string) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return errors.New("field name is empty")
	case len(name) > 64:
		return errors.New("field name is longer than 64 bytes")
	case strings.ContainsAny(name, "/\\?#"):
		return fmt.Errorf("field name %q contains a reserved character", name)
	}
	return nil
}

// loadField answers 404 itself when the field does not exist.
func (s *Server) loadField(w http.ResponseWriter, r *http.Request) (store.Field, bool) {
	name := r.PathValue("name")
	f, err := s.cfgSnapshot().Store.LoadField(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrFieldNotFound) {
			http.NotFound(w, r)
			return store.Field{}, false
		}
		ctxlog.Logger(r.Context()).Error("load field", "field", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return store.Field{}, false
	}
	return f, true
}

func (s *Server) patchPopup(sse *datastar.ServerSentEventGenerator, vm fieldVM) error {
	html, err := s.renderTemplate("popup", vm)
	if err != nil {
		return err
	}
	return sse.PatchElements(html, datastar.WithSelector("#"+vm.ID+"-popup"), datastar.WithMode(datastar.ElementPatchModeOuter))
}

func (s *Server) patchInput(sse *datastar.ServerSentEventGenerator, vm fieldVM) error {
	html, err := s.renderTemplate("input", vm)
	if err != nil {
		return err
	}
	return sse.PatchElements(html, datastar.WithSelector("#"+vm.ID+"-input"), datastar.WithMode(datastar.ElementPatchModeOuter))
}

func (s *Server) handleFieldOpen(w http.ResponseWriter, r *http.Request) {
	f, ok := s.loadField(w, r)
	if !ok {
		return
	}
	cfg := s.cfgSnapshot()
	sid := s.sessionID(w, r)
	fs, err := s.sessions.get(sid, f.Name, f.Value, cfg.Picker)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	fs.mu.Lock()
	fs.p.Open()
	vm := newFieldVM(f.Name, fs.value(), fs.popup(), cfg.Picker.AllowInput)
	fs.mu.Unlock()

	sse := datastar.NewSSE(w, r)
	if err := s.patchPopup(sse, vm); err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
	}
}

func (s *Server) handleFieldClose(w http.ResponseWriter, r *http.Request) {
	f, ok := s.loadField(w, r)
	if !ok {
		return
	}
	sid := s.sessionID(w, r)
	if fs := s.sessions.peek(sid, f.Name); fs != nil {
		fs.mu.Lock()
		fs.p.Destroy()
		fs.mu.Unlock()
	}
	sse := datastar.NewSSE(w, r)
	vm := newFieldVM(f.Name, f.Value, "", s.cfgSnapshot().Picker.AllowInput)
	if err := s.patchPopup(sse, vm); err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
	}
}

type clickSignals struct {
	// Click holds the attributes of the clicked button.
	Click map[string]string `json:"click"`
}

func (s *Server) handleFieldClick(w http.ResponseWriter, r *http.Request) {
	var sig clickSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, ok := s.loadField(w, r)
	if !ok {
		return
	}
	ctx := ctxlog.WithAttributes(r.Context(), "field", f.Name)
	cfg := s.cfgSnapshot()
	sid := s.sessionID(w, r)
	fs, err := s.sessions.get(sid, f.Name, f.Value, cfg.Picker)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	fs.mu.Lock()
	before := fs.changes
	target := host.NewTarget("button", sig.Click)
	if target.Has("data-close") {
		fs.p.Destroy()
	} else if fs.p.IsOpen() {
		fs.p.Dispatch(target)
	}
	changed := fs.changes != before
	vm := newFieldVM(f.Name, fs.value(), fs.popup(), cfg.Picker.AllowInput)
	keys := fs.p.Keys()
	fs.mu.Unlock()

	sse := datastar.NewSSE(w, r)
	if changed {
		if _, err := cfg.Store.SaveField(ctx, f.Name, vm.Value); err != nil {
			ctxlog.Logger(ctx).Error("save field", "error", err)
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		} else {
			ctxlog.Logger(ctx).Info("field changed", "value", vm.Value, "dates", len(keys))
			s.hubs.hubFor(f.Name).broadcast()
		}
	}
	if err := s.patchPopup(sse, vm); err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return
	}
	_ = s.patchInput(sse, vm)
}

type createSignals struct {
	NewField string `json:"newField"`
}

func (s *Server) handleFieldCreate(w http.ResponseWriter, r *http.Request) {
	var sig createSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	cfg := s.cfgSnapshot()
	name := strings.TrimSpace(sig.NewField)

	sse := datastar.NewSSE(w, r)
	fail := func(msg string) {
		_ = sse.MarshalAndPatchSignals(map[string]any{"error": msg})
	}
	if err := validFieldName(name); err != nil {
		fail(err.Error())
		return
	}
	if _, err := cfg.Store.LoadField(ctx, name); err == nil {
		fail(fmt.Sprintf("field %q already exists", name))
		return
	} else if !errors.Is(err, store.ErrFieldNotFound) {
		fail(err.Error())
		return
	}
	f, err := cfg.Store.SaveField(ctx, name, "")
	if err != nil {
		ctxlog.Logger(ctx).Error("create field", "field", name, "error", err)
		fail(err.Error())
		return
	}
	ctxlog.Logger(ctx).Info("field created", "field", f.Name)

	html, err := s.renderTemplate("field", newFieldVM(f.Name, f.Value, "", cfg.Picker.AllowInput))
	if err != nil {
		fail(err.Error())
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector("#fields"), datastar.WithMode(datastar.ElementPatchModeAppend))
	_ = sse.MarshalAndPatchSignals(map[string]any{"newField": "", "error": ""})
}

func (s *Server) handleFieldDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	ctx := r.Context()
	if err := s.cfgSnapshot().Store.DeleteField(ctx, name); err != nil {
		if errors.Is(err, store.ErrFieldNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.sessions.forget(name)
	s.hubs.hubFor(name).broadcast()
	ctxlog.Logger(ctx).Info("field deleted", "field", name)

	sse := datastar.NewSSE(w, r)
	_ = sse.PatchElements("", datastar.WithSelector("#"+fieldDOMID(name)), datastar.WithMode(datastar.ElementPatchModeRemove))
}

// handleFieldEvents keeps a page's input in step with the stored value,
// which other tabs and the CLI may change.
func (s *Server) handleFieldEvents(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	cfg := s.cfgSnapshot()
	sse := datastar.NewSSE(w, r)

	ch, cancel := s.hubs.hubFor(name).subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			f, err := cfg.Store.LoadField(sse.Context(), name)
			if errors.Is(err, store.ErrFieldNotFound) {
				_ = sse.PatchElements("", datastar.WithSelector("#"+fieldDOMID(name)), datastar.WithMode(datastar.ElementPatchModeRemove))
				return
			}
			if err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
				continue
			}
			_ = s.patchInput(sse, newFieldVM(f.Name, f.Value, "", cfg.Picker.AllowInput))
		}
	}
}
