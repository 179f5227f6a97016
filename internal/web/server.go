// Package web serves pickers in a browser. Every browser session gets its
// own in-memory page per field; clicks inside the popup are posted back and
// answered with patched markup over server-sent events.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"datepicker/internal/picker"
	"datepicker/internal/store"

	"cloudeng.io/logging/ctxlog"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const DefaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

type ServerConfig struct {
	Addr  string
	Store store.Store
	// Picker is the option set every field's picker starts from.
	Picker picker.Config
	// DatastarURL is the client bundle the page loads.
	DatastarURL string
	// SessionTTL drops idle browser sessions; zero means 30 minutes.
	SessionTTL time.Duration
	// Logger receives request and field logs; nil discards them.
	Logger *slog.Logger
}

type Server struct {
	mu   sync.RWMutex
	cfg  ServerConfig
	tmpl   *template.Template
	secret []byte

	sessions *sessionRegistry
	hubs     *fieldHubs
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.DatastarURL = strings.TrimSpace(cfg.DatastarURL)
	if strings.TrimSpace(cfg.Store.Dir) == "" {
		return nil, errors.New("web: store dir is empty")
	}
	if cfg.DatastarURL == "" {
		cfg.DatastarURL = DefaultDatastarURL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := cfg.Picker.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Store.Ensure(); err != nil {
		return nil, err
	}
	secret, err := loadOrInitSecretKey(cfg.Store.Dir)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("base").ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:      cfg,
		tmpl:     tmpl,
		secret:   secret,
		sessions: newSessionRegistry(cfg.SessionTTL),
		hubs:     newFieldHubs(),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) cfgSnapshot() ServerConfig {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()
	return cfg
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /docs/{$}", s.handleDocs)
	mux.HandleFunc("GET /docs/{topic}", s.handleDocs)
	mux.HandleFunc("POST /fields", s.handleFieldCreate)
	mux.HandleFunc("POST /fields/{name}/delete", s.handleFieldDelete)
	mux.HandleFunc("GET /fields/{name}/open", s.handleFieldOpen)
	mux.HandleFunc("GET /fields/{name}/close", s.handleFieldClose)
	mux.HandleFunc("POST /fields/{name}/click", s.handleFieldClick)
	mux.HandleFunc("GET /fields/{name}/events", s.handleFieldEvents)
	return s.withLogging(mux)
}

// withLogging puts a request-scoped logger in the context.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := ctxlog.WithLogger(r.Context(), s.cfgSnapshot().Logger)
		ctx = ctxlog.WithAttributes(ctx, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
		ctxlog.Logger(ctx).Debug("request", "duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

type pageVM struct {
	Theme       string
	DatastarURL string
	Fields      []fieldVM
	Error       string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := s.cfgSnapshot()
	sid := s.sessionID(w, r)

	fields, err := cfg.Store.ListFields(ctx)
	vm := pageVM{Theme: themeOf(cfg.Picker), DatastarURL: cfg.DatastarURL}
	if err != nil {
		ctxlog.Logger(ctx).Error("list fields", "error", err)
		vm.Error = err.Error()
	}
	for _, f := range fields {
		vm.Fields = append(vm.Fields, s.fieldVMFor(sid, f.Name, f.Value))
	}
	s.writeHTMLTemplate(w, "index.html", vm)
}

func themeOf(cfg picker.Config) string {
	if t := strings.TrimSpace(cfg.Theme); t != "" {
		return t
	}
	return picker.DefaultTheme
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
