// Package webtui runs the interactive picker in a browser terminal: each
// websocket gets its own PTY running this binary's TUI, rendered by xterm.js.
package webtui

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"cloudeng.io/logging/ctxlog"
)

//go:embed templates/*.html static/*.css static/*.js
var assetsFS embed.FS

const DefaultXtermURL = "https://cdn.jsdelivr.net/npm/@xterm/xterm@5.5.0"

type ServerConfig struct {
	Addr string
	// Exe is the program started in each PTY; empty means this executable.
	Exe string
	// Args are passed to Exe, typically the datepicker flags of the web
	// command itself so the browser session sees the same options.
	Args []string
	// Title is shown in the page header.
	Title string
	// XtermURL is the base URL of the xterm.js distribution.
	XtermURL string
	Logger   *slog.Logger
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Exe) == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, err
		}
		cfg.Exe = exe
	}
	if strings.TrimSpace(cfg.XtermURL) == "" {
		cfg.XtermURL = DefaultXtermURL
	}
	cfg.XtermURL = strings.TrimRight(strings.TrimSpace(cfg.XtermURL), "/")
	if strings.TrimSpace(cfg.Title) == "" {
		cfg.Title = "datepicker"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/terminal", http.StatusFound)
	})
	mux.HandleFunc("GET /terminal", s.handleTerminal)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})

	mux.HandleFunc("GET /static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	mux.HandleFunc("GET /static/app.js", s.handleStatic("static/app.js", "text/javascript; charset=utf-8"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlog.WithLogger(r.Context(), s.cfg.Logger)
		ctx = ctxlog.WithAttributes(ctx, "path", r.URL.Path)
		mux.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type terminalVM struct {
	Title    string
	XtermURL string
	Command  string
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	vm := terminalVM{
		Title:    s.cfg.Title,
		XtermURL: s.cfg.XtermURL,
		Command:  strings.TrimSpace("datepicker " + strings.Join(s.cfg.Args, " ")),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "terminal.html", vm); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
