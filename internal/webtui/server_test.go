package webtui

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestTerminalPage(t *testing.T) {
	srv, err := NewServer(ServerConfig{Exe: "/bin/true", Args: []string{"--field", "due"}})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/terminal" {
		t.Fatalf("root: %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/terminal", nil))
	body := rec.Body.String()
	for _, want := range []string{"datepicker --field due", DefaultXtermURL + "/lib/xterm.js", "/static/app.js"} {
		if !strings.Contains(body, want) {
			t.Fatalf("terminal page missing %q:\n%s", want, body)
		}
	}

	for _, path := range []string{"/static/app.js", "/static/app.css"} {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
			t.Fatalf("%s: %d", path, rec.Code)
		}
	}
}

func TestSameOrigin(t *testing.T) {
	for _, tc := range []struct {
		origin, host string
		want         bool
	}{
		{"", "127.0.0.1:3334", true},
		{"http://127.0.0.1:3334", "127.0.0.1:3334", true},
		{"http://LOCALHOST:3334", "localhost:3334", true},
		{"http://evil.example", "127.0.0.1:3334", false},
		{"http://127.0.0.1:3334.evil.example", "127.0.0.1:3334", false},
		{"garbage", "127.0.0.1:3334", false},
	} {
		r := httptest.NewRequest("GET", "/ws", nil)
		r.Host = tc.host
		if tc.origin != "" {
			r.Header.Set("Origin", tc.origin)
		}
		if got := sameOrigin(r); got != tc.want {
			t.Errorf("sameOrigin(%q, %q) = %v, want %v", tc.origin, tc.host, got, tc.want)
		}
	}
}

func TestParseResize(t *testing.T) {
	ws, ok := parseResize([]byte(`{"type":"Resize","cols":120,"rows":40}`))
	if !ok || ws.Cols != 120 || ws.Rows != 40 {
		t.Fatalf("resize: %#v %v", ws, ok)
	}
	for _, in := range []string{
		`{"type":"resize","cols":0,"rows":40}`,
		`{"type":"resize","cols":5000,"rows":40}`,
		`{"type":"ping"}`,
		`{not json`,
	} {
		if _, ok := parseResize([]byte(in)); ok {
			t.Errorf("parseResize(%s) should be rejected", in)
		}
	}
}

func TestWebsocketStreamsPTYOutput(t *testing.T) {
	if _, err := os.Stat("/bin/echo"); err != nil {
		t.Skip("no /bin/echo")
	}
	srv, err := NewServer(ServerConfig{Exe: "/bin/echo", Args: []string{"hello-from-pty"}})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var got strings.Builder
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for !strings.Contains(got.String(), "hello-from-pty") {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		got.Write(data)
	}
	if !strings.Contains(got.String(), "hello-from-pty") {
		t.Fatalf("pty output not streamed: %q", got.String())
	}
}
