package webtui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"cloudeng.io/logging/ctxlog"
	"github.com/creack/pty"
	"github.com/gorilla/websocket"
)

// controlMsg is a JSON text frame from the page. Keystrokes arrive as plain
// text or binary frames.
type controlMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts requests without an Origin header and those whose
// origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	_, hostPart, ok := strings.Cut(origin, "://")
	return ok && strings.EqualFold(hostPart, strings.TrimSpace(r.Host))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	log := ctxlog.Logger(r.Context())
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ptmx, cmd, cleanup, err := s.startPTYSession()
	if err != nil {
		log.Error("start pty", "error", err)
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	defer cleanup()
	log.Info("session started", "pid", cmd.Process.Pid)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		errCh <- pumpPTYToWS(ctx, ptmx, conn)
	}()
	go func() {
		defer wg.Done()
		errCh <- pumpWSToPTY(ctx, conn, ptmx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			log.Debug("session stream ended", "error", err)
		}
	}
	cancel()
	_ = cmd.Process.Kill()
	// Unblock the pumps: the read on the PTY and on the socket.
	_ = ptmx.Close()
	_ = conn.Close()
	wg.Wait()
	log.Info("session ended", "pid", cmd.Process.Pid)
}

func (s *Server) startPTYSession() (*os.File, *exec.Cmd, func(), error) {
	cmd := exec.Command(s.cfg.Exe, s.cfg.Args...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 100, Rows: 32})
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = ptmx.Close()
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	}
	return ptmx, cmd, cleanup, nil
}

func pumpPTYToWS(ctx context.Context, ptmx *os.File, conn *websocket.Conn) error {
	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := ptmx.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func pumpWSToPTY(ctx context.Context, conn *websocket.Conn, ptmx *os.File) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt == websocket.TextMessage && len(data) > 0 && data[0] == '{' {
			if ws, ok := parseResize(data); ok {
				_ = pty.Setsize(ptmx, ws)
			}
			continue
		}
		if len(data) == 0 {
			continue
		}
		if _, err := ptmx.Write(data); err != nil {
			return err
		}
	}
}

// parseResize decodes a {"type":"resize"} control frame.
func parseResize(data []byte) (*pty.Winsize, bool) {
	var m controlMsg
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	if strings.ToLower(strings.TrimSpace(m.Type)) != "resize" {
		return nil, false
	}
	if m.Cols <= 0 || m.Rows <= 0 || m.Cols > 1000 || m.Rows > 1000 {
		return nil, false
	}
	return &pty.Winsize{Cols: uint16(m.Cols), Rows: uint16(m.Rows)}, true
}
