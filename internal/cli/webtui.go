package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"datepicker/internal/webtui"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string
	var field string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the interactive picker in your browser (PTY + WebSocket)",
		Long: strings.TrimSpace(`
Run the terminal picker over the web via a server-side PTY and a browser
terminal emulator. Each browser tab starts its own picker subprocess with
the same --dir and picker flags as this command.
`),
		Example: strings.TrimSpace(`
datepicker webtui --addr 127.0.0.1:3334
datepicker --mode multiple webtui --field trip
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := pickerConfig(app); err != nil {
				return writeErr(cmd, err)
			}
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger := ctxlog.Logger(ctx)

			childArgs := forwardArgs(app.picker.fs)
			if strings.TrimSpace(field) != "" {
				childArgs = append(childArgs, "--field", strings.TrimSpace(field))
			}
			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:   listenAddr,
				Args:   childArgs,
				Logger: logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"args":      childArgs,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"open http://" + actualAddr + "/"},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "datepicker webtui running at http://%s\n", actualAddr)
			return srv.Serve(ctx, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3334", "Bind address (host:port or :port)")
	cmd.Flags().StringVar(&field, "field", "", "Persisted field each browser session edits")
	return cmd
}

// forwardArgs rebuilds the persistent flags that were set explicitly, so a
// child process sees the same data dir and picker options. Output flags are
// left out: the child is interactive.
func forwardArgs(fs *pflag.FlagSet) []string {
	out := []string{}
	if fs == nil {
		return out
	}
	skip := map[string]bool{"format": true, "pretty": true, "log-level": true}
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed || skip[f.Name] {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			for _, v := range sv.GetSlice() {
				out = append(out, "--"+f.Name+"="+v)
			}
			return
		}
		out = append(out, "--"+f.Name+"="+f.Value.String())
	})
	return out
}
