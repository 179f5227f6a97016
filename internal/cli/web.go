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

	"datepicker/internal/web"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool
	var datastarURL string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve stored fields as browser inputs with the popup calendar",
		Long: strings.TrimSpace(`
Serve every stored field as an input on a local page. Clicking an input
mounts the popup; clicks inside it are posted back to the server, which runs
the picker and patches the popup and input over server-sent events (Datastar).
Each browser session keeps its own popup state; selections are saved to the
field store and pushed to other open pages.
`),
		Example: strings.TrimSpace(`
datepicker web --addr 127.0.0.1:3335
datepicker --mode multiple --disable-past web --open
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := pickerConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger := ctxlog.Logger(ctx)

			srv, err := web.NewServer(web.ServerConfig{
				Addr:        listenAddr,
				Store:       st,
				Picker:      cfg,
				DatastarURL: datastarURL,
				Logger:      logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"
			opened, openErr := false, ""
			if open {
				if err := openURL(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}
			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}
			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"dir":       st.Dir,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "datepicker web running at %s (dir=%s)\n", url, st.Dir)
			logger.Info("web started", "addr", actualAddr)

			return srv.Serve(ctx, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3335", "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the page in your default browser")
	cmd.Flags().StringVar(&datastarURL, "datastar-url", web.DefaultDatastarURL, "Datastar client bundle URL")
	return cmd
}
