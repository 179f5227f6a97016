package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"datepicker/internal/format"
	"datepicker/internal/store"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	LogLevel   string

	// Field names the persisted input the TUI edits.
	Field string
	// Value is the initial input text when no field is given.
	Value string

	picker pickerFlags
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "datepicker",
		Short:        "Date picker: calendar popup bound to an input (TUI, CLI, web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Pick a date interactively
  datepicker

  # Pick several dates and keep them in the "trip" field
  datepicker --mode multiple --field trip

  # Print the day grid for February 2024 (shortcut for: datepicker grid 2024-02)
  datepicker 2024-02

  # Replay clicks without a terminal
  datepicker pick --value 2024-03-15 --click '[data-next]' --click '[data-date="2024-04-02"]'
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := format.Parse(app.Format); err != nil {
			return writeErr(cmd, err)
		}
		level, err := parseLogLevel(app.LogLevel)
		if err != nil {
			return writeErr(cmd, err)
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = ctxlog.NewJSONLogger(ctx, cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
		cmd.SetContext(ctx)
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.Dir, "dir", envOr("DATEPICKER_DIR", ""), "Data dir holding fields.sqlite (default: the config dir)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.Format, "format", envOr("DATEPICKER_FORMAT", "json"), "Output format (json|edn)")
	pf.StringVar(&app.LogLevel, "log-level", envOr("DATEPICKER_LOG", "warn"), "Log level for web servers (debug|info|warn|error)")
	app.picker.bind(pf)

	cmd.Flags().StringVar(&app.Field, "field", "", "Persisted field to edit; its value is loaded and saved on every change")
	cmd.Flags().StringVar(&app.Value, "value", "", "Initial input text when no --field is given")

	cmd.AddCommand(newGridCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newPickCmd(app))
	cmd.AddCommand(newFieldsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))

	return cmd
}

func parseLogLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q (want debug|info|warn|error)", s)
	}
	return l, nil
}

func openStore(app *App) (store.Store, error) {
	st, err := store.Open(app.Dir)
	if err != nil {
		return store.Store{}, err
	}
	if err := st.Ensure(); err != nil {
		return store.Store{}, err
	}
	app.Dir = st.Dir
	return st, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
