package cli

import (
	"errors"

	"datepicker/internal/store"
	"datepicker/internal/tui"

	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	if app.Field != "" && cmd.Flags().Changed("value") {
		return writeErr(cmd, errors.New("use either --field or --value"))
	}
	cfg, conf, err := pickerConfig(app)
	if err != nil {
		return writeErr(cmd, err)
	}

	opts := tui.Options{Config: cfg, Value: app.Value, Field: app.Field}
	if conf.TUI != nil {
		opts.Palette = conf.TUI.Palette
		opts.Accent = conf.TUI.Accent
	}
	if app.Field != "" {
		st, err := openStore(app)
		if err != nil {
			return writeErr(cmd, err)
		}
		f, err := st.LoadField(ctx, app.Field)
		switch {
		case err == nil:
			opts.Value = f.Value
		case !errors.Is(err, store.ErrFieldNotFound):
			return writeErr(cmd, err)
		}
		opts.Store = &st
	}

	out, err := tui.Run(opts)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{"data": out})
}
