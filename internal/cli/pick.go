package cli

import (
	"errors"
	"strings"

	"datepicker/internal/store"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"
)

func newPickCmd(app *App) *cobra.Command {
	var value string
	var field string
	var clicks []string
	var selects []string
	var month string

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Replay clicks on the popup and print the resulting input value",
		Long: strings.TrimSpace(`
Mount a picker on an in-memory input, click popup elements in order, and
print what the input holds afterwards. Each --click is a selector matched
against the popup markup: tag, #id, .class and [attr] / [attr="value"]
compounds such as 'button[data-date="2024-03-15"]'.

Each --select picks a date key directly, before any --click.

With --field the input starts from the persisted value and the result is
saved back when the selection changed.
`),
		Example: strings.TrimSpace(`
datepicker pick --click '[data-date="2024-03-15"]'
datepicker pick --value 2024-03-15 --click '[data-next]' --click '[data-day="2"]'
datepicker pick --mode multiple --field trip --month 2024-04 --click '[data-date="2024-04-02"]' --click '[data-date="2024-04-05"]'
datepicker pick --field trip --click '[data-clear]'
datepicker pick --mode multiple --select 2024-03-15 --select 2024-03-18
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if field != "" && cmd.Flags().Changed("value") {
				return writeErr(cmd, errors.New("use either --field or --value"))
			}
			cfg, _, err := pickerConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var st store.Store
			if field != "" {
				st, err = openStore(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				f, err := st.LoadField(ctx, field)
				switch {
				case err == nil:
					value = f.Value
				case !errors.Is(err, store.ErrFieldNotFound):
					return writeErr(cmd, err)
				}
			}

			pg, err := newPage(value, cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			if month != "" {
				m, err := parseMonth(month)
				if err != nil {
					return writeErr(cmd, err)
				}
				pg.p.GoTo(m)
			}
			for _, key := range selects {
				if err := pg.selectDate(key); err != nil {
					return writeErr(cmd, err)
				}
			}
			for _, sel := range clicks {
				if err := pg.click(sel); err != nil {
					return writeErr(cmd, err)
				}
			}

			data := pg.stateOut()
			if field != "" {
				data["field"] = field
				if pg.changes > 0 {
					if _, err := st.SaveField(ctx, field, pg.input.Value()); err != nil {
						return writeErr(cmd, err)
					}
					ctxlog.Logger(ctx).Info("field saved", "field", field, "value", pg.input.Value())
				}
			}
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "Initial input text")
	cmd.Flags().StringVar(&field, "field", "", "Persisted field to load and save")
	cmd.Flags().StringVar(&month, "month", "", "Month to show before clicking (YYYY-MM)")
	cmd.Flags().StringArrayVar(&selects, "select", nil, "Date key to pick (repeatable, YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&clicks, "click", nil, "Selector of a popup element to click (repeatable, in order)")
	return cmd
}
