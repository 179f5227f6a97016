package cli

import (
	"strings"

	"datepicker/internal/picker"

	"github.com/spf13/cobra"
)

func newGridCmd(app *App) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "grid [YYYY-MM]",
		Short: "Print the cells of the active grid (day, month or year view)",
		Example: strings.TrimSpace(`
datepicker grid 2024-02
datepicker grid --value "2024-02-14, 2024-02-20" --mode multiple
datepicker grid 2024-02 --view year --format edn
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := pickerConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			pg, err := newPage(value, cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 1 {
				month, err := parseMonth(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				pg.p.GoTo(month)
			}

			data := map[string]any{
				"month": monthKey(pg.p.Anchor()),
				"view":  string(pg.p.View()),
				"today": pg.p.Today().Key(),
				"cells": cellsOut(pg.p.Cells()),
				"value": pg.input.Value(),
				"keys":  pg.p.Keys(),
			}
			if pg.p.View() == picker.ViewDay {
				data["weekdays"] = picker.Weekdays()
			}
			next := pg.p.Anchor().AddMonths(1)
			return writeOut(cmd, app, map[string]any{
				"data":   data,
				"_hints": []string{"datepicker grid " + monthKey(next)},
			})
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "Input text to bootstrap the selection from")
	return cmd
}
